package instantbox

import (
	"context"
	stderrors "errors"
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/merge"
	pkgsync "github.com/agentstation/instantbox/pkg/sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Syncer = (*client)(nil)

// Syncer reconciles the local collections with the remote replica.
type Syncer interface {
	// Sync runs one merge pass per collection, cameras first.
	Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error)
}

// errUnchanged rolls back a merge that would not change the collection.
var errUnchanged = stderrors.New("merge: unchanged")

// Sync runs a merge pass for each requested collection. A failing pass
// aborts the run; collections already synced stay synced.
func (c *client) Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error) {
	if c.options.replication == nil || !c.syncEnabled.Load() {
		return nil, errors.ErrSyncDisabled
	}

	options := pkgsync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	strategy := c.options.strategy
	if options.Strategy != "" {
		strategy = options.Strategy
	}

	result := &pkgsync.Result{DryRun: options.DryRun}
	for _, collection := range options.Targets() {
		res, err := c.syncCollection(ctx, collection, strategy, options.DryRun)
		if err != nil {
			return result, errors.NewSyncError([]string{collection}, err)
		}
		result.Collections = append(result.Collections, res)
	}

	logging.FromContext(ctx).Info().
		Bool("changes", result.HasChanges()).
		Bool("dry_run", options.DryRun).
		Msg(result.Summary())
	return result, nil
}

// syncCollection runs one serialized merge pass: fetch, merge, push, then
// replace the local collection. A fetch or push failure leaves the local
// collection untouched.
func (c *client) syncCollection(ctx context.Context, collection string, strategy merge.StrategyType, dryRun bool) (*pkgsync.CollectionResult, error) {
	var res *pkgsync.CollectionResult
	err := c.merger.Do(ctx, collection, func(ctx context.Context) error {
		ctx = logging.WithCollection(ctx, collection)

		data, err := c.options.replication.Fetch(ctx, collection)
		if err != nil {
			return err
		}

		switch collection {
		case inventory.CollectionCameras:
			remote, err := inventory.DecodeCameras(data)
			if err != nil {
				return errors.NewMergeError(collection, "decode", err)
			}
			res, err = pass(ctx, c, collection, remote, merge.For[inventory.Camera](strategy), dryRun,
				(*inventory.Tx).Cameras, (*inventory.Tx).ReplaceCameras, inventory.EncodeCameras)
			return err
		case inventory.CollectionFilmPacks:
			remote, err := inventory.DecodeFilmPacks(data)
			if err != nil {
				return errors.NewMergeError(collection, "decode", err)
			}
			res, err = pass(ctx, c, collection, remote, merge.For[inventory.FilmPack](strategy), dryRun,
				(*inventory.Tx).FilmPacks, (*inventory.Tx).ReplaceFilmPacks, inventory.EncodeFilmPacks)
			if err == nil && res.Changed && !dryRun {
				c.warnSharedCameras(ctx)
			}
			return err
		default:
			return errors.NewValidationError("collection", collection, "unknown collection")
		}
	})
	return res, err
}

// pass merges remote into the local collection of type T.
func pass[T interface {
	Key() string
	Modified() time.Time
}](
	ctx context.Context,
	c *client,
	collection string,
	remote []T,
	strategy merge.Strategy[T],
	dryRun bool,
	items func(*inventory.Tx) []T,
	replace func(*inventory.Tx, []T),
	encode func([]T) ([]byte, error),
) (*pkgsync.CollectionResult, error) {
	log := logging.FromContext(ctx)
	res := &pkgsync.CollectionResult{Collection: collection, Remote: len(remote)}

	// Push what the replica would hold after the merge before touching local state.
	var snapshot []T
	_ = c.store.Update(func(tx *inventory.Tx) error {
		snapshot = merge.Merge(items(tx), remote, strategy)
		return errUnchanged
	})
	if !dryRun && !equal(snapshot, remote) {
		data, err := encode(snapshot)
		if err != nil {
			return nil, errors.NewMergeError(collection, "encode", err)
		}
		if err := c.options.replication.Push(ctx, collection, data, c.deviceID); err != nil {
			return nil, err
		}
		res.Pushed = true
	}

	err := c.store.Update(func(tx *inventory.Tx) error {
		local := items(tx)
		merged, stats := merge.MergeWithStats(local, remote, strategy)
		res.Replaced, res.Added, res.Kept = stats.Replaced, stats.Added, stats.Kept
		res.Changed = !equal(local, merged)
		if !res.Changed || dryRun {
			return errUnchanged
		}
		replace(tx, merged)
		return nil
	})
	if err != nil && !stderrors.Is(err, errUnchanged) {
		return nil, err
	}

	log.Debug().
		Int("remote", res.Remote).
		Int("replaced", res.Replaced).
		Int("added", res.Added).
		Int("kept", res.Kept).
		Bool("changed", res.Changed).
		Bool("pushed", res.Pushed).
		Msg("Merge pass completed")
	return res, nil
}

// warnSharedCameras logs cameras that hold more than one pack. A merge
// replaces packs wholesale, so two devices loading different packs into the
// same camera both survive it.
func (c *client) warnSharedCameras(ctx context.Context) {
	loaded := make(map[string][]string)
	for _, p := range c.store.FilmPacks() {
		if p.AssociatedCamera != nil {
			loaded[*p.AssociatedCamera] = append(loaded[*p.AssociatedCamera], p.ID)
		}
	}
	for _, cameraID := range slices.Sorted(maps.Keys(loaded)) {
		if ids := loaded[cameraID]; len(ids) > 1 {
			logging.FromContext(ctx).Warn().
				Str("camera_id", cameraID).
				Strs("film_pack_ids", ids).
				Msg("Camera holds more than one film pack after merge")
		}
	}
}

func equal[T any](a, b []T) bool {
	return slices.EqualFunc(a, b, func(x, y T) bool { return reflect.DeepEqual(x, y) })
}

// syncEvent schedules a background merge pass for the changed collection.
// Passes coalesce: at most one is queued per collection.
func (c *client) syncEvent(ev inventory.Event) {
	if c.options.replication == nil || !c.syncEnabled.Load() {
		return
	}
	flag, ok := c.pending[ev.Collection]
	if !ok || !flag.CompareAndSwap(false, true) {
		return
	}

	started := c.background(func(ctx context.Context) {
		flag.Store(false)
		ctx, cancel := context.WithTimeout(ctx, constants.SyncContextTimeout)
		defer cancel()
		if _, err := c.syncCollection(ctx, ev.Collection, c.options.strategy, false); err != nil {
			log := logging.FromContext(ctx).Warn().Err(err).Str("collection", ev.Collection)
			if re, ok := errors.IsReplicationError(err); ok {
				log = log.Str("kind", string(re.Kind))
			}
			log.Msg("Background sync failed")
		}
	})
	if !started {
		flag.Store(false)
	}
}

// background runs fn in a goroutine tracked by Close. It returns false once
// the client is closed.
func (c *client) background(fn func(ctx context.Context)) bool {
	c.bgMu.Lock()
	defer c.bgMu.Unlock()
	if c.closed.Load() {
		return false
	}
	c.bgWG.Add(1)
	go func() {
		defer c.bgWG.Done()
		fn(c.bgCtx)
	}()
	return true
}
