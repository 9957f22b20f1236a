// Package instantbox is the entry point of the instant film inventory. It
// ties the entity store, the reference catalog, the compatibility resolver,
// the association and ordering engines and the sync merge engine together
// behind one Client.
//
// Example usage:
//
//	box, err := instantbox.New(ctx,
//	    instantbox.WithPersistence(db),
//	    instantbox.WithReplication(replica),
//	    instantbox.WithSync(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer box.Close()
//
//	cam, _ := box.AddCamera(ctx, instantbox.CameraInput{Model: "600"})
//	pack, _ := box.AddFilmPack(ctx, instantbox.FilmPackInput{Type: "600", Model: "Color"})
//	if res := box.Load(ctx, pack.ID, cam.ID); !res.OK {
//	    fmt.Println(res.Reason.Message())
//	}
//	box.Shoot(ctx, cam.ID, 1)
package instantbox

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentstation/instantbox/internal/persistence/memory"
	"github.com/agentstation/instantbox/pkg/association"
	"github.com/agentstation/instantbox/pkg/catalog"
	"github.com/agentstation/instantbox/pkg/compat"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/merge"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client manages the inventory with persistence, sync and event hooks.
type Client interface {
	// Inventory provides camera and film pack CRUD
	Inventory

	// Associations loads, unloads and shoots film
	Associations

	// Groups provides the typology view of the film packs
	Groups

	// Catalogs provides the reference catalog
	Catalogs

	// Syncer reconciles with the remote replica
	Syncer

	// AutoSyncer controls periodic syncs
	AutoSyncer

	// Persistence saves the collections explicitly
	Persistence

	// Hooks registers entity change callbacks
	Hooks

	// Settings toggles runtime features
	Settings

	// DeviceID identifies this installation to the replica
	DeviceID() string

	// Close stops background work and waits for in-flight syncs
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	store    *inventory.Store
	resolver *compat.Resolver
	assoc    *association.Engine
	order    *ordering.Engine
	merger   *merge.Engine
	loader   *catalog.Loader
	catalog  atomic.Pointer[catalogState]
	hooks    *hooks
	deviceID string

	syncEnabled atomic.Bool
	unsubscribe []func()

	// collections whose last save failed
	unsaved map[string]*atomic.Bool

	// background syncs
	bgCtx    context.Context
	bgCancel context.CancelFunc
	bgMu     sync.Mutex
	bgWG     sync.WaitGroup
	pending  map[string]*atomic.Bool
	closed   atomic.Bool

	// auto sync state
	autoMu       sync.Mutex
	autoInterval time.Duration
	autoTicker   *time.Ticker
	autoStop     chan struct{}
	autoCancel   context.CancelFunc
}

// New creates a Client. It restores persisted collections, resolves the
// device id and loads the reference catalog before returning.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.persistence == nil {
		o.persistence = memory.New()
	}

	log := logging.FromContext(ctx)
	c := &client{
		options:      o,
		store:        inventory.NewStore(),
		resolver:     compat.NewResolver(),
		merger:       merge.NewEngine(),
		hooks:        newHooks(),
		autoInterval: o.autoSyncInterval,
		pending: map[string]*atomic.Bool{
			inventory.CollectionCameras:   {},
			inventory.CollectionFilmPacks: {},
		},
		unsaved: map[string]*atomic.Bool{
			inventory.CollectionCameras:   {},
			inventory.CollectionFilmPacks: {},
		},
	}
	c.bgCtx, c.bgCancel = context.WithCancel(context.WithoutCancel(ctx))
	c.syncEnabled.Store(o.syncEnabled)
	c.resolver.SetIgnoreCompatibility(o.ignoreCompatibility)

	if err := c.restore(ctx); err != nil {
		c.bgCancel()
		return nil, err
	}
	if c.deviceID, err = c.resolveDeviceID(ctx); err != nil {
		c.bgCancel()
		return nil, err
	}

	c.loader = catalog.NewLoader(o.catalogSource,
		catalog.WithCache(o.persistence),
		catalog.WithTTL(o.catalogTTL),
		catalog.WithClock(o.now),
	)
	cat, origin, err := c.loader.Load(ctx)
	if err != nil {
		c.bgCancel()
		return nil, err
	}
	c.setCatalog(cat, origin)

	c.assoc = association.New(c.store, c.resolver,
		association.WithReminder(o.reminder, o.reminderDelay),
		association.WithClock(o.now),
	)
	c.assoc.SetRemindersEnabled(o.remindersEnabled)
	c.order = ordering.New(c.store.FilmPacks(), ordering.WithClock(o.now))

	// Observers run in subscription order: derived state first, then
	// persistence, then user hooks and replication.
	c.unsubscribe = append(c.unsubscribe,
		c.store.Subscribe(c.resolver),
		c.store.Subscribe(c.order),
		c.store.Subscribe(inventory.ObserverFunc(c.persistEvent)),
		c.store.Subscribe(c.hooks),
		c.store.Subscribe(inventory.ObserverFunc(c.syncEvent)),
	)

	log.Debug().
		Int("cameras", len(c.store.Cameras())).
		Int("film_packs", len(c.store.FilmPacks())).
		Str("catalog", string(origin)).
		Str("device_id", c.deviceID).
		Bool("sync", o.syncEnabled).
		Msg("Inventory ready")

	if o.autoSyncEnabled {
		if err := c.AutoSyncOn(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// DeviceID returns the id this installation pushes with.
func (c *client) DeviceID() string {
	return c.deviceID
}

// Close stops auto sync, cancels background syncs and waits for them.
func (c *client) Close() error {
	c.bgMu.Lock()
	if c.closed.Load() {
		c.bgMu.Unlock()
		return nil
	}
	c.closed.Store(true)
	c.bgMu.Unlock()

	_ = c.AutoSyncOff()
	for _, unsub := range c.unsubscribe {
		unsub()
	}
	c.bgCancel()
	c.bgWG.Wait()
	return nil
}

func (c *client) now() time.Time {
	return c.options.now()
}
