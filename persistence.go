package instantbox

import (
	"context"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles explicit persistence of the collections. Every
// committed change is saved automatically; Save is for callers that want a
// synchronous, error-reporting flush.
type Persistence interface {
	Save(ctx context.Context) error
}

// Save writes both collections to the persistence port.
func (c *client) Save(ctx context.Context) error {
	cameras, err := inventory.EncodeCameras(c.store.Cameras())
	if err != nil {
		return err
	}
	packs, err := inventory.EncodeFilmPacks(c.store.FilmPacks())
	if err != nil {
		return err
	}
	if err := c.options.persistence.Save(ctx, inventory.CollectionCameras, cameras); err != nil {
		c.unsaved[inventory.CollectionCameras].Store(true)
		return errors.WrapIO("save", inventory.CollectionCameras, err)
	}
	c.unsaved[inventory.CollectionCameras].Store(false)
	if err := c.options.persistence.Save(ctx, inventory.CollectionFilmPacks, packs); err != nil {
		c.unsaved[inventory.CollectionFilmPacks].Store(true)
		return errors.WrapIO("save", inventory.CollectionFilmPacks, err)
	}
	c.unsaved[inventory.CollectionFilmPacks].Store(false)
	return nil
}

// persistEvent saves the changed collection along with any collection whose
// last save failed. Failures are logged; the in-memory state stays
// authoritative and the next change saves again.
func (c *client) persistEvent(ev inventory.Event) {
	ctx, cancel := context.WithTimeout(c.bgCtx, constants.DefaultTimeout)
	defer cancel()

	var data []byte
	var err error
	switch ev.Collection {
	case inventory.CollectionCameras:
		data, err = inventory.EncodeCameras(ev.Cameras)
	case inventory.CollectionFilmPacks:
		data, err = inventory.EncodeFilmPacks(ev.FilmPacks)
	default:
		return
	}
	c.persistCollection(ctx, ev.Collection, data, err)

	for _, name := range []string{inventory.CollectionCameras, inventory.CollectionFilmPacks} {
		if name == ev.Collection || !c.unsaved[name].Load() {
			continue
		}
		data, err := c.encodeCollection(name)
		c.persistCollection(ctx, name, data, err)
	}
}

// persistCollection saves one encoded collection and tracks whether it is
// still unsaved.
func (c *client) persistCollection(ctx context.Context, name string, data []byte, err error) {
	if err == nil {
		err = c.options.persistence.Save(ctx, name, data)
	}
	if err != nil {
		c.unsaved[name].Store(true)
		logging.FromContext(ctx).Error().
			Err(err).
			Str("collection", name).
			Msg("Failed to persist collection")
		return
	}
	c.unsaved[name].Store(false)
}

func (c *client) encodeCollection(name string) ([]byte, error) {
	if name == inventory.CollectionCameras {
		return inventory.EncodeCameras(c.store.Cameras())
	}
	return inventory.EncodeFilmPacks(c.store.FilmPacks())
}

// restore loads persisted collections into the store. Undecodable data is
// logged and treated as empty.
func (c *client) restore(ctx context.Context) error {
	log := logging.FromContext(ctx)

	camerasData, err := c.options.persistence.Load(ctx, inventory.CollectionCameras)
	if err != nil {
		return errors.WrapIO("load", inventory.CollectionCameras, err)
	}
	packsData, err := c.options.persistence.Load(ctx, inventory.CollectionFilmPacks)
	if err != nil {
		return errors.WrapIO("load", inventory.CollectionFilmPacks, err)
	}

	cameras, err := inventory.DecodeCameras(camerasData)
	if err != nil {
		log.Error().Err(err).Str("collection", inventory.CollectionCameras).Msg("Discarding unreadable collection")
		cameras = nil
	}
	packs, err := inventory.DecodeFilmPacks(packsData)
	if err != nil {
		log.Error().Err(err).Str("collection", inventory.CollectionFilmPacks).Msg("Discarding unreadable collection")
		packs = nil
	}

	return c.store.Update(func(tx *inventory.Tx) error {
		tx.ReplaceCameras(cameras)
		tx.ReplaceFilmPacks(packs)
		return nil
	})
}
