package instantbox

import (
	"context"

	"github.com/agentstation/instantbox/pkg/association"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
)

// Compile-time interface check to ensure proper implementation.
var _ Associations = (*client)(nil)

// Associations moves film between packs and cameras.
type Associations interface {
	// CheckLoad evaluates the load preconditions without changing anything
	CheckLoad(packID, cameraID string) association.LoadResult
	// Load puts a pack into a camera, ejecting any other pack there
	Load(ctx context.Context, packID, cameraID string) association.LoadResult
	// Unload removes and deletes the pack loaded in the camera
	Unload(ctx context.Context, cameraID string) (inventory.FilmPack, bool)
	// Eject unloads the pack but keeps it in the inventory
	Eject(ctx context.Context, cameraID string) (inventory.FilmPack, bool)
	// Shoot records n exposures with the camera
	Shoot(ctx context.Context, cameraID string, n int) association.ConsumeResult
	// PackInCamera returns the pack loaded in the camera
	PackInCamera(cameraID string) (inventory.FilmPack, bool)
	// CompatibleCameras lists the cameras the pack can be loaded in
	CompatibleCameras(packID string) ([]inventory.Camera, error)
}

func (c *client) CheckLoad(packID, cameraID string) association.LoadResult {
	return c.assoc.CheckLoad(packID, cameraID)
}

func (c *client) Load(ctx context.Context, packID, cameraID string) association.LoadResult {
	return c.assoc.Load(ctx, packID, cameraID)
}

func (c *client) Unload(ctx context.Context, cameraID string) (inventory.FilmPack, bool) {
	return c.assoc.Unload(ctx, cameraID)
}

func (c *client) Eject(ctx context.Context, cameraID string) (inventory.FilmPack, bool) {
	return c.assoc.Eject(ctx, cameraID)
}

func (c *client) Shoot(ctx context.Context, cameraID string, n int) association.ConsumeResult {
	return c.assoc.ConsumeShots(ctx, n, cameraID)
}

func (c *client) PackInCamera(cameraID string) (inventory.FilmPack, bool) {
	return c.store.PackInCamera(cameraID)
}

func (c *client) CompatibleCameras(packID string) ([]inventory.Camera, error) {
	p, ok := c.store.FilmPack(packID)
	if !ok {
		return nil, errors.NewNotFoundError("film pack", packID)
	}
	return c.resolver.CompatibleCameras(p.Type, c.store.Cameras()), nil
}
