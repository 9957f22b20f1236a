package instantbox

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/agentstation/instantbox/pkg/catalog"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Compile-time interface check to ensure proper implementation.
var _ Inventory = (*client)(nil)

// Inventory provides camera and film pack CRUD. Lookups by id return
// *errors.NotFoundError when nothing matches.
type Inventory interface {
	AddCamera(ctx context.Context, in CameraInput) (inventory.Camera, error)
	UpdateCamera(ctx context.Context, id string, patch CameraPatch) (inventory.Camera, error)
	// DeleteCamera deletes the camera and every pack loaded in it, returning
	// the number of packs removed.
	DeleteCamera(ctx context.Context, id string) (int, error)
	Camera(id string) (inventory.Camera, error)
	Cameras(sort ordering.CameraSort) []inventory.Camera

	AddFilmPack(ctx context.Context, in FilmPackInput) (inventory.FilmPack, error)
	UpdateFilmPack(ctx context.Context, id string, patch FilmPackPatch) (inventory.FilmPack, error)
	DeleteFilmPack(ctx context.Context, id string) error
	// DuplicateFilmPack adds a fresh, unloaded copy of a pack.
	DuplicateFilmPack(ctx context.Context, id string) (inventory.FilmPack, error)
	FilmPack(id string) (inventory.FilmPack, error)
	FilmPacks(policy ordering.Policy) []inventory.FilmPack
}

// CameraInput describes a new camera. Only Model is required; the other
// attributes default to the reference catalog entry for the model.
type CameraInput struct {
	Nickname    string
	Model       string
	Description *string
	FilmType    *string
	Capacity    int
	IconColor   string
	CustomPhoto []byte
}

// CameraPatch changes selected camera attributes. A model change derives
// capacity, image, icon, brand, year and film type again.
type CameraPatch struct {
	Nickname    *string
	Model       *string
	Description *string
	FilmType    *string
	IconColor   *string
	CustomPhoto *[]byte
}

// FilmPackInput describes a new film pack. Total defaults to the catalog
// capacity of the type, Remaining to Total, and PurchaseDate to today.
type FilmPackInput struct {
	Type         string
	Model        string
	Color        *string
	Total        int
	Remaining    *int
	PurchaseDate time.Time
	ExpiryDate   *time.Time
	Note         *string
}

// FilmPackPatch changes selected film pack attributes.
type FilmPackPatch struct {
	Type         *string
	Model        *string
	Color        *string
	Total        *int
	Remaining    *int
	PurchaseDate *time.Time
	ExpiryDate   *time.Time
	ClearExpiry  bool
	Note         *string
}

// AddCamera creates a camera from in.
func (c *client) AddCamera(ctx context.Context, in CameraInput) (inventory.Camera, error) {
	model := strings.TrimSpace(in.Model)
	if model == "" {
		return inventory.Camera{}, errors.NewValidationError("model", in.Model, "camera model is required")
	}

	now := c.now()
	cam := inventory.Camera{
		ID:          inventory.NewID(),
		Nickname:    strings.TrimSpace(in.Nickname),
		Description: in.Description,
		IconColor:   in.IconColor,
		CustomPhoto: slices.Clone(in.CustomPhoto),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cam.Nickname == "" {
		cam.Nickname = model
	}
	if cam.IconColor == "" {
		cam.IconColor = inventory.RandomIconColor()
	}
	applyCameraModel(&cam, c.Catalog(), model, in.FilmType)
	if in.Capacity > 0 {
		cam.Capacity = in.Capacity
	}

	if err := c.store.Update(func(tx *inventory.Tx) error { return tx.AddCamera(cam) }); err != nil {
		return inventory.Camera{}, err
	}
	logging.FromContext(ctx).Info().
		Str("camera_id", cam.ID).
		Str("model", cam.Model).
		Int("capacity", cam.Capacity).
		Msg("Camera added")
	return cam.Clone(), nil
}

// applyCameraModel sets the model and the attributes derived from it.
// An explicit film type wins over the catalog's.
func applyCameraModel(cam *inventory.Camera, cat *catalog.Catalog, model string, filmType *string) {
	d := cat.CameraDefaults(model)
	cam.Model = model
	cam.Capacity = d.Capacity
	cam.Image = d.Image
	cam.Icon = d.Icon
	cam.Brand = d.Brand
	cam.Year = d.Year
	if cam.Description == nil && d.Description != "" {
		desc := d.Description
		cam.Description = &desc
	}

	switch {
	case filmType != nil && strings.TrimSpace(*filmType) != "":
		ft := strings.TrimSpace(*filmType)
		cam.FilmType = &ft
	case d.FilmType != "":
		ft := d.FilmType
		cam.FilmType = &ft
	default:
		cam.FilmType = nil
	}
}

// UpdateCamera applies patch to the camera.
func (c *client) UpdateCamera(ctx context.Context, id string, patch CameraPatch) (inventory.Camera, error) {
	var out inventory.Camera
	err := c.store.Update(func(tx *inventory.Tx) error {
		cam, ok := tx.Camera(id)
		if !ok {
			return errors.NewNotFoundError("camera", id)
		}
		if patch.Nickname != nil {
			cam.Nickname = strings.TrimSpace(*patch.Nickname)
		}
		if patch.Description != nil {
			cam.Description = patch.Description
		}
		if patch.IconColor != nil {
			cam.IconColor = *patch.IconColor
		}
		if patch.CustomPhoto != nil {
			cam.CustomPhoto = slices.Clone(*patch.CustomPhoto)
		}
		if patch.Model != nil {
			model := strings.TrimSpace(*patch.Model)
			if model == "" {
				return errors.NewValidationError("model", *patch.Model, "camera model is required")
			}
			if model != cam.Model {
				applyCameraModel(&cam, c.Catalog(), model, patch.FilmType)
			}
		}
		if patch.FilmType != nil {
			if ft := strings.TrimSpace(*patch.FilmType); ft != "" {
				cam.FilmType = &ft
			} else {
				cam.FilmType = nil
			}
		}
		if cam.Nickname == "" {
			cam.Nickname = cam.Model
		}
		cam.UpdatedAt = c.now()
		out = cam
		return tx.PutCamera(cam)
	})
	if err != nil {
		return inventory.Camera{}, err
	}
	logging.FromContext(ctx).Info().Str("camera_id", id).Msg("Camera updated")
	return out.Clone(), nil
}

// DeleteCamera deletes the camera and cascades to its loaded packs.
func (c *client) DeleteCamera(ctx context.Context, id string) (int, error) {
	removed, ok := c.assoc.DeleteCameraCascade(ctx, id)
	if !ok {
		return 0, errors.NewNotFoundError("camera", id)
	}
	return removed, nil
}

// Camera returns the camera with the given id.
func (c *client) Camera(id string) (inventory.Camera, error) {
	cam, ok := c.store.Camera(id)
	if !ok {
		return inventory.Camera{}, errors.NewNotFoundError("camera", id)
	}
	return cam, nil
}

// Cameras returns all cameras in the requested order.
func (c *client) Cameras(sort ordering.CameraSort) []inventory.Camera {
	loaded := make(map[string]bool)
	for _, p := range c.store.FilmPacks() {
		if p.AssociatedCamera != nil {
			loaded[*p.AssociatedCamera] = true
		}
	}
	return ordering.SortCameras(c.store.Cameras(), sort, func(id string) bool { return loaded[id] })
}

// AddFilmPack creates a film pack from in.
func (c *client) AddFilmPack(ctx context.Context, in FilmPackInput) (inventory.FilmPack, error) {
	filmType := strings.TrimSpace(in.Type)
	if filmType == "" {
		return inventory.FilmPack{}, errors.NewValidationError("type", in.Type, "film type is required")
	}
	cat := c.Catalog()

	model := strings.TrimSpace(in.Model)
	if model == "" {
		if models := cat.ModelsForType(filmType); len(models) > 0 {
			model = models[0]
		}
	}

	total := in.Total
	if total == 0 {
		total = cat.DefaultCapacity(filmType)
	}
	remaining := total
	if in.Remaining != nil {
		remaining = *in.Remaining
	}
	if err := inventory.ValidateShots(total, remaining); err != nil {
		return inventory.FilmPack{}, err
	}

	now := c.now()
	purchase := in.PurchaseDate
	if purchase.IsZero() {
		purchase = inventory.StartOfDay(now)
	}

	pack := inventory.FilmPack{
		ID:           inventory.NewID(),
		Type:         filmType,
		Model:        model,
		Color:        in.Color,
		Total:        total,
		Remaining:    remaining,
		PurchaseDate: purchase,
		ExpiryDate:   in.ExpiryDate,
		Note:         in.Note,
		UpdatedAt:    now,
	}
	if err := c.store.Update(func(tx *inventory.Tx) error { return tx.AddFilmPack(pack) }); err != nil {
		return inventory.FilmPack{}, err
	}
	logging.FromContext(ctx).Info().
		Str("pack_id", pack.ID).
		Str("type", pack.Type).
		Str("model", pack.Model).
		Int("total", pack.Total).
		Msg("Film pack added")
	return pack.Clone(), nil
}

// UpdateFilmPack applies patch to the pack.
func (c *client) UpdateFilmPack(ctx context.Context, id string, patch FilmPackPatch) (inventory.FilmPack, error) {
	var out inventory.FilmPack
	err := c.store.Update(func(tx *inventory.Tx) error {
		pack, ok := tx.FilmPack(id)
		if !ok {
			return errors.NewNotFoundError("film pack", id)
		}
		if patch.Type != nil {
			ft := strings.TrimSpace(*patch.Type)
			if ft == "" {
				return errors.NewValidationError("type", *patch.Type, "film type is required")
			}
			pack.Type = ft
		}
		if patch.Model != nil {
			pack.Model = strings.TrimSpace(*patch.Model)
		}
		if patch.Color != nil {
			pack.Color = patch.Color
		}
		if patch.Total != nil {
			pack.Total = *patch.Total
		}
		if patch.Remaining != nil {
			pack.Remaining = *patch.Remaining
		}
		if patch.PurchaseDate != nil {
			pack.PurchaseDate = *patch.PurchaseDate
		}
		if patch.ClearExpiry {
			pack.ExpiryDate = nil
		} else if patch.ExpiryDate != nil {
			pack.ExpiryDate = patch.ExpiryDate
		}
		if patch.Note != nil {
			pack.Note = patch.Note
		}
		pack.UpdatedAt = c.now()
		out = pack
		return tx.PutFilmPack(pack)
	})
	if err != nil {
		return inventory.FilmPack{}, err
	}
	logging.FromContext(ctx).Info().Str("pack_id", id).Msg("Film pack updated")
	return out.Clone(), nil
}

// DeleteFilmPack removes the pack, unloading it if needed.
func (c *client) DeleteFilmPack(ctx context.Context, id string) error {
	err := c.store.Update(func(tx *inventory.Tx) error {
		if _, ok := tx.DeleteFilmPack(id); !ok {
			return errors.NewNotFoundError("film pack", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Str("pack_id", id).Msg("Film pack deleted")
	return nil
}

// DuplicateFilmPack adds a copy of the pack with a new id, all shots
// remaining and no camera.
func (c *client) DuplicateFilmPack(ctx context.Context, id string) (inventory.FilmPack, error) {
	var dup inventory.FilmPack
	err := c.store.Update(func(tx *inventory.Tx) error {
		src, ok := tx.FilmPack(id)
		if !ok {
			return errors.NewNotFoundError("film pack", id)
		}
		dup = src.Clone()
		dup.ID = inventory.NewID()
		dup.Remaining = dup.Total
		dup.AssociatedCamera = nil
		dup.UpdatedAt = c.now()
		return tx.AddFilmPack(dup)
	})
	if err != nil {
		return inventory.FilmPack{}, err
	}
	logging.FromContext(ctx).Info().Str("pack_id", dup.ID).Str("source_id", id).Msg("Film pack duplicated")
	return dup.Clone(), nil
}

// FilmPack returns the pack with the given id.
func (c *client) FilmPack(id string) (inventory.FilmPack, error) {
	p, ok := c.store.FilmPack(id)
	if !ok {
		return inventory.FilmPack{}, errors.NewNotFoundError("film pack", id)
	}
	return p, nil
}

// FilmPacks returns all packs in the requested order.
func (c *client) FilmPacks(policy ordering.Policy) []inventory.FilmPack {
	return c.order.Packs(c.store.FilmPacks(), policy)
}
