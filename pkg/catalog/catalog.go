// Package catalog provides the read-only reference catalog of camera models,
// film pack types and film pack models.
//
// A Catalog is immutable once built. The Loader builds one from the
// published documents, a persisted cache or the embedded defaults, in that
// order of preference.
package catalog

import (
	"slices"
	"strings"

	"github.com/agentstation/instantbox/pkg/constants"
)

// fallbackModels lists film models per type when the catalog has none.
var fallbackModels = map[string][]string{
	"600":     fullModelRange,
	"i-Type":  fullModelRange,
	"SX-70":   fullModelRange,
	"Go":      {"Color", "Black & White", "Color Frame", "Black Frame B&W"},
	"Spectra": {"Color", "Black & White", "Color Frame", "Black Frame B&W"},
	"8x10":    {"Color", "Black & White"},
	"4x5":     {"Color", "Black & White"},
}

var fullModelRange = []string{
	"Color", "Black & White", "Color Frame", "Black Frame B&W",
	"Duochrome (Blue)", "Duochrome (Green)", "Duochrome (Yellow)", "Duochrome (Red)", "Duochrome (Orange)",
	"Metallic", "Gold Frame", "Silver Frame", "Round Frame", "Retro", "Vintage",
}

var basicModels = []string{"Color", "Black & White"}

// Catalog is an immutable snapshot of the reference data.
type Catalog struct {
	cameraModels   []CameraModel
	filmPackTypes  []FilmPackType
	filmPackModels []FilmPackModel
}

// New creates a catalog from its documents.
func New(cameras CameraModelsDocument, films FilmPackModelsDocument) *Catalog {
	return &Catalog{
		cameraModels:   slices.Clone(cameras.CameraModels),
		filmPackTypes:  slices.Clone(films.FilmPackTypes),
		filmPackModels: slices.Clone(films.FilmPackModels),
	}
}

// CameraModels returns all camera models.
func (c *Catalog) CameraModels() []CameraModel {
	return slices.Clone(c.cameraModels)
}

// FilmPackTypes returns all film pack types.
func (c *Catalog) FilmPackTypes() []FilmPackType {
	return slices.Clone(c.filmPackTypes)
}

// FilmPackModels returns all film pack models.
func (c *Catalog) FilmPackModels() []FilmPackModel {
	return slices.Clone(c.filmPackModels)
}

// TypeNames returns the film type display names in catalog order.
func (c *Catalog) TypeNames() []string {
	names := make([]string, len(c.filmPackTypes))
	for i, t := range c.filmPackTypes {
		names[i] = t.Name
	}
	return names
}

// CameraModelByName returns the camera model with the exact name.
func (c *Catalog) CameraModelByName(name string) (CameraModel, bool) {
	for _, m := range c.cameraModels {
		if m.Name == name {
			return m, true
		}
	}
	return CameraModel{}, false
}

// FilmPackType returns the film type whose name or id matches.
func (c *Catalog) FilmPackType(name string) (FilmPackType, bool) {
	for _, t := range c.filmPackTypes {
		if t.Name == name || t.ID == name {
			return t, true
		}
	}
	return FilmPackType{}, false
}

// DefaultCapacity returns the exposure count of a fresh pack of the given type.
func (c *Catalog) DefaultCapacity(filmType string) int {
	if t, ok := c.FilmPackType(filmType); ok && t.DefaultCapacity > 0 {
		return t.DefaultCapacity
	}
	return constants.DefaultPackCapacity
}

// ModelsForType returns the film model names available for a type. When the
// catalog carries models, those whose category matches the type are used.
func (c *Catalog) ModelsForType(filmType string) []string {
	if len(c.filmPackModels) > 0 {
		var names []string
		for _, m := range c.filmPackModels {
			if strings.EqualFold(m.Category, filmType) {
				names = append(names, m.Name)
			}
		}
		return names
	}
	if names, ok := fallbackModels[filmType]; ok {
		return slices.Clone(names)
	}
	return slices.Clone(basicModels)
}

// FindFilmModel looks a film model up by display name.
func (c *Catalog) FindFilmModel(name string) (FilmPackModel, bool) {
	return FindModel(name, c.filmPackModels)
}

// CameraDefaults are the attributes a camera inherits from its model.
type CameraDefaults struct {
	Capacity    int
	Image       string
	Icon        string
	Brand       string
	Year        int
	Description string
	FilmType    string
}

// CameraDefaults resolves the attributes for a camera of the given model.
// Unknown models get capacity 8 and the generic camera icon.
func (c *Catalog) CameraDefaults(model string) CameraDefaults {
	m, ok := c.CameraModelByName(model)
	if !ok {
		return CameraDefaults{
			Capacity: constants.DefaultCameraCapacity,
			Image:    constants.DefaultCameraIcon,
			Icon:     constants.DefaultCameraIcon,
		}
	}
	return CameraDefaults{
		Capacity:    m.Capacity,
		Image:       m.DefaultImage,
		Icon:        m.DefaultIcon,
		Brand:       m.Brand,
		Year:        m.YearIntroduced,
		Description: m.Description,
		FilmType:    m.FilmType,
	}
}
