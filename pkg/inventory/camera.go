package inventory

import (
	"math/rand/v2"
	"slices"
	"time"
)

// IconColors are the colors a camera icon is picked from when none is given.
var IconColors = []string{"red", "blue", "green", "purple", "orange", "teal"}

// RandomIconColor returns one of IconColors.
func RandomIconColor() string {
	return IconColors[rand.IntN(len(IconColors))]
}

// Camera is an instant camera owned by the user.
//
// Capacity, Image, Icon, Brand, Year, Description and FilmType are derived
// from the reference catalog when the camera is created (or its model is
// changed) and are not refreshed when the catalog changes later.
type Camera struct {
	ID          string    `json:"id" yaml:"id"`
	Nickname    string    `json:"nickname" yaml:"nickname"`
	Model       string    `json:"model" yaml:"model"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Capacity    int       `json:"capacity" yaml:"capacity"`
	Image       string    `json:"image" yaml:"image"`
	Icon        string    `json:"icon" yaml:"icon"`
	IconColor   string    `json:"iconColor" yaml:"icon_color"`
	CustomPhoto []byte    `json:"customPhoto,omitempty" yaml:"-"`
	Brand       string    `json:"brand,omitempty" yaml:"brand,omitempty"`
	Year        int       `json:"year,omitempty" yaml:"year,omitempty"`
	FilmType    *string   `json:"filmType,omitempty" yaml:"film_type,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Key returns the camera id.
func (c Camera) Key() string { return c.ID }

// Modified returns the last time the camera changed.
func (c Camera) Modified() time.Time { return c.UpdatedAt }

// DisplayName returns the nickname, or the model when no nickname is set.
func (c Camera) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Model
}

// Clone returns a deep copy of the camera.
func (c Camera) Clone() Camera {
	out := c
	out.Description = clonePtr(c.Description)
	out.FilmType = clonePtr(c.FilmType)
	out.CustomPhoto = slices.Clone(c.CustomPhoto)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
