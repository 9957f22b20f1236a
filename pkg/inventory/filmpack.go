package inventory

import (
	"math"
	"time"

	"github.com/agentstation/instantbox/pkg/constants"
)

// FilmPack is a pack of instant film.
//
// A pack with a non-nil AssociatedCamera is loaded in that camera and cannot
// be loaded anywhere else. A pack with Remaining == 0 is finished.
type FilmPack struct {
	ID               string     `json:"id" yaml:"id"`
	Type             string     `json:"type" yaml:"type"`
	Model            string     `json:"model" yaml:"model"`
	Color            *string    `json:"color,omitempty" yaml:"color,omitempty"`
	Total            int        `json:"total" yaml:"total"`
	Remaining        int        `json:"remaining" yaml:"remaining"`
	PurchaseDate     time.Time  `json:"purchaseDate" yaml:"purchase_date"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty" yaml:"expiry_date,omitempty"`
	AssociatedCamera *string    `json:"associatedCamera,omitempty" yaml:"associated_camera,omitempty"`
	Note             *string    `json:"note,omitempty" yaml:"note,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// Key returns the pack id.
func (p FilmPack) Key() string { return p.ID }

// Modified returns the last time the pack changed.
func (p FilmPack) Modified() time.Time { return p.UpdatedAt }

// Clone returns a deep copy of the pack.
func (p FilmPack) Clone() FilmPack {
	out := p
	out.Color = clonePtr(p.Color)
	out.ExpiryDate = clonePtr(p.ExpiryDate)
	out.AssociatedCamera = clonePtr(p.AssociatedCamera)
	out.Note = clonePtr(p.Note)
	return out
}

// GroupKey identifies the typology group of the pack.
func (p FilmPack) GroupKey() string {
	return GroupKey(p.Type, p.Model)
}

// GroupKey builds a typology group key from a film type and model.
func GroupKey(filmType, model string) string {
	return filmType + "_" + model
}

// IsFinished reports whether every exposure has been used.
func (p FilmPack) IsFinished() bool {
	return p.Remaining == 0
}

// InUse reports whether the pack is loaded in a camera.
func (p FilmPack) InUse() bool {
	return p.AssociatedCamera != nil
}

// LoadedIn reports whether the pack is loaded in the given camera.
func (p FilmPack) LoadedIn(cameraID string) bool {
	return p.AssociatedCamera != nil && *p.AssociatedCamera == cameraID
}

// DaysUntilExpiry returns the whole calendar days between now and the expiry
// date. The second value is false when the pack has no expiry date.
func (p FilmPack) DaysUntilExpiry(now time.Time) (int, bool) {
	if p.ExpiryDate == nil {
		return 0, false
	}
	from := StartOfDay(now)
	to := StartOfDay(p.ExpiryDate.In(now.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24)), true
}

// IsExpired reports whether the expiry day is before today.
func (p FilmPack) IsExpired(now time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	return StartOfDay(now).After(StartOfDay(p.ExpiryDate.In(now.Location())))
}

// IsExpiringSoon reports whether the pack expires within the next 30 days, today included.
func (p FilmPack) IsExpiringSoon(now time.Time) bool {
	days, ok := p.DaysUntilExpiry(now)
	return ok && days >= 0 && days <= constants.ExpiringSoonDays
}

// ExpiresToday reports whether the expiry day is today.
func (p FilmPack) ExpiresToday(now time.Time) bool {
	days, ok := p.DaysUntilExpiry(now)
	return ok && days == 0
}

// UsagePercent returns the share of exposures already taken, from 0 to 100.
func (p FilmPack) UsagePercent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Total-p.Remaining) / float64(p.Total) * 100
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DefaultExpiry suggests an expiry date for a pack bought on purchase.
func DefaultExpiry(purchase time.Time) time.Time {
	return purchase.AddDate(constants.DefaultExpiryYears, 0, 0)
}
