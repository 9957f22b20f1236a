// Package filter provides query parameter parsing and filtering for API endpoints.
package filter

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/instantbox/pkg/inventory"
)

// Pagination limits.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// PackFilter contains the filter criteria for film packs.
type PackFilter struct {
	// Basic filters
	Type          string
	Model         string
	ModelContains string
	Camera        string

	// State filters
	Loaded       *bool
	Expired      *bool
	ExpiringSoon *bool

	// Date filters
	PurchasedAfter  *time.Time
	PurchasedBefore *time.Time

	// Ordering and pagination
	Sort   string
	Limit  int
	Offset int
}

// ParsePackFilter extracts pack filter parameters from the request.
func ParsePackFilter(r *http.Request) PackFilter {
	q := r.URL.Query()

	f := PackFilter{
		Type:          q.Get("type"),
		Model:         q.Get("model"),
		ModelContains: q.Get("model_contains"),
		Camera:        q.Get("camera"),
		Loaded:        parseBool(q.Get("loaded")),
		Expired:       parseBool(q.Get("expired")),
		ExpiringSoon:  parseBool(q.Get("expiring_soon")),
		Sort:          q.Get("sort"),
		Limit:         parseIntOrDefault(q.Get("limit"), DefaultLimit),
		Offset:        parseIntOrDefault(q.Get("offset"), 0),
	}
	f.PurchasedAfter = parseDate(q.Get("purchased_after"))
	f.PurchasedBefore = parseDate(q.Get("purchased_before"))

	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Apply returns the packs matching the filter, in input order.
func (f PackFilter) Apply(packs []inventory.FilmPack, now time.Time) []inventory.FilmPack {
	results := make([]inventory.FilmPack, 0, len(packs))
	for _, p := range packs {
		if f.matches(p, now) {
			results = append(results, p)
		}
	}
	return results
}

func (f PackFilter) matches(p inventory.FilmPack, now time.Time) bool {
	return f.matchesBasicFilters(p) &&
		f.matchesStateFilters(p, now) &&
		f.matchesDateFilters(p)
}

func (f PackFilter) matchesBasicFilters(p inventory.FilmPack) bool {
	if f.Type != "" && !strings.EqualFold(p.Type, f.Type) {
		return false
	}
	if f.Model != "" && !strings.EqualFold(p.Model, f.Model) {
		return false
	}
	if f.ModelContains != "" && !strings.Contains(strings.ToLower(p.Model), strings.ToLower(f.ModelContains)) {
		return false
	}
	if f.Camera != "" && !p.LoadedIn(f.Camera) {
		return false
	}
	return true
}

func (f PackFilter) matchesStateFilters(p inventory.FilmPack, now time.Time) bool {
	if f.Loaded != nil && p.InUse() != *f.Loaded {
		return false
	}
	if f.Expired != nil && p.IsExpired(now) != *f.Expired {
		return false
	}
	if f.ExpiringSoon != nil && p.IsExpiringSoon(now) != *f.ExpiringSoon {
		return false
	}
	return true
}

func (f PackFilter) matchesDateFilters(p inventory.FilmPack) bool {
	if f.PurchasedAfter != nil && p.PurchaseDate.Before(*f.PurchasedAfter) {
		return false
	}
	if f.PurchasedBefore != nil && p.PurchaseDate.After(*f.PurchasedBefore) {
		return false
	}
	return true
}

// Page returns the window of items selected by offset and limit along with
// the total before paging.
func Page[T any](items []T, offset, limit int) ([]T, int) {
	total := len(items)
	if offset >= total {
		return []T{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], total
}

// parseBool returns nil for empty or malformed values.
func parseBool(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseIntOrDefault parses an integer or returns default.
func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return def
}
