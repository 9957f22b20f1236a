// Package compat decides which film types a camera accepts.
package compat

import (
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/inventory"
)

// aliases maps lowercase spellings onto canonical film type codes.
var aliases = map[string]string{
	"600":     "600",
	"i-type":  "i-Type",
	"itype":   "i-Type",
	"i type":  "i-Type",
	"sx-70":   "SX-70",
	"sx70":    "SX-70",
	"sx 70":   "SX-70",
	"go":      "Go",
	"spectra": "Spectra",
	"8x10":    "8x10",
	"4x5":     "4x5",
}

// fallback lists compatible camera model names per film type, for cameras
// without a film type of their own.
var fallback = map[string][]string{
	"600":     {"Polaroid 600", "Polaroid i-Type", "Polaroid I-2"},
	"i-Type":  {"Polaroid i-Type", "Polaroid 600", "Polaroid Now", "Polaroid OneStep+", "Polaroid OneStep 2", "Polaroid I-2"},
	"SX-70":   {"Polaroid SX-70", "Polaroid I-2"},
	"Go":      {"Polaroid Go"},
	"Spectra": {"Polaroid Spectra"},
	"8x10":    {"Polaroid 8x10"},
	"4x5":     {"Polaroid 4x5"},
}

// NormalizeFilmType returns the canonical code for a film type name. Unknown
// names are returned trimmed but otherwise unchanged.
func NormalizeFilmType(filmType string) string {
	trimmed := strings.TrimSpace(filmType)
	if canonical, ok := aliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// FallbackModels returns the camera models known to accept a film type
// when the camera carries no film type.
func FallbackModels(filmType string) []string {
	return slices.Clone(fallback[NormalizeFilmType(filmType)])
}

// Resolver answers compatibility questions with a short-lived memo.
//
// Resolver implements inventory.Observer: subscribe it to the store so the
// memo is flushed whenever cameras or film packs change.
type Resolver struct {
	cache  *cache.Cache
	ignore atomic.Bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	ttl time.Duration
}

// WithTTL sets how long an answer stays memoized.
func WithTTL(ttl time.Duration) ResolverOption {
	return func(c *resolverConfig) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewResolver creates a resolver with its own cache.
func NewResolver(opts ...ResolverOption) *Resolver {
	cfg := resolverConfig{ttl: constants.CompatibilityCacheTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Resolver{
		cache: cache.New(cfg.ttl, constants.CompatibilityCacheCleanup),
	}
}

// SetIgnoreCompatibility turns the "accept any film" override on or off.
func (r *Resolver) SetIgnoreCompatibility(ignore bool) {
	if r.ignore.Swap(ignore) != ignore {
		r.cache.Flush()
	}
}

// IgnoreCompatibility reports whether the override is on.
func (r *Resolver) IgnoreCompatibility() bool {
	return r.ignore.Load()
}

// IsCompatible reports whether camera accepts film of the given type.
func (r *Resolver) IsCompatible(filmType string, camera inventory.Camera) bool {
	if r.ignore.Load() {
		return true
	}

	key := filmType + "\x00" + camera.ID
	if v, ok := r.cache.Get(key); ok {
		return v.(bool)
	}

	result := resolve(filmType, camera)
	r.cache.SetDefault(key, result)
	return result
}

// CompatibleCameras filters cameras down to those accepting the film type.
func (r *Resolver) CompatibleCameras(filmType string, cameras []inventory.Camera) []inventory.Camera {
	var out []inventory.Camera
	for _, c := range cameras {
		if r.IsCompatible(filmType, c) {
			out = append(out, c)
		}
	}
	return out
}

// Flush drops every memoized answer.
func (r *Resolver) Flush() {
	r.cache.Flush()
}

// CollectionChanged implements inventory.Observer.
func (r *Resolver) CollectionChanged(inventory.Event) {
	r.cache.Flush()
}

func resolve(filmType string, camera inventory.Camera) bool {
	want := NormalizeFilmType(filmType)

	if camera.FilmType != nil && strings.TrimSpace(*camera.FilmType) != "" {
		for _, code := range strings.Split(*camera.FilmType, "/") {
			if NormalizeFilmType(code) == want {
				return true
			}
		}
		return false
	}

	return slices.Contains(fallback[want], camera.Model)
}
