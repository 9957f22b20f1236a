package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/instantbox/internal/embedded"
	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/ports"
)

// Persisted bucket names used by the loader cache.
const (
	BucketCameraModels   = "catalog.cameraModels"
	BucketFilmPackModels = "catalog.filmPackModels"
	BucketExpiry         = "catalog.expiry"
)

// Origin tells where a loaded catalog came from.
type Origin string

// Catalog origins, from most to least preferred.
const (
	OriginRemote     Origin = "remote"
	OriginCache      Origin = "cache"
	OriginStaleCache Origin = "stale-cache"
	OriginEmbedded   Origin = "embedded"
)

// Loader resolves the reference catalog from a Source, a persisted cache and
// the embedded defaults.
type Loader struct {
	source Source
	cache  ports.Persistence
	ttl    time.Duration
	now    func() time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache persists downloaded documents and their expiry.
func WithCache(p ports.Persistence) LoaderOption {
	return func(l *Loader) { l.cache = p }
}

// WithTTL sets how long a downloaded catalog is trusted.
func WithTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a loader. A nil source skips the network entirely.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		ttl:    constants.CatalogCacheTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the best available catalog. A valid cache is used without
// touching the network. Load only fails when the embedded defaults are broken.
func (l *Loader) Load(ctx context.Context) (*Catalog, Origin, error) {
	if cat, ok := l.fromCache(ctx, false); ok {
		return cat, OriginCache, nil
	}
	return l.refresh(ctx)
}

// Refresh downloads the catalog regardless of the cache. When the download
// fails the fallback catalog is returned together with the download error.
func (l *Loader) Refresh(ctx context.Context) (*Catalog, Origin, error) {
	cat, err := l.fetch(ctx)
	if err == nil {
		return cat, OriginRemote, nil
	}
	fallback, origin, ferr := l.fallback(ctx)
	if ferr != nil {
		return nil, "", ferr
	}
	return fallback, origin, err
}

func (l *Loader) refresh(ctx context.Context) (*Catalog, Origin, error) {
	cat, err := l.fetch(ctx)
	if err == nil {
		return cat, OriginRemote, nil
	}
	logging.FromContext(ctx).Warn().Err(err).Msg("Catalog download failed, using fallback")
	return l.fallback(ctx)
}

func (l *Loader) fallback(ctx context.Context) (*Catalog, Origin, error) {
	if cat, ok := l.fromCache(ctx, true); ok {
		return cat, OriginStaleCache, nil
	}
	cat, err := Default()
	if err != nil {
		return nil, "", err
	}
	return cat, OriginEmbedded, nil
}

func (l *Loader) fetch(ctx context.Context) (*Catalog, error) {
	if l.source == nil {
		return nil, errors.NewConfigError("catalog", "no catalog source configured", nil)
	}

	cameraData, err := l.source.Fetch(ctx, constants.CameraModelsDocument)
	if err != nil {
		return nil, err
	}
	filmData, err := l.source.Fetch(ctx, constants.FilmPackModelsDocument)
	if err != nil {
		return nil, err
	}

	cameras, err := ParseCameraModels(cameraData)
	if err != nil {
		return nil, err
	}
	films, err := ParseFilmPackModels(filmData)
	if err != nil {
		return nil, err
	}

	l.save(ctx, cameraData, filmData)
	return New(cameras, films), nil
}

func (l *Loader) save(ctx context.Context, cameraData, filmData []byte) {
	if l.cache == nil {
		return
	}
	expiry := l.now().Add(l.ttl).UTC().Format(time.RFC3339)
	for bucket, data := range map[string][]byte{
		BucketCameraModels:   cameraData,
		BucketFilmPackModels: filmData,
		BucketExpiry:         []byte(expiry),
	} {
		if err := l.cache.Save(ctx, bucket, data); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("bucket", bucket).Msg("Failed to cache catalog")
		}
	}
}

func (l *Loader) fromCache(ctx context.Context, allowStale bool) (*Catalog, bool) {
	if l.cache == nil {
		return nil, false
	}

	if !allowStale {
		raw, err := l.cache.Load(ctx, BucketExpiry)
		if err != nil || raw == nil {
			return nil, false
		}
		expiry, err := time.Parse(time.RFC3339, string(raw))
		if err != nil || !l.now().Before(expiry) {
			return nil, false
		}
	}

	cameraData, err := l.cache.Load(ctx, BucketCameraModels)
	if err != nil || cameraData == nil {
		return nil, false
	}
	filmData, err := l.cache.Load(ctx, BucketFilmPackModels)
	if err != nil || filmData == nil {
		return nil, false
	}

	cameras, err := ParseCameraModels(cameraData)
	if err != nil {
		return nil, false
	}
	films, err := ParseFilmPackModels(filmData)
	if err != nil {
		return nil, false
	}
	return New(cameras, films), true
}

// ParseCameraModels decodes a published camera models document.
func ParseCameraModels(data []byte) (CameraModelsDocument, error) {
	var doc CameraModelsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.NewParseError("json", constants.CameraModelsDocument, "invalid camera models document", err)
	}
	return doc, nil
}

// ParseFilmPackModels decodes a published film pack models document.
func ParseFilmPackModels(data []byte) (FilmPackModelsDocument, error) {
	var doc FilmPackModelsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.NewParseError("json", constants.FilmPackModelsDocument, "invalid film pack models document", err)
	}
	return doc, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog built into the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		var cameras CameraModelsDocument
		var films FilmPackModelsDocument

		data, err := embedded.FS.ReadFile(embedded.CameraModelsPath)
		if err != nil {
			defaultErr = errors.WrapIO("read", embedded.CameraModelsPath, err)
			return
		}
		if err := yaml.Unmarshal(data, &cameras); err != nil {
			defaultErr = errors.WrapParse("yaml", embedded.CameraModelsPath, err)
			return
		}

		data, err = embedded.FS.ReadFile(embedded.FilmPackModelsPath)
		if err != nil {
			defaultErr = errors.WrapIO("read", embedded.FilmPackModelsPath, err)
			return
		}
		if err := yaml.Unmarshal(data, &films); err != nil {
			defaultErr = errors.WrapParse("yaml", embedded.FilmPackModelsPath, err)
			return
		}

		defaultCat = New(cameras, films)
	})
	return defaultCat, defaultErr
}

// MustDefault is like Default but panics on error.
func MustDefault() *Catalog {
	cat, err := Default()
	if err != nil {
		panic(err)
	}
	return cat
}
