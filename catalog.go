package instantbox

import (
	"context"

	"github.com/agentstation/instantbox/pkg/catalog"
	"github.com/agentstation/instantbox/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Catalogs = (*client)(nil)

// Catalogs provides the reference catalog.
type Catalogs interface {
	// Catalog returns the current reference catalog
	Catalog() *catalog.Catalog

	// CatalogOrigin tells where the current catalog came from
	CatalogOrigin() catalog.Origin

	// RefreshCatalog downloads the catalog regardless of the cache. On
	// failure the fallback catalog is installed and the error returned.
	RefreshCatalog(ctx context.Context) (catalog.Origin, error)
}

type catalogState struct {
	catalog *catalog.Catalog
	origin  catalog.Origin
}

// Catalog returns the current reference catalog.
func (c *client) Catalog() *catalog.Catalog {
	return c.catalog.Load().catalog
}

// CatalogOrigin tells where the current catalog came from.
func (c *client) CatalogOrigin() catalog.Origin {
	return c.catalog.Load().origin
}

// RefreshCatalog downloads the catalog and installs it.
func (c *client) RefreshCatalog(ctx context.Context) (catalog.Origin, error) {
	cat, origin, err := c.loader.Refresh(ctx)
	if cat != nil {
		c.setCatalog(cat, origin)
	}
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("origin", string(origin)).Msg("Catalog refresh failed")
		return origin, err
	}
	logging.FromContext(ctx).Info().
		Int("camera_models", len(cat.CameraModels())).
		Int("film_types", len(cat.FilmPackTypes())).
		Msg("Catalog refreshed")
	return origin, nil
}

func (c *client) setCatalog(cat *catalog.Catalog, origin catalog.Origin) {
	c.catalog.Store(&catalogState{catalog: cat, origin: origin})
}
