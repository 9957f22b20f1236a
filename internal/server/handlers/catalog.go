package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/instantbox/internal/server/cache"
	"github.com/agentstation/instantbox/internal/server/events"
	"github.com/agentstation/instantbox/internal/server/response"
)

// HandleGetCatalog handles GET /api/v1/catalog.
// @Summary Reference catalog
// @Description Camera models, film types and film models with the catalog origin
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/catalog [get].
func (h *Handlers) HandleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	data, _ := h.cache.Fetch(cache.KeyCatalog+"all", func() (any, error) {
		cat := h.box.Catalog()
		return map[string]any{
			"origin":        h.box.CatalogOrigin(),
			"camera_models": cat.CameraModels(),
			"film_types":    cat.FilmPackTypes(),
			"film_models":   cat.FilmPackModels(),
		}, nil
	})
	response.OK(w, data)
}

// HandleFilmTypeModels handles GET /api/v1/catalog/types/{type}/models.
// @Summary Film models for a type
// @Tags catalog
// @Produce json
// @Param type path string true "Film type"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/catalog/types/{type}/models [get].
func (h *Handlers) HandleFilmTypeModels(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "type")
	cat := h.box.Catalog()
	ft, ok := cat.FilmPackType(name)
	if !ok {
		notFound(w, "Film type", name)
		return
	}
	response.OK(w, map[string]any{
		"type":             ft,
		"default_capacity": cat.DefaultCapacity(ft.Name),
		"models":           cat.ModelsForType(ft.Name),
	})
}

// HandleRefreshCatalog handles POST /api/v1/catalog/refresh.
// @Summary Refresh catalog
// @Description Downloads the catalog regardless of the cache. On failure the fallback catalog is installed.
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 502 {object} response.Response{error=response.Error}
// @Security BearerAuth
// @Router /api/v1/catalog/refresh [post].
func (h *Handlers) HandleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	origin, err := h.box.RefreshCatalog(r.Context())
	h.cache.Delete(cache.KeyCatalog)

	if err != nil {
		response.BadGateway(w, "CATALOG_REFRESH_FAILED", "Catalog download failed; fallback installed", err.Error())
		return
	}

	cat := h.box.Catalog()
	h.broker.Publish(events.CatalogRefreshed, map[string]any{
		"origin":        origin,
		"camera_models": len(cat.CameraModels()),
		"film_types":    len(cat.FilmPackTypes()),
	})
	response.OK(w, map[string]any{
		"origin":        origin,
		"camera_models": len(cat.CameraModels()),
		"film_types":    len(cat.FilmPackTypes()),
		"film_models":   len(cat.FilmPackModels()),
	})
}
