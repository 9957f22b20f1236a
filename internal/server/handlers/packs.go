package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/server/filter"
	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/ordering"
)

type packRequest struct {
	Type         string     `json:"type"`
	Model        string     `json:"model"`
	Color        *string    `json:"color"`
	Total        int        `json:"total"`
	Remaining    *int       `json:"remaining"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	ExpiryDate   *time.Time `json:"expiryDate"`
	Note         *string    `json:"note"`
}

func (p packRequest) input() instantbox.FilmPackInput {
	in := instantbox.FilmPackInput{
		Type:       p.Type,
		Model:      p.Model,
		Color:      p.Color,
		Total:      p.Total,
		Remaining:  p.Remaining,
		ExpiryDate: p.ExpiryDate,
		Note:       p.Note,
	}
	if p.PurchaseDate != nil {
		in.PurchaseDate = *p.PurchaseDate
	}
	return in
}

type packPatchRequest struct {
	Type         *string    `json:"type"`
	Model        *string    `json:"model"`
	Color        *string    `json:"color"`
	Total        *int       `json:"total"`
	Remaining    *int       `json:"remaining"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	ExpiryDate   *time.Time `json:"expiryDate"`
	ClearExpiry  bool       `json:"clearExpiry"`
	Note         *string    `json:"note"`
}

// HandleListPacks handles GET /api/v1/packs.
// @Summary List film packs
// @Description List film packs with optional filtering
// @Tags packs
// @Produce json
// @Param type query string false "Filter by film type"
// @Param model query string false "Filter by exact film model (case-insensitive)"
// @Param model_contains query string false "Filter by partial film model"
// @Param camera query string false "Filter by the camera the pack is loaded in"
// @Param loaded query boolean false "Filter by loaded state"
// @Param expired query boolean false "Filter by expired state"
// @Param expiring_soon query boolean false "Filter packs expiring within 30 days"
// @Param purchased_after query string false "RFC 3339 or YYYY-MM-DD"
// @Param purchased_before query string false "RFC 3339 or YYYY-MM-DD"
// @Param sort query string false "stable, name-asc, name-desc, purchase-asc, purchase-desc"
// @Param limit query integer false "Maximum number of results (default: 100, max: 1000)"
// @Param offset query integer false "Result offset for pagination"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/packs [get].
func (h *Handlers) HandleListPacks(w http.ResponseWriter, r *http.Request) {
	f := filter.ParsePackFilter(r)
	policy, err := ordering.ParsePolicy(f.Sort)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	filtered := f.Apply(h.box.FilmPacks(policy), h.now())
	page, total := filter.Page(filtered, f.Offset, f.Limit)

	response.OK(w, map[string]any{
		"packs": page,
		"pagination": map[string]any{
			"total":  total,
			"limit":  f.Limit,
			"offset": f.Offset,
			"count":  len(page),
		},
	})
}

// HandleGetPack handles GET /api/v1/packs/{id}.
// @Summary Get film pack
// @Tags packs
// @Produce json
// @Param id path string true "Film pack ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/packs/{id} [get].
func (h *Handlers) HandleGetPack(w http.ResponseWriter, r *http.Request) {
	pack, err := h.box.FilmPack(idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	now := h.now()
	data := map[string]any{
		"pack":          pack,
		"expired":       pack.IsExpired(now),
		"expiring_soon": pack.IsExpiringSoon(now),
		"usage_percent": pack.UsagePercent(),
	}
	if days, ok := pack.DaysUntilExpiry(now); ok {
		data["days_until_expiry"] = days
	}
	response.OK(w, data)
}

// HandleCreatePack handles POST /api/v1/packs.
// @Summary Add film pack
// @Description Creates a film pack. Total defaults to the catalog capacity of the type.
// @Tags packs
// @Accept json
// @Produce json
// @Success 201 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/packs [post].
func (h *Handlers) HandleCreatePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if !decode(w, r, &req) {
		return
	}
	pack, err := h.box.AddFilmPack(r.Context(), req.input())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, pack)
}

// HandleUpdatePack handles PATCH /api/v1/packs/{id}.
// @Summary Edit film pack
// @Tags packs
// @Accept json
// @Produce json
// @Param id path string true "Film pack ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/packs/{id} [patch].
func (h *Handlers) HandleUpdatePack(w http.ResponseWriter, r *http.Request) {
	var req packPatchRequest
	if !decode(w, r, &req) {
		return
	}
	pack, err := h.box.UpdateFilmPack(r.Context(), idParam(r), instantbox.FilmPackPatch(req))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, pack)
}

// HandleDeletePack handles DELETE /api/v1/packs/{id}.
// @Summary Delete film pack
// @Tags packs
// @Param id path string true "Film pack ID"
// @Success 204
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/packs/{id} [delete].
func (h *Handlers) HandleDeletePack(w http.ResponseWriter, r *http.Request) {
	if err := h.box.DeleteFilmPack(r.Context(), idParam(r)); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.NoContent(w)
}

// HandleDuplicatePack handles POST /api/v1/packs/{id}/duplicate.
// @Summary Add an identical pack
// @Description Copies type, model, total, dates and note into a fresh, full, unloaded pack.
// @Tags packs
// @Produce json
// @Param id path string true "Film pack ID"
// @Success 201 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/packs/{id}/duplicate [post].
func (h *Handlers) HandleDuplicatePack(w http.ResponseWriter, r *http.Request) {
	pack, err := h.box.DuplicateFilmPack(r.Context(), idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, pack)
}

// HandleCompatibleCameras handles GET /api/v1/packs/{id}/cameras.
// @Summary Cameras a pack fits
// @Tags packs
// @Produce json
// @Param id path string true "Film pack ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/packs/{id}/cameras [get].
func (h *Handlers) HandleCompatibleCameras(w http.ResponseWriter, r *http.Request) {
	cameras, err := h.box.CompatibleCameras(idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"cameras": cameras,
		"count":   len(cameras),
	})
}
