package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/instantbox/internal/server/cache"
	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// HandleListGroups handles GET /api/v1/groups.
// @Summary Typology groups
// @Description Film packs grouped by type and model with counts
// @Tags groups
// @Produce json
// @Param sort query string false "stable, name-asc, name-desc, purchase-asc, purchase-desc"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/groups [get].
func (h *Handlers) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	policy, err := ordering.ParsePolicy(r.URL.Query().Get("sort"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	data, _ := h.cache.Fetch(cache.KeyGroups+string(policy), func() (any, error) {
		groups := h.box.Groups(policy)
		return map[string]any{
			"groups": groups,
			"count":  len(groups),
			"sort":   policy,
		}, nil
	})
	response.OK(w, data)
}

// HandleGetGroup handles GET /api/v1/groups/{key}.
// @Summary Typology group detail
// @Description One group and its packs, loaded first, then by expiry
// @Tags groups
// @Produce json
// @Param key path string true "Group key (type_model)"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/groups/{key} [get].
func (h *Handlers) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		response.BadRequest(w, "Invalid group key", err.Error())
		return
	}
	group, packs, ok := h.box.Group(key)
	if !ok {
		notFound(w, "Group", key)
		return
	}
	response.OK(w, map[string]any{
		"group": group,
		"packs": packs,
	})
}
