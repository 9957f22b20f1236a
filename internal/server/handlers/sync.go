package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/instantbox/internal/server/events"
	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/merge"
	pkgsync "github.com/agentstation/instantbox/pkg/sync"
)

type syncRequest struct {
	DryRun      bool     `json:"dry_run"`
	Collections []string `json:"collections"`
	Strategy    string   `json:"strategy"`
	Timeout     string   `json:"timeout"`
}

// HandleSync handles POST /api/v1/sync.
// @Summary Sync with the replica
// @Description Runs one merge pass per collection, cameras first
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Security BearerAuth
// @Router /api/v1/sync [post].
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	opts := []pkgsync.Option{pkgsync.WithDryRun(req.DryRun)}
	if len(req.Collections) > 0 {
		opts = append(opts, pkgsync.WithCollections(req.Collections...))
	}
	if req.Strategy != "" {
		strategy, err := merge.ParseStrategyType(req.Strategy)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		opts = append(opts, pkgsync.WithStrategy(strategy))
	}
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil {
			response.BadRequest(w, "Invalid timeout", err.Error())
			return
		}
		opts = append(opts, pkgsync.WithTimeout(d))
	}

	result, err := h.box.Sync(r.Context(), opts...)
	if err != nil {
		h.metrics.Sync("error")
		response.ErrorFromType(w, err)
		return
	}

	collections := make([]map[string]any, 0, len(result.Collections))
	for _, c := range result.Collections {
		collections = append(collections, map[string]any{
			"collection": c.Collection,
			"remote":     c.Remote,
			"replaced":   c.Replaced,
			"added":      c.Added,
			"kept":       c.Kept,
			"changed":    c.Changed,
			"pushed":     c.Pushed,
		})
	}

	outcome := "unchanged"
	if result.HasChanges() {
		outcome = "changed"
	}
	if result.DryRun {
		outcome = "dry_run"
	}
	h.metrics.Sync(outcome)

	if !result.DryRun {
		h.broker.Publish(events.SyncCompleted, map[string]any{
			"changes": result.HasChanges(),
			"summary": result.Summary(),
		})
	}

	response.OK(w, map[string]any{
		"summary":     result.Summary(),
		"dry_run":     result.DryRun,
		"changes":     result.HasChanges(),
		"collections": collections,
	})
}
