package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// HandleStats handles GET /api/v1/stats.
// @Summary Inventory statistics
// @Description Inventory, realtime, cache and runtime statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Security BearerAuth
// @Router /api/v1/stats [get].
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	cameras := h.box.Cameras(ordering.CameraDateAdded)
	packs := h.box.FilmPacks(ordering.PolicyStable)

	var loaded, expired, expiringSoon, shots int
	for _, p := range packs {
		shots += p.Remaining
		if p.InUse() {
			loaded++
		}
		if p.IsExpired(now) {
			expired++
		} else if p.IsExpiringSoon(now) {
			expiringSoon++
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response.OK(w, map[string]any{
		"inventory": map[string]any{
			"cameras":         len(cameras),
			"packs":           len(packs),
			"packs_loaded":    loaded,
			"packs_expired":   expired,
			"packs_expiring":  expiringSoon,
			"shots_remaining": shots,
			"groups":          len(h.box.Groups(ordering.PolicyStable)),
		},
		"sync": map[string]any{
			"enabled":   h.box.SyncEnabled(),
			"device_id": h.box.DeviceID(),
		},
		"catalog": map[string]any{
			"origin": h.box.CatalogOrigin(),
		},
		"runtime": map[string]any{
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory_mb":      memStats.Alloc / 1024 / 1024,
			"memory_sys_mb":  memStats.Sys / 1024 / 1024,
		},
		"events": map[string]any{
			"published_total": h.broker.EventsPublished(),
			"dropped_total":   h.broker.EventsDropped(),
			"queue_depth":     h.broker.QueueDepth(),
		},
		"realtime": map[string]any{
			"websocket_clients": h.wsHub.ClientCount(),
			"sse_clients":       h.sseBroadcaster.ClientCount(),
		},
		"cache": h.cache.GetStats(),
	})
}
