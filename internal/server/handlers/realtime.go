package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	ws "github.com/agentstation/instantbox/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /api/v1/events/ws.
// @Summary WebSocket updates
// @Description WebSocket connection for realtime inventory changes
// @Tags events
// @Param topics query string false "Comma separated topics: camera, pack, sync, catalog"
// @Success 101 "Switching Protocols"
// @Router /api/v1/events/ws [get].
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	topics := strings.Split(r.URL.Query().Get("topics"), ",")
	client := ws.NewClient(uuid.NewString(), h.wsHub, conn, topics...)
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	h.wsHub.Broadcast(ws.Message{
		Type:      "client.connected",
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"client_id": client.ID(),
			"message":   "Client connected to instantbox updates",
		},
	})
}

// HandleSSE handles Server-Sent Events at /api/v1/events/stream.
// @Summary SSE updates stream
// @Description Server-Sent Events stream of inventory changes
// @Tags events
// @Produce text/event-stream
// @Success 200 "Event stream"
// @Router /api/v1/events/stream [get].
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
