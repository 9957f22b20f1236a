// Package handlers provides HTTP request handlers for the instantbox API.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/server/cache"
	"github.com/agentstation/instantbox/internal/server/events"
	"github.com/agentstation/instantbox/internal/server/metrics"
	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/internal/server/sse"
	ws "github.com/agentstation/instantbox/internal/server/websocket"
)

// maxBodyBytes bounds request bodies; custom camera photos are the largest.
const maxBodyBytes = 8 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	box            instantbox.Client
	cache          *cache.Cache
	broker         *events.Broker
	metrics        *metrics.Metrics
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	startTime      time.Time
	now            func() time.Time
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Box            instantbox.Client
	Cache          *cache.Cache
	Broker         *events.Broker
	Metrics        *metrics.Metrics
	WSHub          *ws.Hub
	SSEBroadcaster *sse.Broadcaster
	Upgrader       websocket.Upgrader
	Logger         *zerolog.Logger
	StartTime      time.Time
}

// New creates a new Handlers instance.
func New(d Deps) *Handlers {
	return &Handlers{
		box:            d.Box,
		cache:          d.Cache,
		broker:         d.Broker,
		metrics:        d.Metrics,
		wsHub:          d.WSHub,
		sseBroadcaster: d.SSEBroadcaster,
		upgrader:       d.Upgrader,
		logger:         d.Logger,
		startTime:      d.StartTime,
		now:            time.Now,
	}
}

// decode reads a JSON body into v. It writes a 400 response and returns
// false when the body is malformed.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			response.BadRequest(w, "Request body is required", "")
			return false
		}
		response.BadRequest(w, "Invalid request body", err.Error())
		return false
	}
	return true
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	return decode(w, r, v)
}

func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func notFound(w http.ResponseWriter, resource, id string) {
	response.NotFound(w, fmt.Sprintf("%s not found", resource), id)
}
