// Package sse provides Server-Sent Events support for realtime inventory updates.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	clientBuffer   = 64
	keepAlivePulse = 30 * time.Second
)

// Broadcaster manages Server-Sent Events connections.
type Broadcaster struct {
	clients  map[chan Event]bool
	events   chan Event
	mu       sync.RWMutex
	logger   *zerolog.Logger
	onChange func(clients int)
	done     chan struct{}
}

// NewBroadcaster creates a new SSE broadcaster.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan Event]bool),
		events:  make(chan Event, 256),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// OnClientsChanged registers a callback run with the client count after
// every connect and disconnect. It must be set before Run.
func (b *Broadcaster) OnClientsChanged(fn func(clients int)) {
	b.onChange = fn
}

// Run fans broadcast events out to clients until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for client := range b.clients {
				close(client)
			}
			b.clients = make(map[chan Event]bool)
			close(b.done)
			b.mu.Unlock()
			b.logger.Info().Msg("SSE broadcaster shut down")
			return

		case event := <-b.events:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client <- event:
				default:
					b.logger.Warn().Str("event", event.Event).Msg("SSE client buffer full, event skipped")
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to all connected SSE clients. Events without an
// ID get a fresh one.
func (b *Broadcaster) Broadcast(event Event) {
	if event.ID == "" {
		if id, err := uuid.NewV7(); err == nil {
			event.ID = id.String()
		}
	}
	select {
	case b.events <- event:
	default:
		b.logger.Warn().Msg("SSE broadcast channel full, event dropped")
	}
}

// ClientCount returns the number of connected SSE clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) add() (chan Event, bool) {
	b.mu.Lock()
	select {
	case <-b.done:
		b.mu.Unlock()
		return nil, false
	default:
	}
	client := make(chan Event, clientBuffer)
	b.clients[client] = true
	n := len(b.clients)
	b.mu.Unlock()

	b.logger.Info().Int("total_clients", n).Msg("SSE client connected")
	b.changed(n)
	return client, true
}

func (b *Broadcaster) remove(client chan Event) {
	b.mu.Lock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
	}
	n := len(b.clients)
	b.mu.Unlock()

	b.logger.Info().Int("total_clients", n).Msg("SSE client disconnected")
	b.changed(n)
}

func (b *Broadcaster) changed(n int) {
	if b.onChange != nil {
		b.onChange(n)
	}
}

// ServeHTTP streams events to the client until the request ends or the
// broadcaster shuts down.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, ok := b.add()
	if !ok {
		http.Error(w, "Event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer b.remove(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	b.writeEvent(w, flusher, Event{
		Event: "client.connected",
		Data: map[string]any{
			"message":   "Connected to instantbox updates stream",
			"timestamp": time.Now().UTC(),
		},
	})

	pulse := time.NewTicker(keepAlivePulse)
	defer pulse.Stop()

	for {
		select {
		case event, ok := <-client:
			if !ok {
				return
			}
			b.writeEvent(w, flusher, event)

		case <-pulse.C:
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func (b *Broadcaster) writeEvent(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to marshal SSE event data")
		return
	}
	if event.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// Event represents an SSE event.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}
