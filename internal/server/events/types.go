// Package events fans inventory changes out to the realtime transports.
//
// Client hooks publish into a Broker; the broker hands every event to each
// subscriber (WebSocket hub, SSE broadcaster) so the transports share one
// pipeline.
package events

import "time"

// EventType represents the type of inventory event.
type EventType string

// Event types for inventory changes.
const (
	CameraAdded   EventType = "camera.added"
	CameraUpdated EventType = "camera.updated"
	CameraRemoved EventType = "camera.removed"

	FilmPackAdded   EventType = "pack.added"
	FilmPackUpdated EventType = "pack.updated"
	FilmPackRemoved EventType = "pack.removed"

	SyncCompleted    EventType = "sync.completed"
	CatalogRefreshed EventType = "catalog.refreshed"

	ClientConnected EventType = "client.connected"
)

// Event represents an inventory event with type, timestamp, and data.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
