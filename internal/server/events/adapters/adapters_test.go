package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox/internal/server/events"
	"github.com/agentstation/instantbox/internal/server/sse"
	ws "github.com/agentstation/instantbox/internal/server/websocket"
)

// Compile-time interface checks.
var (
	_ events.Subscriber = (*SSESubscriber)(nil)
	_ events.Subscriber = (*WebSocketSubscriber)(nil)
)

// TestSSESubscriber_Send tests that events pass through without error.
func TestSSESubscriber_Send(t *testing.T) {
	logger := zerolog.Nop()
	sub := NewSSESubscriber(sse.NewBroadcaster(&logger))

	testEvents := []events.Event{
		{ID: "1", Type: events.CameraAdded, Timestamp: time.Now(), Data: map[string]any{"model": "600"}},
		{ID: "2", Type: events.FilmPackUpdated, Timestamp: time.Now(), Data: map[string]any{"remaining": 4}},
		{ID: "3", Type: events.SyncCompleted, Timestamp: time.Now(), Data: nil},
	}
	for i, event := range testEvents {
		if err := sub.Send(event); err != nil {
			t.Errorf("event %d: Send() returned error: %v", i, err)
		}
	}
	if err := sub.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

// TestBroker_FansOutAlongsideWebSocket tests that subscribers sharing the
// broker with the hub adapter see the assigned id and type.
func TestBroker_FansOutAlongsideWebSocket(t *testing.T) {
	logger := zerolog.Nop()
	hub := ws.NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	broker := events.NewBroker(&logger)
	go broker.Run(ctx)
	broker.Subscribe(NewWebSocketSubscriber(hub))

	received := make(chan ws.Message, 1)
	broker.Subscribe(subscriberFunc(func(e events.Event) {
		received <- ws.Message{ID: e.ID, Type: string(e.Type)}
	}))

	broker.Publish(events.CameraRemoved, map[string]any{"id": "cam"})

	select {
	case msg := <-received:
		if msg.Type != string(events.CameraRemoved) {
			t.Errorf("expected %s, got %s", events.CameraRemoved, msg.Type)
		}
		if msg.ID == "" {
			t.Error("expected broker to assign an event id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

type subscriberFunc func(events.Event)

func (f subscriberFunc) Send(e events.Event) error { f(e); return nil }
func (f subscriberFunc) Close() error              { return nil }
