package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockSubscriber is a mock subscriber for testing.
type mockSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (m *mockSubscriber) Send(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSubscriber) snapshot() ([]Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...), m.closed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestBroker_FanOut tests that every subscriber receives events in order.
func TestBroker_FanOut(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)

	a, c := &mockSubscriber{}, &mockSubscriber{}
	b.Subscribe(a)
	b.Subscribe(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	var observed []EventType
	var obsMu sync.Mutex
	b.OnPublish(func(et EventType) {
		obsMu.Lock()
		observed = append(observed, et)
		obsMu.Unlock()
	})

	b.Publish(CameraAdded, map[string]any{"id": "c1"})
	b.Publish(FilmPackRemoved, map[string]any{"id": "p1"})

	for _, sub := range []*mockSubscriber{a, c} {
		waitFor(t, func() bool { evs, _ := sub.snapshot(); return len(evs) == 2 })
		evs, _ := sub.snapshot()
		if evs[0].Type != CameraAdded || evs[1].Type != FilmPackRemoved {
			t.Errorf("unexpected event order: %v, %v", evs[0].Type, evs[1].Type)
		}
		if evs[0].ID == "" || evs[0].ID == evs[1].ID {
			t.Error("expected distinct event ids")
		}
	}

	if b.EventsPublished() != 2 {
		t.Errorf("expected 2 published, got %d", b.EventsPublished())
	}
	obsMu.Lock()
	if len(observed) != 2 {
		t.Errorf("expected observer to see 2 events, got %d", len(observed))
	}
	obsMu.Unlock()
}

// TestBroker_Unsubscribe tests removal of subscribers.
func TestBroker_Unsubscribe(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)

	sub := &mockSubscriber{}
	b.Subscribe(sub)
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(sub)
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
	if _, closed := sub.snapshot(); !closed {
		t.Error("expected unsubscribed subscriber to be closed")
	}
}

// TestBroker_DropsWhenFull tests that Publish never blocks.
func TestBroker_DropsWhenFull(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)

	for range queueSize + 5 {
		b.Publish(CameraUpdated, nil)
	}
	if b.EventsDropped() != 5 {
		t.Errorf("expected 5 dropped, got %d", b.EventsDropped())
	}
	if b.QueueDepth() != queueSize {
		t.Errorf("expected queue depth %d, got %d", queueSize, b.QueueDepth())
	}
}

// TestBroker_ShutdownClosesSubscribers tests graceful shutdown.
func TestBroker_ShutdownClosesSubscribers(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroker(&logger)
	sub := &mockSubscriber{}
	b.Subscribe(sub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if _, closed := sub.snapshot(); !closed {
		t.Error("expected subscriber to be closed on shutdown")
	}
}
