package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	assert.Equal(t,
		"It's been 15 minutes since you took a photo with Blue 600. Time to develop your Polaroid!",
		Message("Blue 600", 15))
	assert.Equal(t,
		"It's been 1 minute since you took a photo with SX-70. Time to develop your Polaroid!",
		Message("SX-70", 1))
}

func TestID(t *testing.T) {
	assert.Equal(t, "development_reminder_p1", ID("p1"))
}

func TestSchedulerDelivers(t *testing.T) {
	got := make(chan Notification, 1)
	s := NewScheduler(NotifierFunc(func(_ context.Context, n Notification) error {
		got <- n
		return nil
	}), WithUnit(time.Millisecond))

	require.NoError(t, s.Schedule(context.Background(), "p1", "Blue 600", 5))

	select {
	case n := <-got:
		assert.Equal(t, "development_reminder_p1", n.ID)
		assert.Equal(t, "Blue 600", n.CameraLabel)
		assert.Contains(t, n.Body, "5 minutes")
	case <-time.After(time.Second):
		t.Fatal("reminder not delivered")
	}
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerReplacesPending(t *testing.T) {
	got := make(chan Notification, 2)
	s := NewScheduler(NotifierFunc(func(_ context.Context, n Notification) error {
		got <- n
		return nil
	}), WithUnit(10*time.Millisecond))

	ctx := context.Background()
	require.NoError(t, s.Schedule(ctx, "p1", "first", 3))
	require.NoError(t, s.Schedule(ctx, "p1", "second", 3))
	assert.Equal(t, 1, s.Pending())

	select {
	case n := <-got:
		assert.Equal(t, "second", n.CameraLabel)
	case <-time.After(time.Second):
		t.Fatal("reminder not delivered")
	}

	select {
	case n := <-got:
		t.Fatalf("unexpected second delivery: %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerCancel(t *testing.T) {
	delivered := make(chan struct{}, 1)
	s := NewScheduler(NotifierFunc(func(context.Context, Notification) error {
		delivered <- struct{}{}
		return nil
	}), WithUnit(20*time.Millisecond))

	ctx := context.Background()
	require.NoError(t, s.Schedule(ctx, "p1", "cam", 1))
	require.NoError(t, s.Cancel(ctx, "p1"))
	require.NoError(t, s.Cancel(ctx, "unknown"))
	assert.Equal(t, 0, s.Pending())

	select {
	case <-delivered:
		t.Fatal("canceled reminder delivered")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestSchedulerRejectsNonPositiveDelay(t *testing.T) {
	s := NewScheduler(nil)
	assert.Error(t, s.Schedule(context.Background(), "p1", "cam", 0))
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerStop(t *testing.T) {
	s := NewScheduler(nil)
	ctx := context.Background()
	require.NoError(t, s.Schedule(ctx, "p1", "cam", 10))
	require.NoError(t, s.Schedule(ctx, "p2", "cam", 10))
	s.Stop()
	assert.Equal(t, 0, s.Pending())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	require.NoError(t, r.Schedule(ctx, "p1", "cam", 15))
	require.NoError(t, r.Cancel(ctx, "p1"))

	assert.Equal(t, []Call{
		{Op: "schedule", PackID: "p1", CameraLabel: "cam", DelayMinutes: 15},
		{Op: "cancel", PackID: "p1"},
	}, r.Calls())
}
