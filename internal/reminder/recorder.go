package reminder

import (
	"context"
	"sync"
)

// Call is one Schedule or Cancel request seen by a Recorder.
type Call struct {
	Op           string
	PackID       string
	CameraLabel  string
	DelayMinutes int
}

// Recorder is a ports.Reminder that records requests without scheduling.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	Err   error
}

// Schedule implements ports.Reminder.
func (r *Recorder) Schedule(_ context.Context, packID, cameraLabel string, delayMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "schedule", PackID: packID, CameraLabel: cameraLabel, DelayMinutes: delayMinutes})
	return r.Err
}

// Cancel implements ports.Reminder.
func (r *Recorder) Cancel(_ context.Context, packID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "cancel", PackID: packID})
	return r.Err
}

// Calls returns the recorded requests in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}
