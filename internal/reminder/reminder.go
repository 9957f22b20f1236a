// Package reminder schedules "time to develop your photo" notifications.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
)

// Notification is a reminder that came due.
type Notification struct {
	ID          string
	PackID      string
	CameraLabel string
	Title       string
	Body        string
	DueAt       time.Time
}

// Notifier delivers due reminders.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// ID returns the reminder identifier for a pack.
func ID(packID string) string {
	return constants.ReminderIDPrefix + packID
}

// Message returns the reminder body.
func Message(cameraLabel string, delayMinutes int) string {
	unit := "minutes"
	if delayMinutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("It's been %d %s since you took a photo with %s. Time to develop your Polaroid!",
		delayMinutes, unit, cameraLabel)
}

// Scheduler keeps one pending timer per pack.
type Scheduler struct {
	mu       sync.Mutex
	timers   map[string]*pending
	notifier Notifier
	unit     time.Duration
	now      func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithUnit changes the length of one delay unit. Tests use milliseconds.
func WithUnit(unit time.Duration) Option {
	return func(s *Scheduler) { s.unit = unit }
}

// NewScheduler creates a scheduler delivering through notifier.
func NewScheduler(notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		timers:   make(map[string]*pending),
		notifier: notifier,
		unit:     time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule implements ports.Reminder. Any pending reminder for the pack is
// replaced.
func (s *Scheduler) Schedule(ctx context.Context, packID, cameraLabel string, delayMinutes int) error {
	if delayMinutes <= 0 {
		return errors.NewValidationError("delay", delayMinutes, "must be positive")
	}

	id := ID(packID)
	delay := time.Duration(delayMinutes) * s.unit
	n := Notification{
		ID:          id,
		PackID:      packID,
		CameraLabel: cameraLabel,
		Title:       "Development reminder",
		Body:        Message(cameraLabel, delayMinutes),
		DueAt:       s.now().Add(delay),
	}
	log := logging.FromContext(ctx).With().Str("reminder_id", id).Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.timers[id]; ok {
		p.timer.Stop()
	}

	p := &pending{}
	p.timer = time.AfterFunc(delay, func() {
		s.fire(log, n, p)
	})
	s.timers[id] = p

	log.Debug().Time("due_at", n.DueAt).Msg("Development reminder scheduled")
	return nil
}

// Cancel implements ports.Reminder.
func (s *Scheduler) Cancel(ctx context.Context, packID string) error {
	id := ID(packID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.timers[id]; ok {
		p.timer.Stop()
		delete(s.timers, id)
		logging.FromContext(ctx).Debug().Str("reminder_id", id).Msg("Development reminder canceled")
	}
	return nil
}

// Pending returns the number of reminders not yet delivered.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, id)
	}
}

// pending is one scheduled reminder; its identity tells a stale timer apart
// from the one currently registered.
type pending struct {
	timer *time.Timer
}

func (s *Scheduler) fire(log zerolog.Logger, n Notification, p *pending) {
	s.mu.Lock()
	current, ok := s.timers[n.ID]
	if !ok || current != p {
		s.mu.Unlock()
		return
	}
	delete(s.timers, n.ID)
	s.mu.Unlock()

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(context.Background(), n); err != nil {
		log.Warn().Err(err).Msg("Failed to deliver development reminder")
	}
}

// LogNotifier writes due reminders to the logger.
type LogNotifier struct {
	Logger *zerolog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(_ context.Context, n Notification) error {
	log := l.Logger
	if log == nil {
		log = logging.Default()
	}
	log.Info().
		Str("reminder_id", n.ID).
		Str("pack_id", n.PackID).
		Str("camera", n.CameraLabel).
		Msg(n.Body)
	return nil
}
