// Package association manages which film pack is loaded in which camera.
//
// A pack moves from unassociated to associated with exactly one camera, then
// back to unassociated (eject), or is deleted (unload, or its last shot).
// Every read-modify-write runs inside one inventory.Store transaction.
// Preconditions fail closed: operations report a reason instead of an error.
package association

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/ports"
)

// Compatibility decides whether a camera accepts a film type.
type Compatibility interface {
	IsCompatible(filmType string, camera inventory.Camera) bool
}

// Reason explains why a load was refused.
type Reason string

// Load refusal reasons.
const (
	ReasonNone           Reason = ""
	ReasonPackNotFound   Reason = "pack_not_found"
	ReasonCameraNotFound Reason = "camera_not_found"
	ReasonIncompatible   Reason = "incompatible"
	ReasonInOtherCamera  Reason = "in_other_camera"
	ReasonFinished       Reason = "finished"
	ReasonExpired        Reason = "expired"
	// ReasonStoreFailure means the checks passed but the change could not
	// be committed.
	ReasonStoreFailure Reason = "store_failure"
)

// Message returns a user-facing explanation.
func (r Reason) Message() string {
	switch r {
	case ReasonPackNotFound:
		return "Film pack not found."
	case ReasonCameraNotFound:
		return "Camera not found."
	case ReasonIncompatible:
		return "This film is not compatible with the camera."
	case ReasonInOtherCamera:
		return "This film pack is already loaded in another camera."
	case ReasonFinished:
		return "This film pack has no shots left."
	case ReasonExpired:
		return "This film pack is expired."
	case ReasonStoreFailure:
		return "The film pack could not be loaded. Try again."
	default:
		return ""
	}
}

// LoadResult reports the outcome of Load and CheckLoad.
type LoadResult struct {
	OK     bool
	Reason Reason
	// AlreadyLoaded is set when the pack was already in the camera.
	AlreadyLoaded bool
	// Ejected is the pack that was in the camera before, now unassociated.
	Ejected *inventory.FilmPack
	Pack    inventory.FilmPack
}

// ConsumeStatus is the outcome of ConsumeShots.
type ConsumeStatus string

// Consume outcomes.
const (
	ConsumeNoFilm   ConsumeStatus = "no_film"
	ConsumeRejected ConsumeStatus = "rejected"
	ConsumeConsumed ConsumeStatus = "consumed"
	ConsumeFinished ConsumeStatus = "finished"
)

// ConsumeResult reports the outcome of ConsumeShots.
type ConsumeResult struct {
	Status    ConsumeStatus
	PackID    string
	Remaining int
	// Finished is true when the pack reached zero and was deleted.
	Finished bool
}

// Engine performs association operations against a store.
type Engine struct {
	store     *inventory.Store
	compat    Compatibility
	reminder  ports.Reminder
	delay     atomic.Int32
	reminders atomic.Bool
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithReminder schedules a development reminder after each shot.
func WithReminder(r ports.Reminder, delayMinutes int) Option {
	return func(e *Engine) {
		e.reminder = r
		if delayMinutes > 0 {
			e.delay.Store(int32(delayMinutes))
		}
		e.reminders.Store(r != nil)
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine.
func New(store *inventory.Store, compat Compatibility, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		compat: compat,
		now:    time.Now,
	}
	e.delay.Store(constants.DefaultReminderDelayMinutes)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetRemindersEnabled toggles reminder scheduling at runtime.
func (e *Engine) SetRemindersEnabled(enabled bool) {
	e.reminders.Store(enabled && e.reminder != nil)
}

// SetReminderDelay changes the reminder delay in minutes.
func (e *Engine) SetReminderDelay(minutes int) {
	if minutes > 0 {
		e.delay.Store(int32(minutes))
	}
}

// CheckLoad evaluates the load preconditions without changing anything.
func (e *Engine) CheckLoad(packID, cameraID string) LoadResult {
	var result LoadResult
	_ = e.store.Update(func(tx *inventory.Tx) error {
		result = e.check(tx, packID, cameraID)
		return errAbort
	})
	return result
}

// Load puts a pack into a camera. A different pack already in the camera is
// ejected first; it stays in the inventory, unassociated.
func (e *Engine) Load(ctx context.Context, packID, cameraID string) LoadResult {
	log := logging.FromContext(logging.WithFilmPack(logging.WithCamera(ctx, cameraID), packID))

	var result LoadResult
	err := e.store.Update(func(tx *inventory.Tx) error {
		result = e.check(tx, packID, cameraID)
		if !result.OK || result.AlreadyLoaded {
			return errAbort
		}

		if current, ok := tx.PackInCamera(cameraID); ok {
			current.AssociatedCamera = nil
			current.UpdatedAt = e.now()
			if err := tx.PutFilmPack(current); err != nil {
				return err
			}
			result.Ejected = &current
		}

		pack := result.Pack
		pack.AssociatedCamera = &cameraID
		pack.UpdatedAt = e.now()
		result.Pack = pack
		return tx.PutFilmPack(pack)
	})
	if err != nil && !errors.Is(err, errAbort) {
		log.Error().Err(err).Msg("Failed to load film pack")
		return LoadResult{Reason: ReasonStoreFailure, Pack: result.Pack}
	}

	if result.OK {
		log.Info().Bool("already_loaded", result.AlreadyLoaded).Msg("Film pack loaded")
	} else {
		log.Debug().Str("reason", string(result.Reason)).Msg("Film pack load refused")
	}
	return result
}

func (e *Engine) check(tx *inventory.Tx, packID, cameraID string) LoadResult {
	pack, ok := tx.FilmPack(packID)
	if !ok {
		return LoadResult{Reason: ReasonPackNotFound}
	}
	camera, ok := tx.Camera(cameraID)
	if !ok {
		return LoadResult{Reason: ReasonCameraNotFound, Pack: pack}
	}
	if pack.LoadedIn(cameraID) {
		return LoadResult{OK: true, AlreadyLoaded: true, Pack: pack}
	}
	if pack.InUse() {
		return LoadResult{Reason: ReasonInOtherCamera, Pack: pack}
	}
	if pack.IsFinished() {
		return LoadResult{Reason: ReasonFinished, Pack: pack}
	}
	if pack.IsExpired(e.now()) {
		return LoadResult{Reason: ReasonExpired, Pack: pack}
	}
	if e.compat != nil && !e.compat.IsCompatible(pack.Type, camera) {
		return LoadResult{Reason: ReasonIncompatible, Pack: pack}
	}
	return LoadResult{OK: true, Pack: pack}
}

// Unload removes the pack loaded in the camera from the inventory.
func (e *Engine) Unload(ctx context.Context, cameraID string) (inventory.FilmPack, bool) {
	var removed inventory.FilmPack
	var ok bool
	_ = e.store.Update(func(tx *inventory.Tx) error {
		pack, found := tx.PackInCamera(cameraID)
		if !found {
			return errAbort
		}
		removed, ok = tx.DeleteFilmPack(pack.ID)
		return nil
	})

	if ok {
		logging.FromContext(ctx).Info().
			Str("camera_id", cameraID).
			Str("pack_id", removed.ID).
			Msg("Film pack unloaded and removed")
	}
	return removed, ok
}

// Eject disassociates the pack loaded in the camera without deleting it.
func (e *Engine) Eject(ctx context.Context, cameraID string) (inventory.FilmPack, bool) {
	var ejected inventory.FilmPack
	var ok bool
	_ = e.store.Update(func(tx *inventory.Tx) error {
		pack, found := tx.PackInCamera(cameraID)
		if !found {
			return errAbort
		}
		pack.AssociatedCamera = nil
		pack.UpdatedAt = e.now()
		if err := tx.PutFilmPack(pack); err != nil {
			return err
		}
		ejected, ok = pack, true
		return nil
	})

	if ok {
		logging.FromContext(ctx).Info().
			Str("camera_id", cameraID).
			Str("pack_id", ejected.ID).
			Msg("Film pack ejected")
	}
	return ejected, ok
}

// ConsumeShots records n exposures taken with the camera. A pack reaching
// zero is deleted.
func (e *Engine) ConsumeShots(ctx context.Context, n int, cameraID string) ConsumeResult {
	var result ConsumeResult
	var camera inventory.Camera

	_ = e.store.Update(func(tx *inventory.Tx) error {
		pack, ok := tx.PackInCamera(cameraID)
		if !ok {
			result = ConsumeResult{Status: ConsumeNoFilm}
			return errAbort
		}
		result = ConsumeResult{PackID: pack.ID, Remaining: pack.Remaining}
		if n <= 0 || n > pack.Remaining {
			result.Status = ConsumeRejected
			return errAbort
		}
		camera, _ = tx.Camera(cameraID)

		pack.Remaining -= n
		pack.UpdatedAt = e.now()
		result.Remaining = pack.Remaining

		if pack.Remaining == 0 {
			tx.DeleteFilmPack(pack.ID)
			result.Status = ConsumeFinished
			result.Finished = true
			return nil
		}
		result.Status = ConsumeConsumed
		return tx.PutFilmPack(pack)
	})

	log := logging.FromContext(ctx).With().
		Str("camera_id", cameraID).
		Str("pack_id", result.PackID).
		Int("shots", n).
		Int("remaining", result.Remaining).
		Logger()

	switch result.Status {
	case ConsumeConsumed, ConsumeFinished:
		log.Info().Bool("finished", result.Finished).Msg("Shots consumed")
		e.scheduleReminder(ctx, result.PackID, camera)
	default:
		log.Debug().Str("status", string(result.Status)).Msg("Shots not consumed")
	}
	return result
}

// DeleteCameraCascade deletes every pack loaded in the camera, then the
// camera. It returns the number of packs removed.
func (e *Engine) DeleteCameraCascade(ctx context.Context, cameraID string) (int, bool) {
	var removed int
	var found bool
	_ = e.store.Update(func(tx *inventory.Tx) error {
		if _, ok := tx.Camera(cameraID); !ok {
			return errAbort
		}
		found = true
		removed = len(tx.DeleteFilmPacksFunc(func(p inventory.FilmPack) bool {
			return p.LoadedIn(cameraID)
		}))
		tx.DeleteCamera(cameraID)
		return nil
	})

	if found {
		logging.FromContext(ctx).Info().
			Str("camera_id", cameraID).
			Int("packs_removed", removed).
			Msg("Camera deleted")
	}
	return removed, found
}

func (e *Engine) scheduleReminder(ctx context.Context, packID string, camera inventory.Camera) {
	if !e.reminders.Load() || e.reminder == nil {
		return
	}
	if err := e.reminder.Schedule(ctx, packID, camera.DisplayName(), int(e.delay.Load())); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("pack_id", packID).Msg("Failed to schedule development reminder")
	}
}

// CancelReminders cancels the pending reminder of every pack in the store.
func (e *Engine) CancelReminders(ctx context.Context) {
	if e.reminder == nil {
		return
	}
	log := logging.FromContext(ctx)
	for _, p := range e.store.FilmPacks() {
		if err := e.reminder.Cancel(ctx, p.ID); err != nil {
			log.Warn().Err(err).Str("pack_id", p.ID).Msg("Failed to cancel development reminder")
		}
	}
}

type abortError struct{}

func (abortError) Error() string { return "association: no change" }

// errAbort rolls back a transaction that decided not to change anything.
var errAbort error = abortError{}
