package inventory

import (
	"sync"

	"github.com/agentstation/instantbox/pkg/errors"
)

// Collection names, also used as persistence and replication bucket names.
const (
	CollectionCameras   = "cameras"
	CollectionFilmPacks = "filmPacks"
)

// Event describes a committed change to one collection. Only the fields of
// the changed collection are populated.
type Event struct {
	Collection        string
	Cameras           []Camera
	PreviousCameras   []Camera
	FilmPacks         []FilmPack
	PreviousFilmPacks []FilmPack
}

// Observer is notified after a collection changes.
//
// Observers run synchronously after the store lock is released. They may
// read from the store but must not call Update from the same goroutine.
type Observer interface {
	CollectionChanged(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// CollectionChanged calls f(e).
func (f ObserverFunc) CollectionChanged(e Event) { f(e) }

// Store owns the camera and film pack collections.
type Store struct {
	mu      sync.Mutex
	cameras *Collection[Camera]
	packs   *Collection[FilmPack]

	// notifyMu keeps event delivery in commit order.
	notifyMu  sync.Mutex
	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObs   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		cameras:   NewCollection[Camera](),
		packs:     NewCollection[FilmPack](),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// Cameras returns a copy of all cameras in insertion order.
func (s *Store) Cameras() []Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameras.Items()
}

// FilmPacks returns a copy of all film packs in insertion order.
func (s *Store) FilmPacks() []FilmPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packs.Items()
}

// Camera returns the camera with the given id.
func (s *Store) Camera(id string) (Camera, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameras.Get(id)
}

// FilmPack returns the film pack with the given id.
func (s *Store) FilmPack(id string) (FilmPack, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packs.Get(id)
}

// PackInCamera returns the pack currently loaded in the camera.
func (s *Store) PackInCamera(cameraID string) (FilmPack, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packs.Find(func(p FilmPack) bool { return p.LoadedIn(cameraID) })
}

// Update runs fn inside a transaction. When fn returns nil the changes are
// committed and observers are notified; otherwise nothing changes.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()

	tx := &Tx{
		cameras: s.cameras.Clone(),
		packs:   s.packs.Clone(),
	}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}

	var events []Event
	if tx.camerasChanged {
		events = append(events, Event{
			Collection:      CollectionCameras,
			Cameras:         tx.cameras.Items(),
			PreviousCameras: s.cameras.Items(),
		})
		s.cameras = tx.cameras
	}
	if tx.packsChanged {
		events = append(events, Event{
			Collection:        CollectionFilmPacks,
			FilmPacks:         tx.packs.Items(),
			PreviousFilmPacks: s.packs.Items(),
		})
		s.packs = tx.packs
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.publish(events)
	return nil
}

func (s *Store) publish(events []Event) {
	if len(events) == 0 {
		return
	}

	s.obsMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if o, ok := s.observers[i]; ok {
			observers = append(observers, o)
		}
	}
	s.obsMu.RUnlock()

	for _, e := range events {
		for _, o := range observers {
			o.CollectionChanged(e)
		}
	}
}

// Tx is a working copy of the store handed to Update callbacks.
type Tx struct {
	cameras        *Collection[Camera]
	packs          *Collection[FilmPack]
	camerasChanged bool
	packsChanged   bool
}

// Cameras returns the cameras as seen by the transaction.
func (tx *Tx) Cameras() []Camera { return tx.cameras.Items() }

// FilmPacks returns the film packs as seen by the transaction.
func (tx *Tx) FilmPacks() []FilmPack { return tx.packs.Items() }

// Camera returns the camera with the given id.
func (tx *Tx) Camera(id string) (Camera, bool) { return tx.cameras.Get(id) }

// FilmPack returns the film pack with the given id.
func (tx *Tx) FilmPack(id string) (FilmPack, bool) { return tx.packs.Get(id) }

// PackInCamera returns the pack loaded in the camera.
func (tx *Tx) PackInCamera(cameraID string) (FilmPack, bool) {
	return tx.packs.Find(func(p FilmPack) bool { return p.LoadedIn(cameraID) })
}

// AddCamera inserts a new camera.
func (tx *Tx) AddCamera(c Camera) error {
	if c.ID == "" {
		return errors.NewValidationError("id", c.ID, "camera id is required")
	}
	if tx.cameras.Has(c.ID) {
		return errors.NewResourceError("add", "camera", c.ID, errors.ErrAlreadyExists)
	}
	tx.cameras.Put(c)
	tx.camerasChanged = true
	return nil
}

// PutCamera replaces an existing camera.
func (tx *Tx) PutCamera(c Camera) error {
	if !tx.cameras.Has(c.ID) {
		return errors.NewNotFoundError("camera", c.ID)
	}
	tx.cameras.Put(c)
	tx.camerasChanged = true
	return nil
}

// DeleteCamera removes a camera. Packs are not touched.
func (tx *Tx) DeleteCamera(id string) (Camera, bool) {
	c, ok := tx.cameras.Delete(id)
	if ok {
		tx.camerasChanged = true
	}
	return c, ok
}

// AddFilmPack inserts a new film pack.
func (tx *Tx) AddFilmPack(p FilmPack) error {
	if p.ID == "" {
		return errors.NewValidationError("id", p.ID, "film pack id is required")
	}
	if err := ValidateShots(p.Total, p.Remaining); err != nil {
		return err
	}
	if tx.packs.Has(p.ID) {
		return errors.NewResourceError("add", "film pack", p.ID, errors.ErrAlreadyExists)
	}
	tx.packs.Put(p)
	tx.packsChanged = true
	return nil
}

// PutFilmPack replaces an existing film pack.
func (tx *Tx) PutFilmPack(p FilmPack) error {
	if err := ValidateShots(p.Total, p.Remaining); err != nil {
		return err
	}
	if !tx.packs.Has(p.ID) {
		return errors.NewNotFoundError("film pack", p.ID)
	}
	tx.packs.Put(p)
	tx.packsChanged = true
	return nil
}

// DeleteFilmPack removes a film pack.
func (tx *Tx) DeleteFilmPack(id string) (FilmPack, bool) {
	p, ok := tx.packs.Delete(id)
	if ok {
		tx.packsChanged = true
	}
	return p, ok
}

// DeleteFilmPacksFunc removes every pack matching fn.
func (tx *Tx) DeleteFilmPacksFunc(fn func(FilmPack) bool) []FilmPack {
	removed := tx.packs.DeleteFunc(fn)
	if len(removed) > 0 {
		tx.packsChanged = true
	}
	return removed
}

// ReplaceCameras swaps the whole camera collection.
func (tx *Tx) ReplaceCameras(cameras []Camera) {
	tx.cameras.Replace(cameras)
	tx.camerasChanged = true
}

// ReplaceFilmPacks swaps the whole film pack collection.
func (tx *Tx) ReplaceFilmPacks(packs []FilmPack) {
	tx.packs.Replace(packs)
	tx.packsChanged = true
}

// ValidateShots checks 0 <= remaining <= total.
func ValidateShots(total, remaining int) error {
	if total < 0 {
		return errors.NewValidationError("total", total, "must not be negative")
	}
	if remaining < 0 || remaining > total {
		return errors.NewValidationError("remaining", remaining, "must be between 0 and total")
	}
	return nil
}
