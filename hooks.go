package instantbox

import (
	"reflect"
	"sync"

	"github.com/agentstation/instantbox/pkg/inventory"
)

// Hook function types for entity events
type (
	// CameraAddedHook is called when a camera is added
	CameraAddedHook func(camera inventory.Camera)

	// CameraUpdatedHook is called when a camera changes
	CameraUpdatedHook func(old, new inventory.Camera)

	// CameraRemovedHook is called when a camera is removed
	CameraRemovedHook func(camera inventory.Camera)

	// FilmPackAddedHook is called when a film pack is added
	FilmPackAddedHook func(pack inventory.FilmPack)

	// FilmPackUpdatedHook is called when a film pack changes
	FilmPackUpdatedHook func(old, new inventory.FilmPack)

	// FilmPackRemovedHook is called when a film pack is removed
	FilmPackRemovedHook func(pack inventory.FilmPack)

	// CollectionChangedHook is called once per committed change with the raw event
	CollectionChangedHook func(event inventory.Event)
)

// Hooks registers callbacks for entity changes. Hooks run synchronously in
// commit order; they may read the inventory but must not mutate it from
// the calling goroutine.
type Hooks interface {
	OnCameraAdded(CameraAddedHook)
	OnCameraUpdated(CameraUpdatedHook)
	OnCameraRemoved(CameraRemovedHook)
	OnFilmPackAdded(FilmPackAddedHook)
	OnFilmPackUpdated(FilmPackUpdatedHook)
	OnFilmPackRemoved(FilmPackRemovedHook)
	OnCollectionChanged(CollectionChangedHook)
}

// hooks manages event callbacks for inventory changes
type hooks struct {
	mu                  sync.RWMutex
	onCameraAdded       []CameraAddedHook
	onCameraUpdated     []CameraUpdatedHook
	onCameraRemoved     []CameraRemovedHook
	onFilmPackAdded     []FilmPackAddedHook
	onFilmPackUpdated   []FilmPackUpdatedHook
	onFilmPackRemoved   []FilmPackRemovedHook
	onCollectionChanged []CollectionChangedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnCameraAdded registers a callback for when cameras are added
func (c *client) OnCameraAdded(fn CameraAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCameraAdded = append(c.hooks.onCameraAdded, fn)
}

// OnCameraUpdated registers a callback for when cameras change
func (c *client) OnCameraUpdated(fn CameraUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCameraUpdated = append(c.hooks.onCameraUpdated, fn)
}

// OnCameraRemoved registers a callback for when cameras are removed
func (c *client) OnCameraRemoved(fn CameraRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCameraRemoved = append(c.hooks.onCameraRemoved, fn)
}

// OnFilmPackAdded registers a callback for when film packs are added
func (c *client) OnFilmPackAdded(fn FilmPackAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFilmPackAdded = append(c.hooks.onFilmPackAdded, fn)
}

// OnFilmPackUpdated registers a callback for when film packs change
func (c *client) OnFilmPackUpdated(fn FilmPackUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFilmPackUpdated = append(c.hooks.onFilmPackUpdated, fn)
}

// OnFilmPackRemoved registers a callback for when film packs are removed
func (c *client) OnFilmPackRemoved(fn FilmPackRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFilmPackRemoved = append(c.hooks.onFilmPackRemoved, fn)
}

// OnCollectionChanged registers a callback for when any collection changes
func (c *client) OnCollectionChanged(fn CollectionChangedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCollectionChanged = append(c.hooks.onCollectionChanged, fn)
}

// CollectionChanged compares the previous and current collections and
// triggers the matching hooks.
func (h *hooks) CollectionChanged(ev inventory.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onCollectionChanged {
		hook(ev)
	}

	switch ev.Collection {
	case inventory.CollectionCameras:
		diff(ev.PreviousCameras, ev.Cameras, h.onCameraAdded, h.onCameraUpdated, h.onCameraRemoved)
	case inventory.CollectionFilmPacks:
		diff(ev.PreviousFilmPacks, ev.FilmPacks, h.onFilmPackAdded, h.onFilmPackUpdated, h.onFilmPackRemoved)
	}
}

// diff triggers added and updated hooks in current order, then removed
// hooks in previous order.
func diff[T interface{ Key() string }, A ~func(T), U ~func(T, T), R ~func(T)](previous, current []T, added []A, updated []U, removed []R) {
	if len(added)+len(updated)+len(removed) == 0 {
		return
	}

	oldByKey := make(map[string]T, len(previous))
	for _, item := range previous {
		oldByKey[item.Key()] = item
	}
	newKeys := make(map[string]struct{}, len(current))

	for _, item := range current {
		newKeys[item.Key()] = struct{}{}
		old, exists := oldByKey[item.Key()]
		switch {
		case !exists:
			for _, hook := range added {
				hook(item)
			}
		case !reflect.DeepEqual(old, item):
			for _, hook := range updated {
				hook(old, item)
			}
		}
	}

	for _, item := range previous {
		if _, exists := newKeys[item.Key()]; !exists {
			for _, hook := range removed {
				hook(item)
			}
		}
	}
}
