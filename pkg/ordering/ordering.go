// Package ordering groups film packs by type and model and keeps the order
// the user sees them in stable as the inventory changes.
//
// The Engine owns a StableOrder and implements inventory.Observer: subscribe
// it to the store and the order follows every committed change.
package ordering

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/instantbox/pkg/inventory"
)

// Engine orders groups, packs and cameras.
type Engine struct {
	mu    sync.RWMutex
	order *StableOrder
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for status counts.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine seeded from packs in collection order.
func New(packs []inventory.FilmPack, opts ...Option) *Engine {
	e := &Engine{
		order: NewStableOrder(packs),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CollectionChanged implements inventory.Observer.
func (e *Engine) CollectionChanged(ev inventory.Event) {
	if ev.Collection != inventory.CollectionFilmPacks {
		return
	}
	e.mu.Lock()
	e.order.Reconcile(ev.FilmPacks)
	e.mu.Unlock()
}

// Keys returns the stable group order.
func (e *Engine) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.order.Keys()
}

// Groups builds the typology groups of packs ordered by policy.
func (e *Engine) Groups(packs []inventory.FilmPack, policy Policy) []TypologyGroup {
	groups := BuildGroups(packs, e.now())
	rank := e.rank()

	stable := func(a, b TypologyGroup) int {
		return compareRank(rank, a.Key, b.Key)
	}

	switch policy {
	case PolicyNameAsc:
		slices.SortStableFunc(groups, func(a, b TypologyGroup) int {
			return cmp.Or(NaturalCompare(a.Label(), b.Label()), stable(a, b))
		})
	case PolicyNameDesc:
		slices.SortStableFunc(groups, func(a, b TypologyGroup) int {
			return cmp.Or(NaturalCompare(b.Label(), a.Label()), stable(a, b))
		})
	case PolicyPurchaseAsc:
		slices.SortStableFunc(groups, func(a, b TypologyGroup) int {
			return cmp.Or(a.EarliestPurchase.Compare(b.EarliestPurchase), stable(a, b))
		})
	case PolicyPurchaseDesc:
		slices.SortStableFunc(groups, func(a, b TypologyGroup) int {
			return cmp.Or(b.LatestPurchase.Compare(a.LatestPurchase), stable(a, b))
		})
	default:
		slices.SortStableFunc(groups, stable)
	}
	return groups
}

// Packs orders an ungrouped pack listing. The stable policy keeps the
// collection's insertion order.
func (e *Engine) Packs(packs []inventory.FilmPack, policy Policy) []inventory.FilmPack {
	out := slices.Clone(packs)
	label := func(p inventory.FilmPack) string { return p.Type + " " + p.Model }

	switch policy {
	case PolicyNameAsc:
		slices.SortStableFunc(out, func(a, b inventory.FilmPack) int {
			return NaturalCompare(label(a), label(b))
		})
	case PolicyNameDesc:
		slices.SortStableFunc(out, func(a, b inventory.FilmPack) int {
			return NaturalCompare(label(b), label(a))
		})
	case PolicyPurchaseAsc:
		slices.SortStableFunc(out, func(a, b inventory.FilmPack) int {
			return a.PurchaseDate.Compare(b.PurchaseDate)
		})
	case PolicyPurchaseDesc:
		slices.SortStableFunc(out, func(a, b inventory.FilmPack) int {
			return b.PurchaseDate.Compare(a.PurchaseDate)
		})
	}
	return out
}

// Detail returns the packs of one group in detail order.
func (e *Engine) Detail(packs []inventory.FilmPack, key string) []inventory.FilmPack {
	var members []inventory.FilmPack
	for _, p := range packs {
		if p.GroupKey() == key {
			members = append(members, p)
		}
	}
	return DetailOrder(members, e.now())
}

func (e *Engine) rank() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rank := make(map[string]int, len(e.order.keys))
	for i, k := range e.order.keys {
		rank[k] = i
	}
	return rank
}

// compareRank orders known keys by position and unknown keys after them,
// naturally.
func compareRank(rank map[string]int, a, b string) int {
	ra, okA := rank[a]
	rb, okB := rank[b]
	switch {
	case okA && okB:
		return cmp.Compare(ra, rb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return NaturalCompare(a, b)
	}
}

// Status priorities used by DetailOrder.
const (
	priorityAvailable = iota + 1
	priorityExpiring
	priorityExpired
	priorityFinished
)

func priority(p inventory.FilmPack, now time.Time) int {
	switch {
	case p.IsFinished():
		return priorityFinished
	case p.IsExpired(now):
		return priorityExpired
	case p.IsExpiringSoon(now):
		return priorityExpiring
	default:
		return priorityAvailable
	}
}

// DetailOrder sorts packs available first, then expiring soon, expired and
// finished. Within a status earlier expiry comes first, packs without expiry
// after dated ones, then by id.
func DetailOrder(packs []inventory.FilmPack, now time.Time) []inventory.FilmPack {
	out := slices.Clone(packs)
	slices.SortStableFunc(out, func(a, b inventory.FilmPack) int {
		if c := cmp.Compare(priority(a, now), priority(b, now)); c != 0 {
			return c
		}
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate != nil:
			if c := a.ExpiryDate.Compare(*b.ExpiryDate); c != 0 {
				return c
			}
		case a.ExpiryDate != nil:
			return -1
		case b.ExpiryDate != nil:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// SortCameras orders cameras. loaded reports whether a camera holds a pack.
func SortCameras(cameras []inventory.Camera, sort CameraSort, loaded func(cameraID string) bool) []inventory.Camera {
	out := slices.Clone(cameras)
	byName := func(a, b inventory.Camera) int {
		return strings.Compare(strings.ToLower(a.Nickname), strings.ToLower(b.Nickname))
	}
	isLoaded := func(c inventory.Camera) int {
		if loaded != nil && loaded(c.ID) {
			return 1
		}
		return 0
	}

	switch sort {
	case CameraNameAsc:
		slices.SortStableFunc(out, byName)
	case CameraNameDesc:
		slices.SortStableFunc(out, func(a, b inventory.Camera) int { return byName(b, a) })
	case CameraDateAdded:
		slices.SortStableFunc(out, func(a, b inventory.Camera) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case CameraDateAddedReverse:
		slices.SortStableFunc(out, func(a, b inventory.Camera) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case CameraLoadedFirst:
		slices.SortStableFunc(out, func(a, b inventory.Camera) int {
			return cmp.Or(cmp.Compare(isLoaded(b), isLoaded(a)), byName(a, b))
		})
	case CameraUnloadedFirst:
		slices.SortStableFunc(out, func(a, b inventory.Camera) int {
			return cmp.Or(cmp.Compare(isLoaded(a), isLoaded(b)), byName(a, b))
		})
	}
	return out
}
