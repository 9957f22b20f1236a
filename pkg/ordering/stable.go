package ordering

import (
	"slices"

	"github.com/agentstation/instantbox/pkg/inventory"
)

// StableOrder is the user-visible order of typology group keys. New keys go
// to the end; existing keys never move.
type StableOrder struct {
	keys []string
}

// NewStableOrder creates an order seeded from packs in collection order.
func NewStableOrder(packs []inventory.FilmPack) *StableOrder {
	s := &StableOrder{}
	s.Reconcile(packs)
	return s
}

// Keys returns a copy of the ordered keys.
func (s *StableOrder) Keys() []string {
	return slices.Clone(s.keys)
}

// Index returns the position of key, or -1.
func (s *StableOrder) Index(key string) int {
	return slices.Index(s.keys, key)
}

// Insert appends key when it is not present yet.
func (s *StableOrder) Insert(key string) bool {
	if slices.Contains(s.keys, key) {
		return false
	}
	s.keys = append(s.keys, key)
	return true
}

// Remove drops key.
func (s *StableOrder) Remove(key string) bool {
	i := s.Index(key)
	if i < 0 {
		return false
	}
	s.keys = slices.Delete(s.keys, i, i+1)
	return true
}

// Reconcile brings the order in line with packs: keys no pack uses any more
// are removed, keys seen for the first time are appended in collection order.
func (s *StableOrder) Reconcile(packs []inventory.FilmPack) (added, removed []string) {
	present := make(map[string]bool, len(packs))
	for _, p := range packs {
		present[p.GroupKey()] = true
	}

	s.keys = slices.DeleteFunc(s.keys, func(k string) bool {
		if !present[k] {
			removed = append(removed, k)
			return true
		}
		return false
	})

	for _, p := range packs {
		if s.Insert(p.GroupKey()) {
			added = append(added, p.GroupKey())
		}
	}
	return added, removed
}
