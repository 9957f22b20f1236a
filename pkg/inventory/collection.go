package inventory

import "slices"

// Entity is an item that can live in a Collection.
type Entity[T any] interface {
	Key() string
	Clone() T
}

// Collection is an ordered list of entities with unique keys. Order is
// insertion order; replacing an entity keeps its position.
//
// Collection is not safe for concurrent use; the Store guards it.
type Collection[T Entity[T]] struct {
	items []T
}

// NewCollection creates a collection from items. Later duplicates replace
// earlier ones in place.
func NewCollection[T Entity[T]](items ...T) *Collection[T] {
	c := &Collection[T]{items: make([]T, 0, len(items))}
	for _, item := range items {
		c.Put(item)
	}
	return c
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Index returns the position of key, or -1.
func (c *Collection[T]) Index(key string) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.Key() == key })
}

// Get returns a copy of the entity with the given key.
func (c *Collection[T]) Get(key string) (T, bool) {
	if i := c.Index(key); i >= 0 {
		return c.items[i].Clone(), true
	}
	var zero T
	return zero, false
}

// Has reports whether key is present.
func (c *Collection[T]) Has(key string) bool {
	return c.Index(key) >= 0
}

// Put replaces the entity with the same key or appends it. It reports
// whether an existing entity was replaced.
func (c *Collection[T]) Put(item T) bool {
	if i := c.Index(item.Key()); i >= 0 {
		c.items[i] = item.Clone()
		return true
	}
	c.items = append(c.items, item.Clone())
	return false
}

// Delete removes the entity with the given key and returns it.
func (c *Collection[T]) Delete(key string) (T, bool) {
	i := c.Index(key)
	if i < 0 {
		var zero T
		return zero, false
	}
	removed := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	return removed, true
}

// DeleteFunc removes every entity matching fn and returns them in order.
func (c *Collection[T]) DeleteFunc(fn func(T) bool) []T {
	var removed []T
	kept := c.items[:0]
	for _, item := range c.items {
		if fn(item) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	clear(c.items[len(kept):])
	c.items = kept
	return removed
}

// Find returns a copy of the first entity matching fn.
func (c *Collection[T]) Find(fn func(T) bool) (T, bool) {
	if i := slices.IndexFunc(c.items, fn); i >= 0 {
		return c.items[i].Clone(), true
	}
	var zero T
	return zero, false
}

// Items returns deep copies of all entities in order.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

// Replace swaps the content for items.
func (c *Collection[T]) Replace(items []T) {
	*c = *NewCollection(items...)
}

// Clone returns a deep copy of the collection.
func (c *Collection[T]) Clone() *Collection[T] {
	return &Collection[T]{items: c.Items()}
}
