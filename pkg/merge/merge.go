// Package merge reconciles a local collection with its remote replica.
//
// Merge is a pure function over keyed items; Engine serializes merge passes
// per collection so concurrent passes over the same collection never
// interleave while different collections proceed independently.
package merge

import (
	"context"
	"sync"
)

// Keyed items have a stable identity.
type Keyed interface {
	Key() string
}

// Stats counts what a merge did.
type Stats struct {
	Replaced int
	Added    int
	Kept     int
}

// Merge starts from local, resolves items present on both sides with
// strategy, appends remote-only items in remote order and keeps local-only
// items. A nil strategy means RemoteWins.
func Merge[T Keyed](local, remote []T, strategy Strategy[T]) []T {
	out, _ := MergeWithStats(local, remote, strategy)
	return out
}

// MergeWithStats is Merge that also reports counts.
func MergeWithStats[T Keyed](local, remote []T, strategy Strategy[T]) ([]T, Stats) {
	if strategy == nil {
		strategy = RemoteWins[T]
	}

	out := make([]T, len(local), len(local)+len(remote))
	copy(out, local)

	index := make(map[string]int, len(out))
	for i, item := range out {
		index[item.Key()] = i
	}

	var stats Stats
	for _, r := range remote {
		if i, ok := index[r.Key()]; ok {
			out[i] = strategy(out[i], r)
			stats.Replaced++
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
		stats.Added++
	}
	stats.Kept = len(local) - stats.Replaced
	return out, stats
}

// Engine serializes merge passes per collection.
type Engine struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an engine.
func NewEngine() *Engine {
	return &Engine{locks: make(map[string]*sync.Mutex)}
}

// Do runs fn while holding the lock for collection. It returns early with
// the context error when ctx is done before the lock is acquired.
func (e *Engine) Do(ctx context.Context, collection string, fn func(ctx context.Context) error) error {
	lock := e.lock(collection)

	acquired := make(chan struct{})
	go func() {
		lock.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		// Release the lock once the pending acquisition completes.
		go func() {
			<-acquired
			lock.Unlock()
		}()
		return ctx.Err()
	}
	defer lock.Unlock()

	return fn(ctx)
}

func (e *Engine) lock(collection string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		e.locks[collection] = l
	}
	return l
}
