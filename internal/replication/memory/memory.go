// Package memory is an in-process Replication adapter. Failures can be
// injected to exercise the sync error paths.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/instantbox/pkg/errors"
)

// Record is what the replica holds for one collection.
type Record struct {
	Payload  []byte
	DeviceID string
}

// Replica stores the last pushed payload per collection.
type Replica struct {
	mu       sync.Mutex
	records  map[string]Record
	pushes   int
	fetches  int
	fetchErr errors.ReplicationKind
	pushErr  errors.ReplicationKind
}

// New creates an empty replica.
func New() *Replica {
	return &Replica{records: make(map[string]Record)}
}

// Push implements ports.Replication.
func (r *Replica) Push(ctx context.Context, collection string, data []byte, deviceID string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewReplicationError("memory", "push", collection, errors.ReplicationNetwork, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pushErr != "" {
		return errors.NewReplicationError("memory", "push", collection, r.pushErr, nil)
	}
	r.records[collection] = Record{Payload: slices.Clone(data), DeviceID: deviceID}
	r.pushes++
	return nil
}

// Fetch implements ports.Replication.
func (r *Replica) Fetch(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewReplicationError("memory", "fetch", collection, errors.ReplicationNetwork, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	if r.fetchErr != "" {
		return nil, errors.NewReplicationError("memory", "fetch", collection, r.fetchErr, nil)
	}
	rec, ok := r.records[collection]
	if !ok {
		return nil, nil
	}
	return slices.Clone(rec.Payload), nil
}

// Set stores a payload as if another device had pushed it.
func (r *Replica) Set(collection string, data []byte, deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[collection] = Record{Payload: slices.Clone(data), DeviceID: deviceID}
}

// Get returns the stored record.
func (r *Replica) Get(collection string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[collection]
	return rec, ok
}

// FailFetch makes subsequent fetches fail with kind. The empty kind clears it.
func (r *Replica) FailFetch(kind errors.ReplicationKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchErr = kind
}

// FailPush makes subsequent pushes fail with kind. The empty kind clears it.
func (r *Replica) FailPush(kind errors.ReplicationKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushErr = kind
}

// Pushes returns the number of successful pushes.
func (r *Replica) Pushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushes
}

// Fetches returns the number of fetch attempts.
func (r *Replica) Fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}
