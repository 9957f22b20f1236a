// Package ports declares the interfaces the inventory core uses to reach the
// outside world. Adapters live under internal/persistence,
// internal/replication and internal/reminder.
package ports

import "context"

// Persistence stores named buckets of bytes locally.
type Persistence interface {
	// Save replaces the bucket content.
	Save(ctx context.Context, collection string, data []byte) error
	// Load returns the bucket content, or nil and no error when absent.
	Load(ctx context.Context, collection string) ([]byte, error)
}

// Replication exchanges serialized collections with a remote replica.
// Failures are reported as *errors.ReplicationError.
type Replication interface {
	Push(ctx context.Context, collection string, data []byte, deviceID string) error
	// Fetch returns the remote content, or nil and no error when the
	// replica has nothing for the collection yet.
	Fetch(ctx context.Context, collection string) ([]byte, error)
}

// Reminder schedules development reminders after a shot.
type Reminder interface {
	Schedule(ctx context.Context, packID, cameraLabel string, delayMinutes int) error
	Cancel(ctx context.Context, packID string) error
}

// Closer is implemented by adapters holding connections.
type Closer interface {
	Close() error
}
