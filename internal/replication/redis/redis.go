// Package redis replicates collections into Redis hashes keyed
// "instantbox:<collection>" with fields payload, device_id and updated_at.
package redis

import (
	"context"
	stderrors "errors"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
)

const (
	backend   = "redis"
	keyPrefix = "instantbox:"

	fieldPayload   = "payload"
	fieldDeviceID  = "device_id"
	fieldUpdatedAt = "updated_at"
)

// Client timeouts.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
)

// Replica implements ports.Replication on Redis.
type Replica struct {
	client redis.UniversalClient
}

// Open parses redisURL, connects and pings.
func Open(ctx context.Context, redisURL string) (*Replica, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.NewConfigError(backend, "invalid URL", err)
	}
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = readTimeout
	opts.WriteTimeout = writeTimeout

	r := NewFromClient(redis.NewClient(opts))
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, err
	}

	logging.FromContext(ctx).Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Redis replica connected")
	return r, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client redis.UniversalClient) *Replica {
	return &Replica{client: client}
}

// Key returns the hash key for collection.
func Key(collection string) string {
	return keyPrefix + collection
}

// Ping checks connectivity.
func (r *Replica) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PingTimeout)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return classify("ping", "", err)
	}
	return nil
}

// Push implements ports.Replication.
func (r *Replica) Push(ctx context.Context, collection string, data []byte, deviceID string) error {
	err := r.client.HSet(ctx, Key(collection),
		fieldPayload, data,
		fieldDeviceID, deviceID,
		fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return classify("push", collection, err)
	}
	return nil
}

// Fetch implements ports.Replication.
func (r *Replica) Fetch(ctx context.Context, collection string) ([]byte, error) {
	data, err := r.client.HGet(ctx, Key(collection), fieldPayload).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("fetch", collection, err)
	}
	return data, nil
}

// Close closes the client.
func (r *Replica) Close() error {
	return r.client.Close()
}

func classify(op, collection string, err error) error {
	return errors.NewReplicationError(backend, op, collection, kindOf(err), err)
}

func kindOf(err error) errors.ReplicationKind {
	var netErr net.Error
	switch {
	case stderrors.As(err, &netErr),
		stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.ReplicationNetwork
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"), strings.HasPrefix(msg, "NOPERM"):
		return errors.ReplicationAuth
	case strings.HasPrefix(msg, "OOM"):
		return errors.ReplicationQuota
	case strings.HasPrefix(msg, "WRONGTYPE"):
		return errors.ReplicationSchemaMissing
	}
	return errors.ReplicationUnknown
}
