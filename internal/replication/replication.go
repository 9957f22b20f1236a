package replication

import (
	"context"
	"strings"

	"github.com/agentstation/instantbox/internal/replication/memory"
	"github.com/agentstation/instantbox/internal/replication/postgres"
	"github.com/agentstation/instantbox/internal/replication/redis"
	"github.com/agentstation/instantbox/internal/replication/s3"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/ports"
)

// Driver names a replication backend.
type Driver string

// Supported drivers.
const (
	DriverNone     Driver = "none"
	DriverMemory   Driver = "memory"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
	DriverRedis    Driver = "redis"
)

// Drivers lists the supported drivers.
var Drivers = []Driver{DriverNone, DriverMemory, DriverPostgres, DriverS3, DriverRedis}

// Config selects and configures a backend.
type Config struct {
	Driver      Driver
	PostgresDSN string
	S3          s3.Config
	RedisURL    string
}

// Replica bundles an opened backend with its optional lifecycle hooks.
type Replica struct {
	ports.Replication
	Driver Driver
}

// Close closes the backend when it holds connections.
func (r *Replica) Close() error {
	if c, ok := r.Replication.(ports.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ping checks connectivity when the backend supports it.
func (r *Replica) Ping(ctx context.Context) error {
	if p, ok := r.Replication.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Migrate creates the remote schema when the backend has one.
func (r *Replica) Migrate(ctx context.Context) error {
	if m, ok := r.Replication.(interface{ Migrate(context.Context) error }); ok {
		return m.Migrate(ctx)
	}
	return nil
}

// ParseDriver parses a driver name. The empty string is DriverNone.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DriverNone, nil
	}
	for _, known := range Drivers {
		if d == known {
			return d, nil
		}
	}
	return "", errors.NewValidationError("replication.driver", s, "unknown replication driver")
}

// Open opens the configured backend. It returns nil and no error for DriverNone.
func Open(ctx context.Context, cfg Config) (*Replica, error) {
	var (
		backend ports.Replication
		err     error
	)
	switch cfg.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverMemory:
		backend = memory.New()
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.NewConfigError("replication", "postgres_dsn required for postgres driver", nil)
		}
		backend, err = postgres.Open(ctx, cfg.PostgresDSN)
	case DriverS3:
		backend, err = s3.New(ctx, cfg.S3)
	case DriverRedis:
		if cfg.RedisURL == "" {
			return nil, errors.NewConfigError("replication", "redis_url required for redis driver", nil)
		}
		backend, err = redis.Open(ctx, cfg.RedisURL)
	default:
		return nil, errors.NewValidationError("replication.driver", string(cfg.Driver), "unknown replication driver")
	}
	if err != nil {
		return nil, err
	}
	return &Replica{Replication: backend, Driver: cfg.Driver}, nil
}
