// Package postgres replicates collections to a PostgreSQL table. Each device
// upserts its own snapshot row and fetches return the most recent snapshot
// of any device.
package postgres

import (
	"context"
	"embed"
	stderrors "errors"
	"net"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
)

const backend = "postgres"

// Pool settings for a single-user replica.
const (
	maxConns        = 4
	maxConnIdleTime = 5 * time.Minute
	connectTimeout  = 5 * time.Second
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Replica implements ports.Replication on PostgreSQL.
type Replica struct {
	pool *pgxpool.Pool
	dsn  string
}

// Open connects to dsn and verifies connectivity. It does not create the
// schema; call Migrate for that.
func Open(ctx context.Context, dsn string) (*Replica, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.NewConfigError(backend, "invalid DSN", err)
	}
	cfg.MaxConns = maxConns
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, classify("connect", "", err)
	}

	r := &Replica{pool: pool, dsn: dsn}
	if err := r.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("host", cfg.ConnConfig.Host).
		Int32("max_conns", cfg.MaxConns).
		Msg("Postgres replica connected")
	return r, nil
}

// Ping checks connectivity.
func (r *Replica) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PingTimeout)
	defer cancel()
	if err := r.pool.Ping(ctx); err != nil {
		return classify("ping", "", err)
	}
	return nil
}

// Push implements ports.Replication.
func (r *Replica) Push(ctx context.Context, collection string, data []byte, deviceID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO replicas (collection, device_id, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, device_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		collection, deviceID, string(data))
	if err != nil {
		return classify("push", collection, err)
	}
	return nil
}

// Fetch implements ports.Replication.
func (r *Replica) Fetch(ctx context.Context, collection string) ([]byte, error) {
	var payload string
	err := r.pool.QueryRow(ctx, `
		SELECT payload::text FROM replicas
		WHERE collection = $1
		ORDER BY updated_at DESC
		LIMIT 1`, collection).Scan(&payload)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("fetch", collection, err)
	}
	return []byte(payload), nil
}

// Migrate creates or upgrades the replicas table.
func (r *Replica) Migrate(ctx context.Context) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(r.dsn))
	if err != nil {
		return classify("migrate", "", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return classify("migrate", "", err)
	}
	version, _, _ := m.Version()
	logging.FromContext(ctx).Info().Uint("version", version).Msg("Replica schema migrated")
	return nil
}

// Close releases the pool.
func (r *Replica) Close() error {
	r.pool.Close()
	return nil
}

// pgx5URL rewrites a postgres:// DSN to the pgx5:// scheme the migrate driver registers.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// classify maps driver errors to replication error kinds.
func classify(op, collection string, err error) error {
	return errors.NewReplicationError(backend, op, collection, kindOf(err), err)
}

func kindOf(err error) errors.ReplicationKind {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UndefinedTable:
			return errors.ReplicationSchemaMissing
		case pgErr.Code == pgerrcode.InsufficientPrivilege,
			pgerrcode.IsInvalidAuthorizationSpecification(pgErr.Code):
			return errors.ReplicationAuth
		case pgerrcode.IsInsufficientResources(pgErr.Code),
			pgerrcode.IsProgramLimitExceeded(pgErr.Code):
			return errors.ReplicationQuota
		case pgerrcode.IsConnectionException(pgErr.Code):
			return errors.ReplicationNetwork
		}
		return errors.ReplicationUnknown
	}

	var netErr net.Error
	var connectErr *pgconn.ConnectError
	switch {
	case stderrors.As(err, &connectErr), stderrors.As(err, &netErr),
		stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.ReplicationNetwork
	}
	return errors.ReplicationUnknown
}
