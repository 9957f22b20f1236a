// Package sqlite persists collection buckets in a local sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements ports.Persistence on a sqlite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and migrates it.
// The special path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("ping", path, err)
	}

	if err := migrateUp(db, logging.FromContext(ctx)); err != nil {
		_ = db.Close()
		return nil, errors.NewConfigError("sqlite", "failed to run migrations", err)
	}

	return &Store{db: db, path: path}, nil
}

// Save implements ports.Persistence.
func (s *Store) Save(ctx context.Context, collection string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO state (bucket, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		collection, data, time.Now().UTC())
	if err != nil {
		return errors.WrapIO("save", collection, err)
	}
	return nil
}

// Load implements ports.Persistence.
func (s *Store) Load(ctx context.Context, collection string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, collection).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("load", collection, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Buckets lists the stored bucket names in order.
func (s *Store) Buckets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket FROM state ORDER BY bucket`)
	if err != nil {
		return nil, errors.WrapIO("list", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.WrapIO("list", s.path, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB, logger *zerolog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	m.Log = &migrateLogger{logger: logger}

	// m.Close would close db through the driver, so it is not called.
	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return err
	}
	version, _, _ := m.Version()
	logger.Debug().Uint("version", version).Msg("State database migrated")
	return nil
}

// migrateLogger adapts golang-migrate's logger to zerolog.
type migrateLogger struct {
	logger *zerolog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}
