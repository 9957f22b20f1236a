// Package app provides the application context and dependency management
// for the instantbox CLI: configuration, logging and the lazily opened
// inventory client with its storage and replica.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/persistence/sqlite"
	"github.com/agentstation/instantbox/internal/reminder"
	"github.com/agentstation/instantbox/internal/replication"
	"github.com/agentstation/instantbox/internal/replication/s3"
	"github.com/agentstation/instantbox/pkg/catalog"
	pkgerrors "github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/merge"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// App represents the instantbox application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Inventory client and the resources it owns (lazy-initialized, singleton)
	mu      sync.RWMutex
	client  instantbox.Client
	db      *sqlite.Store
	replica *replication.Replica
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, pkgerrors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string { return a.config.Format }

// CameraSort returns the configured camera order, falling back to date added.
func (a *App) CameraSort() ordering.CameraSort {
	s, err := ordering.ParseCameraSort(a.config.CameraSort)
	if err != nil {
		a.logger.Warn().Str("camera_sort", a.config.CameraSort).Msg("Unknown camera sort, using date-added")
		return ordering.CameraDateAdded
	}
	return s
}

// PackSort returns the configured pack order, falling back to stable.
func (a *App) PackSort() ordering.Policy {
	p, err := ordering.ParsePolicy(a.config.PackSort)
	if err != nil {
		a.logger.Warn().Str("pack_sort", a.config.PackSort).Msg("Unknown pack sort, using stable")
		return ordering.PolicyStable
	}
	return p
}

// Client returns the inventory client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Client(ctx context.Context) (instantbox.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	ctx = logging.WithLogger(ctx, a.logger)
	opts, err := a.buildClientOptions(ctx)
	if err != nil {
		a.closeResources()
		return nil, err
	}
	c, err := instantbox.New(ctx, opts...)
	if err != nil {
		a.closeResources()
		return nil, pkgerrors.WrapResource("create", "inventory", "", err)
	}

	a.client = c
	return c, nil
}

// Shutdown closes the client, the replica and the database.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			errs = append(errs, err)
		}
		a.client = nil
	}
	errs = append(errs, a.closeResources())
	if err := errors.Join(errs...); err != nil {
		a.logger.Error().Err(err).Msg("Shutdown failed")
		return err
	}
	return nil
}

// closeResources releases the database and replica. Callers hold a.mu.
func (a *App) closeResources() error {
	var errs []error
	if a.replica != nil {
		errs = append(errs, a.replica.Close())
		a.replica = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	return errors.Join(errs...)
}

// buildClientOptions opens storage and the replica described by the config
// and translates the remaining settings into client options.
func (a *App) buildClientOptions(ctx context.Context) ([]instantbox.Option, error) {
	cfg := a.config
	strategy, err := merge.ParseStrategyType(cfg.MergeStrategy)
	if err != nil {
		return nil, err
	}

	opts := []instantbox.Option{
		instantbox.WithSync(cfg.SyncEnabled),
		instantbox.WithReminders(cfg.RemindersEnabled),
		instantbox.WithIgnoreCompatibility(cfg.IgnoreCompatibility),
		instantbox.WithMergeStrategy(strategy),
		instantbox.WithAutoSync(cfg.AutoSync),
	}
	if cfg.ReminderDelay > 0 {
		opts = append(opts, instantbox.WithReminderDelay(cfg.ReminderDelay))
	}
	if cfg.AutoSyncInterval > 0 {
		opts = append(opts, instantbox.WithAutoSyncInterval(cfg.AutoSyncInterval))
	}
	if cfg.CatalogCacheTTL > 0 {
		opts = append(opts, instantbox.WithCatalogTTL(cfg.CatalogCacheTTL))
	}
	if cfg.CatalogBaseURL != "" {
		opts = append(opts, instantbox.WithCatalogSource(catalog.NewHTTPSource(cfg.CatalogBaseURL)))
	}
	if cfg.DeviceID != "" {
		opts = append(opts, instantbox.WithDeviceID(cfg.DeviceID))
	}
	if cfg.RemindersEnabled {
		opts = append(opts, instantbox.WithReminder(reminder.NewScheduler(a.notifier())))
	}

	if cfg.DBPath != "" && cfg.DBPath != MemoryDB {
		db, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.db = db
		opts = append(opts, instantbox.WithPersistence(db))
	}

	replica, err := a.openReplica(ctx)
	if err != nil {
		return nil, err
	}
	if replica != nil {
		a.replica = replica
		opts = append(opts, instantbox.WithReplication(replica))
	}

	return opts, nil
}

func (a *App) openReplica(ctx context.Context) (*replication.Replica, error) {
	rc := a.config.Replication
	driver, err := replication.ParseDriver(rc.Driver)
	if err != nil {
		return nil, err
	}
	replica, err := replication.Open(ctx, replication.Config{
		Driver:      driver,
		PostgresDSN: rc.PostgresDSN,
		RedisURL:    rc.RedisURL,
		S3: s3.Config{
			Bucket:    rc.S3Bucket,
			Region:    rc.S3Region,
			Prefix:    rc.S3Prefix,
			Endpoint:  rc.S3Endpoint,
			PathStyle: rc.S3PathStyle,
		},
	})
	if err != nil || replica == nil {
		return nil, err
	}
	if err := replica.Migrate(ctx); err != nil {
		_ = replica.Close()
		return nil, err
	}
	a.logger.Debug().Str("driver", string(driver)).Msg("Replica opened")
	return replica, nil
}

// notifier writes due development reminders to the log.
func (a *App) notifier() reminder.Notifier {
	return reminder.NotifierFunc(func(_ context.Context, n reminder.Notification) error {
		a.logger.Info().
			Str("pack_id", n.PackID).
			Str("camera", n.CameraLabel).
			Msg(n.Body)
		return nil
	})
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c instantbox.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
