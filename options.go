package instantbox

import (
	"time"

	"github.com/agentstation/instantbox/pkg/catalog"
	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/merge"
	"github.com/agentstation/instantbox/pkg/ports"
)

// options holds the configuration for a Client.
type options struct {
	// ports
	persistence ports.Persistence
	replication ports.Replication
	reminder    ports.Reminder

	// reference catalog
	catalogSource catalog.Source
	catalogTTL    time.Duration

	// entitlement-gated features
	syncEnabled      bool
	remindersEnabled bool
	reminderDelay    int

	// behavior
	ignoreCompatibility bool
	strategy            merge.StrategyType
	deviceID            string
	now                 func() time.Time

	// auto sync
	autoSyncEnabled  bool
	autoSyncInterval time.Duration
}

// Option is a function that configures a Client.
type Option func(*options) error

// defaults returns options with default values.
func defaults() *options {
	return &options{
		catalogTTL:       constants.CatalogCacheTTL,
		reminderDelay:    constants.DefaultReminderDelayMinutes,
		strategy:         merge.StrategyTypeRemoteWins,
		now:              time.Now,
		autoSyncInterval: constants.DefaultAutoSyncInterval,
	}
}

// apply applies the given options.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithPersistence configures where collections and catalog caches are stored.
// Without it state lives in memory only.
func WithPersistence(p ports.Persistence) Option {
	return func(o *options) error {
		o.persistence = p
		return nil
	}
}

// WithReplication configures the remote replica used by Sync.
func WithReplication(r ports.Replication) Option {
	return func(o *options) error {
		o.replication = r
		return nil
	}
}

// WithReminder configures the development reminder port.
func WithReminder(r ports.Reminder) Option {
	return func(o *options) error {
		o.reminder = r
		return nil
	}
}

// WithCatalogSource configures where the reference catalog is downloaded
// from. A nil source uses only the cache and the embedded defaults.
func WithCatalogSource(s catalog.Source) Option {
	return func(o *options) error {
		o.catalogSource = s
		return nil
	}
}

// WithCatalogTTL configures how long a downloaded catalog is trusted.
func WithCatalogTTL(ttl time.Duration) Option {
	return func(o *options) error {
		if ttl <= 0 {
			return errors.NewValidationError("catalogTTL", ttl, "must be positive")
		}
		o.catalogTTL = ttl
		return nil
	}
}

// WithSync enables replication after local mutations and on Sync.
func WithSync(enabled bool) Option {
	return func(o *options) error {
		o.syncEnabled = enabled
		return nil
	}
}

// WithReminders enables development reminders after each shot.
func WithReminders(enabled bool) Option {
	return func(o *options) error {
		o.remindersEnabled = enabled
		return nil
	}
}

// WithReminderDelay configures the reminder delay in minutes.
func WithReminderDelay(minutes int) Option {
	return func(o *options) error {
		if minutes <= 0 {
			return errors.NewValidationError("reminderDelay", minutes, "must be positive")
		}
		o.reminderDelay = minutes
		return nil
	}
}

// WithIgnoreCompatibility lets any pack load into any camera.
func WithIgnoreCompatibility(ignore bool) Option {
	return func(o *options) error {
		o.ignoreCompatibility = ignore
		return nil
	}
}

// WithMergeStrategy configures how sync resolves items present on both sides.
func WithMergeStrategy(strategy merge.StrategyType) Option {
	return func(o *options) error {
		st, err := merge.ParseStrategyType(string(strategy))
		if err != nil {
			return err
		}
		o.strategy = st
		return nil
	}
}

// WithDeviceID fixes the device id instead of loading or generating one.
func WithDeviceID(id string) Option {
	return func(o *options) error {
		o.deviceID = id
		return nil
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "must not be nil")
		}
		o.now = now
		return nil
	}
}

// WithAutoSync configures whether periodic full syncs run.
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSyncEnabled = enabled
		return nil
	}
}

// WithAutoSyncInterval configures how often periodic full syncs run.
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoSyncInterval = interval
		return nil
	}
}
