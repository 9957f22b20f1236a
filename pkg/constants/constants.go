// Package constants provides shared constants used throughout the instantbox codebase.
// This includes timeouts, intervals, file permissions, inventory defaults and the
// reference catalog endpoints that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for reference catalog downloads
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// SyncContextTimeout is the timeout for each background merge pass
	SyncContextTimeout = 2 * time.Minute

	// DefaultAutoSyncInterval is the default interval between automatic full syncs
	DefaultAutoSyncInterval = 15 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// PingTimeout bounds connectivity checks against remote replicas
	PingTimeout = 2 * time.Second

	// ShutdownTimeout is how long graceful shutdown may take
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Cache constants
const (
	// CompatibilityCacheTTL is how long a compatibility answer stays memoized
	CompatibilityCacheTTL = 1 * time.Second

	// CompatibilityCacheCleanup is how often expired compatibility entries are purged
	CompatibilityCacheCleanup = 10 * time.Second

	// CatalogCacheTTL is how long a downloaded reference catalog is trusted
	CatalogCacheTTL = 7 * 24 * time.Hour
)

// Inventory defaults
const (
	// DefaultCameraCapacity is used when a camera model has no catalog entry
	DefaultCameraCapacity = 8

	// DefaultPackCapacity is used when a film type has no catalog entry
	DefaultPackCapacity = 8

	// DefaultCameraIcon is the image and icon used when a camera model has no catalog entry
	DefaultCameraIcon = "camera.fill"

	// ExpiringSoonDays is the window in which a pack counts as expiring soon
	ExpiringSoonDays = 30

	// DefaultExpiryYears is the suggested shelf life of a freshly bought pack
	DefaultExpiryYears = 2

	// DefaultReminderDelayMinutes is the development reminder delay after a shot
	DefaultReminderDelayMinutes = 15

	// ReminderIDPrefix prefixes reminder identifiers, followed by the pack id
	ReminderIDPrefix = "development_reminder_"
)

// Reference catalog endpoints
const (
	// CatalogBaseURL hosts the published reference catalog documents
	CatalogBaseURL = "https://edoardogalati.github.io/MyPolaroids/"

	// CameraModelsDocument is the camera model catalog document name
	CameraModelsDocument = "camera_models.json"

	// FilmPackModelsDocument is the film pack type and model catalog document name
	FilmPackModelsDocument = "film_pack_models.json"
)

// Path constants
const (
	// DefaultDataDir is the default directory for local state
	DefaultDataDir = "~/.instantbox"

	// DefaultDatabaseFile is the sqlite file name inside the data directory
	DefaultDatabaseFile = "instantbox.db"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// DateFormat is the calendar date format used for purchase and expiry dates
	DateFormat = "2006-01-02"

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006"
)
