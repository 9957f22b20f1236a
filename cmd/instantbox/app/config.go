package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/merge"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "INSTANTBOX"

// MemoryDB selects in-memory persistence instead of a sqlite file.
const MemoryDB = "memory"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Inventory
	DBPath              string
	DeviceID            string
	SyncEnabled         bool
	RemindersEnabled    bool
	ReminderDelay       int
	IgnoreCompatibility bool
	MergeStrategy       string
	AutoSync            bool
	AutoSyncInterval    time.Duration
	CameraSort          string
	PackSort            string

	// Reference catalog
	CatalogBaseURL  string
	CatalogCacheTTL time.Duration

	Replication ReplicationConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// ReplicationConfig selects the remote replica.
type ReplicationConfig struct {
	Driver      string
	PostgresDSN string
	RedisURL    string
	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3Endpoint  string
	S3PathStyle bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (INSTANTBOX_*)
// 3. .env files
// 4. Config file (~/.instantbox.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

// LoadConfigFile is LoadConfig with an explicit config file.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// .env files first so viper sees their variables
	loadEnvFiles()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".instantbox")
		// Missing default config is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DBPath:              expandHome(v.GetString("db_path")),
		DeviceID:            v.GetString("device_id"),
		SyncEnabled:         v.GetBool("sync_enabled"),
		RemindersEnabled:    v.GetBool("reminders_enabled"),
		ReminderDelay:       v.GetInt("reminder_delay"),
		IgnoreCompatibility: v.GetBool("ignore_compatibility"),
		MergeStrategy:       v.GetString("merge_strategy"),
		AutoSync:            v.GetBool("auto_sync"),
		AutoSyncInterval:    v.GetDuration("auto_sync_interval"),
		CameraSort:          v.GetString("camera_sort"),
		PackSort:            v.GetString("pack_sort"),

		CatalogBaseURL:  v.GetString("catalog.base_url"),
		CatalogCacheTTL: v.GetDuration("catalog.cache_ttl"),

		Replication: ReplicationConfig{
			Driver:      v.GetString("replication.driver"),
			PostgresDSN: v.GetString("replication.postgres_dsn"),
			RedisURL:    v.GetString("replication.redis_url"),
			S3Bucket:    v.GetString("replication.s3.bucket"),
			S3Region:    v.GetString("replication.s3.region"),
			S3Prefix:    v.GetString("replication.s3.prefix"),
			S3Endpoint:  v.GetString("replication.s3.endpoint"),
			S3PathStyle: v.GetBool("replication.s3.path_style"),
		},

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", filepath.Join(constants.DefaultDataDir, constants.DefaultDatabaseFile))
	v.SetDefault("reminder_delay", constants.DefaultReminderDelayMinutes)
	v.SetDefault("merge_strategy", string(merge.StrategyTypeRemoteWins))
	v.SetDefault("auto_sync_interval", constants.DefaultAutoSyncInterval)
	v.SetDefault("camera_sort", "date-added")
	v.SetDefault("pack_sort", "stable")
	v.SetDefault("catalog.cache_ttl", constants.CatalogCacheTTL)
	v.SetDefault("replication.driver", "none")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, dbPath string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if dbPath != "" {
		c.DBPath = expandHome(dbPath)
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
