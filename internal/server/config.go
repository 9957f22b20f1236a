package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every server environment variable.
const EnvPrefix = "INSTANTBOX_SERVER_"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"8080"`

	// API settings
	PathPrefix string `env:"PATH_PREFIX" envDefault:"/api/v1"`

	// CORS settings
	CORSEnabled bool     `env:"CORS_ENABLED" envDefault:"false"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Authentication settings
	AuthEnabled bool          `env:"AUTH_ENABLED" envDefault:"false"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	AuthIssuer  string        `env:"AUTH_ISSUER" envDefault:"instantbox"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Performance settings
	RateLimit int           `env:"RATE_LIMIT" envDefault:"100"` // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// HTTP timeouts
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`

	// Features
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		CORSOrigins:    []string{},
		AuthIssuer:     "instantbox",
		TokenTTL:       24 * time.Hour,
		RateLimit:      100,
		CacheTTL:       5 * time.Minute,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}

// LoadConfig parses INSTANTBOX_SERVER_* environment variables over the
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server config: port %d out of range", c.Port)
	}
	if c.AuthEnabled && len(c.AuthSecret) < 16 {
		return fmt.Errorf("server config: auth secret must be at least 16 bytes when auth is enabled")
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
