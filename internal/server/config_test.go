package server

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 8080 || cfg.PathPrefix != "/api/v1" || cfg.CacheTTL != 5*time.Minute {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("INSTANTBOX_SERVER_PORT", "9090")
	t.Setenv("INSTANTBOX_SERVER_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("INSTANTBOX_SERVER_RATE_LIMIT", "0")
	t.Setenv("INSTANTBOX_SERVER_READ_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %d, want 0", cfg.RateLimit)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", cfg.ReadTimeout)
	}
	if cfg.Addr() != "localhost:9090" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadConfig_AuthNeedsSecret(t *testing.T) {
	t.Setenv("INSTANTBOX_SERVER_AUTH_ENABLED", "true")
	t.Setenv("INSTANTBOX_SERVER_AUTH_SECRET", "short")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for short auth secret")
	}
}
