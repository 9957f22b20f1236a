package app

import (
	"bytes"
	"strings"
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
		warns    bool
	}{
		{"default level when no flags set", &Config{}, "info", false},
		{"verbose flag sets debug", &Config{Verbose: true}, "debug", false},
		{"quiet flag sets warn", &Config{Quiet: true}, "warn", false},
		{"explicit log-level overrides verbose", &Config{LogLevel: "error", Verbose: true}, "error", false},
		{"explicit log-level overrides quiet", &Config{LogLevel: "trace", Quiet: true}, "trace", false},
		{"conflicting shortcuts use quiet", &Config{Verbose: true, Quiet: true}, "warn", true},
		{"invalid level falls back to info", &Config{LogLevel: "loud"}, "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings bytes.Buffer
			if got := determineLogLevel(tt.config, &warnings); got != tt.expected {
				t.Errorf("determineLogLevel() = %s, want %s", got, tt.expected)
			}
			if warned := strings.Contains(warnings.String(), "Warning"); warned != tt.warns {
				t.Errorf("warning written = %v, want %v (%q)", warned, tt.warns, warnings.String())
			}
		})
	}
}
