package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, parseTimeFormat("kitchen"))
	assert.Equal(t, time.RFC3339, parseTimeFormat("RFC3339"))
	assert.Equal(t, "", parseTimeFormat("unix"))
	assert.Equal(t, "2006-01-02 15:04", parseTimeFormat("2006-01-02 15:04"))
	assert.Equal(t, time.Kitchen, parseTimeFormat("whenever"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.Empty(t, cfg.Fields)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("INSTANTBOX_LOG_LEVEL", "debug")
		t.Setenv("INSTANTBOX_LOG_FORMAT", "json")
		t.Setenv("INSTANTBOX_LOG_CALLER", "true")
		t.Setenv("INSTANTBOX_LOG_FIELDS", "service=instantbox,env=dev")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "json", cfg.Format)
		assert.True(t, cfg.AddCaller)
		assert.Equal(t, map[string]string{"service": "instantbox", "env": "dev"}, cfg.Fields)
	})

	t.Run("invalid bool", func(t *testing.T) {
		t.Setenv("INSTANTBOX_LOG_CALLER", "sometimes")
		_, err := ConfigFromEnv()
		assert.Error(t, err)
	})
}

func TestNewLoggerFromConfigWritesToFile(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	path := filepath.Join(t.TempDir(), "instantbox.log")
	logger := NewLoggerFromConfig(&Config{
		Level:  "info",
		Format: "json",
		Output: path,
		Fields: map[string]string{"device": "test"},
	})
	logger.Debug().Msg("hidden")
	logger.Info().Msg("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"visible"`)
	assert.Contains(t, string(data), `"device":"test"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestGetWriterDiscard(t *testing.T) {
	w := getWriter(&Config{Output: "discard", Format: "json"})
	n, err := w.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
