package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/instantbox/pkg/logging"
)

func TestLoggerFunctions(t *testing.T) {
	originalLogger := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(originalLogger)
		zerolog.SetGlobalLevel(originalLevel)
	})

	t.Run("SetDefault routes package level events", func(t *testing.T) {
		var buf bytes.Buffer
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logging.SetDefault(zerolog.New(&buf).Level(zerolog.DebugLevel))

		logging.Debug().Msg("debug")
		logging.Info().Msg("info")
		logging.Warn().Msg("warn")
		logging.Error().Msg("error")

		output := buf.String()
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assert.Contains(t, output, `"level":"`+level+`"`)
		}
	})

	t.Run("New writes JSON", func(t *testing.T) {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		var buf bytes.Buffer
		logger := logging.New(&buf)
		logger.Info().Msg("json test")

		assert.Contains(t, buf.String(), `"message":"json test"`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithCamera(ctx, "cam-1")
	ctx = logging.WithFilmPack(ctx, "pack-1")
	ctx = logging.WithCollection(ctx, "filmPacks")
	ctx = logging.WithOperation(ctx, "load")

	logging.FromContext(ctx).Info().Msg("film loaded")

	testLogger.AssertContains(t, `"camera_id":"cam-1"`)
	testLogger.AssertContains(t, `"pack_id":"pack-1"`)
	testLogger.AssertContains(t, `"collection":"filmPacks"`)
	testLogger.AssertContains(t, `"operation":"load"`)
	testLogger.AssertCount(t, 1)
}

func TestRequestID(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRequestID(ctx, "req-42")

	assert.Equal(t, "req-42", logging.RequestID(ctx))
	assert.Empty(t, logging.RequestID(context.Background()))

	logging.Ctx(ctx).Info().Msg("handled")
	testLogger.AssertContains(t, `"request_id":"req-42"`)
}

func TestWithError(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	assert.Equal(t, ctx, logging.WithError(ctx, nil))

	ctx = logging.WithError(ctx, assert.AnError)
	logging.FromContext(ctx).Warn().Msg("retrying")
	testLogger.AssertContains(t, assert.AnError.Error())
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
}
