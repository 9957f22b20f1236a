// Package logging provides structured logging for instantbox using zerolog.
// Console output is used when stderr is a terminal and JSON everywhere else,
// so the CLI stays readable while the server and background sync produce
// machine-parseable events.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("camera_id", cam.ID).Msg("Camera added")
//
//	ctx := logging.WithCamera(context.Background(), cam.ID)
//	logging.FromContext(ctx).Debug().Msg("Loading film")
package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs the package level event functions and FromContext.
var defaultLogger zerolog.Logger

func init() {
	cfg, err := ConfigFromEnv()
	if err != nil {
		cfg = DefaultConfig()
	}
	defaultLogger = NewLoggerFromConfig(cfg)
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a JSON logger on w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// Debug starts a new debug level log event.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts a new info level log event.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a new warning level log event.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts a new error level log event.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}
