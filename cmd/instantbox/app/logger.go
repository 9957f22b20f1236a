package app

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox/pkg/logging"
)

// logLevels are the levels accepted by --log-level and LOG_LEVEL.
var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger creates a configured logger based on the application configuration.
// Level precedence: --log-level, then -v/-q, then LOG_LEVEL, then info.
func NewLogger(config *Config) zerolog.Logger {
	return newLogger(config, os.Stderr)
}

func newLogger(config *Config, warnings io.Writer) zerolog.Logger {
	level := determineLogLevel(config, warnings)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      level,
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor,
		AddCaller:  level == "debug" || level == "trace",
	})
}

// determineLogLevel resolves the level, reporting invalid or conflicting
// input to warnings.
func determineLogLevel(config *Config, warnings io.Writer) string {
	switch {
	case config.LogLevel != "":
		if slices.Contains(logLevels, config.LogLevel) {
			return config.LogLevel
		}
		fmt.Fprintf(warnings, "Warning: invalid log level %q, using \"info\"\n", config.LogLevel)
		return "info"
	case config.Verbose && config.Quiet:
		fmt.Fprintln(warnings, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	default:
		return "info"
	}
}
