package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	goisatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox/pkg/constants"
)

// EnvPrefix prefixes the environment variables read by ConfigFromEnv.
const EnvPrefix = "INSTANTBOX_LOG_"

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level to output
	Level string `env:"LEVEL" envDefault:"info"`

	// Format is json, console or auto (console on a terminal)
	Format string `env:"FORMAT" envDefault:"auto"`

	// Output is stderr, stdout, discard or a file path
	Output string `env:"OUTPUT" envDefault:"stderr"`

	// TimeFormat for console timestamps: kitchen, rfc3339, unix or a Go layout
	TimeFormat string `env:"TIME_FORMAT" envDefault:"kitchen"`

	NoColor   bool `env:"NO_COLOR"`
	AddCaller bool `env:"CALLER"`

	// Fields are attached to every event, e.g. "device=kitchen,env=dev"
	Fields map[string]string `env:"FIELDS" envKeyValSeparator:"="`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// ConfigFromEnv reads INSTANTBOX_LOG_* variables over the defaults. The
// conventional NO_COLOR variable is honored too.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, err
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg, nil
}

// NewLoggerFromConfig creates a new logger from configuration.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logCtx := zerolog.New(getWriter(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}
	for k, v := range cfg.Fields {
		logCtx = logCtx.Str(k, v)
	}
	return logCtx.Logger()
}

// Configure replaces the default logger.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// ConfigureFromEnv replaces the default logger with one configured from the
// environment, keeping the current logger when the environment is invalid.
func ConfigureFromEnv() error {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return err
	}
	Configure(cfg)
	return nil
}

// getWriter opens the output and wraps it in a console writer when the
// format asks for one.
func getWriter(cfg *Config) io.Writer {
	var output io.Writer
	terminal := false

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
		terminal = isatty(os.Stdout)
	case "", "stderr":
		output = os.Stderr
		terminal = isatty(os.Stderr)
	case "discard", "none":
		output = io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			output = os.Stderr
			terminal = isatty(os.Stderr)
		} else {
			output = file
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if terminal {
			format = "console"
		}
	}
	if format != "console" && format != "pretty" {
		return output
	}
	return zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: parseTimeFormat(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

func isatty(f *os.File) bool {
	return goisatty.IsTerminal(f.Fd()) || goisatty.IsCygwinTerminal(f.Fd())
}

var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"disabled": zerolog.Disabled,
	"none":     zerolog.Disabled,
	"off":      zerolog.Disabled,
}

// parseLevel maps a level name to a zerolog level; unknown names mean info.
func parseLevel(level string) zerolog.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return zerolog.InfoLevel
}

var timeFormats = map[string]string{
	"kitchen":     time.Kitchen,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"stamp":       time.Stamp,
	"unix":        "",
	"epoch":       "",
}

func parseTimeFormat(format string) string {
	if f, ok := timeFormats[strings.ToLower(format)]; ok {
		return f
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}
