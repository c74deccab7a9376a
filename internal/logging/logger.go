// Package logging builds the zerolog loggers used across wikigames.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config configures structured logging.
type Config struct {
	// Level sets the minimum level (trace, debug, info, warn, error).
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "console" for human output or "json".
	Format string `mapstructure:"format" yaml:"format"`

	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig logs warnings and above to stderr in console format.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console", Output: "stderr"}
}

// New creates a logger from cfg. The returned closer releases the output
// file when Output names one; it is a no-op otherwise.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	var (
		writer io.Writer
		closer = noop
	)
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("opening log output: %w", err)
		}
		writer, closer = f, f.Close
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		closer()
		return zerolog.Nop(), noop, err
	}

	return NewWithWriter(writer, cfg.Format, level), closer, nil
}

// NewWithWriter creates a logger writing to w at the given level.
func NewWithWriter(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
