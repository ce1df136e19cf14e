package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config is the subset of server settings the logger needs.
type Config struct {
	Level  string // debug, info, warn or error
	Format string // json or text
}

// ParseLevel converts a configured level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewHandler builds the handler for the configured format writing to out.
func NewHandler(out io.Writer, cfg Config) (slog.Handler, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}), nil
	case "text":
		return tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		}), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

// Setup creates the application logger on stdout and installs it as the
// slog default so package-level slog calls share its handler.
func Setup(cfg Config) (*slog.Logger, error) {
	handler, err := NewHandler(os.Stdout, cfg)
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l, nil
}
