// Package logging configures the process-wide slog logger. Activations
// write JSON lines to a file under the store; stdout is reserved for hook
// output, so the fallback is stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/mci-memory/mci/internal/config"
)

// Logger wraps the configured slog logger and the file behind it
type Logger struct {
	*slog.Logger
	// Activation identifies every line written by this process
	Activation string
	Path       string // empty when logging to stderr
	file       *os.File
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup opens the log file relative to base and installs the logger as the
// slog default. If the file cannot be opened it falls back to stderr and
// returns the error alongside a usable logger.
func Setup(cfg config.LogConfig, base string) (*Logger, error) {
	l := &Logger{Activation: ulid.Make().String()}

	var w io.Writer = os.Stderr
	var openErr error

	path := cfg.File
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	if path != "" {
		f, err := openLogFile(path)
		if err != nil {
			openErr = err
		} else {
			w = f
			l.file = f
			l.Path = path
		}
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	l.Logger = slog.New(handler).With("activation", l.Activation)
	slog.SetDefault(l.Logger)

	if openErr != nil {
		l.Warn("file logging unavailable, using stderr", "error", openErr)
	}
	return l, openErr
}

// Event returns a child logger tagged with an activation event name
func (l *Logger) Event(name string) *slog.Logger {
	return l.With("event", name)
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
