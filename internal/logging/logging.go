// Package logging configures the charmbracelet logger. The terminal
// belongs to the TUI, so everything goes to a file.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pathgrip/internal/config"
)

// New creates a text logger writing to w
func New(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
}

// DefaultFile is the log location used when none is configured
func DefaultFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pathgrip", "pathgrip.log")
}

// Setup opens the configured log file and installs a logger on it as the
// package default. debug forces the debug level. The returned closer
// releases the file.
func Setup(settings config.LogSettings, debug bool) (io.Closer, error) {
	level := log.InfoLevel
	if settings.Level != "" {
		parsed, err := log.ParseLevel(settings.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if debug {
		level = log.DebugLevel
	}

	path := settings.File
	if path == "" {
		path = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetDefault(New(f, "pathgrip", level))
	// libraries using the standard logger must not write to the terminal either
	stdlog.SetOutput(f)

	return f, nil
}

// Discard silences the default logger
func Discard() {
	log.SetDefault(New(io.Discard, "", log.FatalLevel))
}
