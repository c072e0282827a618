// Package logging provides the process-wide structured logger.
//
// Messages take key-value pairs after the message:
//
//	logging.Info("upstream call", "endpoint", "search.php", "status", 200)
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Config holds logging configuration
type Config struct {
	Level      string
	TimeFormat string
	ShowCaller bool
	Output     io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		TimeFormat: "15:04:05",
		ShowCaller: false,
		Output:     os.Stderr,
	}
}

var (
	mu     sync.RWMutex
	logger = newLogger(DefaultConfig(), log.InfoLevel)
)

// ParseLevel maps a level name (debug, info, warn, error) to a log level.
func ParseLevel(s string) (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// Init replaces the global logger. It is meant to be called once at startup.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	l := newLogger(cfg, lvl)

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

func newLogger(cfg *Config, lvl log.Level) *log.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		ReportCaller:    cfg.ShowCaller,
		CallerOffset:    1, // skip the package-level wrapper
		Level:           lvl,
	})
}

// Logger returns the current global logger, e.g. to derive a sub-logger with With.
func Logger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level
func Debug(msg string, keyvals ...any) {
	Logger().Debug(msg, keyvals...)
}

// Info logs at info level
func Info(msg string, keyvals ...any) {
	Logger().Info(msg, keyvals...)
}

// Warn logs at warn level
func Warn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}

// Error logs at error level
func Error(msg string, keyvals ...any) {
	Logger().Error(msg, keyvals...)
}
