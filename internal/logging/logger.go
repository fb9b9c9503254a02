// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFilePrefix names log files when Config.FilePrefix is empty.
const DefaultFilePrefix = "winspy"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format of the Output stream: json or console. The log file is always JSON.
	// Default: json
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Timestamp adds the entry time.
	Timestamp bool

	// Output receives every entry.
	// Default: os.Stderr (stdout carries detected events)
	Output io.Writer

	// Dir, when set, also appends entries to <Dir>/<FilePrefix>.<YYYY-MM-DD>.log.
	Dir string

	// FilePrefix is the log file name prefix. Default: winspy
	FilePrefix string
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var (
	mu     sync.RWMutex
	log    zerolog.Logger
	active Config
	// file is the open log file; nil unless Config.Dir was set.
	file *os.File

	// now dates the log file name.
	now = time.Now
)

//nolint:gochecknoinits // logging works before Init is called
func init() {
	active = withDefaults(DefaultConfig())
	log = build(active, nil)
}

// Init reconfigures the global logger. A log file left open by an earlier
// Init is closed once the new configuration is in place.
func Init(cfg Config) error {
	cfg = withDefaults(cfg)

	var f *os.File
	if cfg.Dir != "" {
		var err error
		if f, err = openLogFile(cfg.Dir, cfg.FilePrefix, now()); err != nil {
			return err
		}
	}

	mu.Lock()
	prev := file
	active, file = cfg, f
	log = build(cfg, f)
	mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			return fmt.Errorf("close previous log file: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the log file. Later entries go to Output only.
// It is a no-op when no file is open.
func Close() error {
	mu.Lock()
	f := file
	file = nil
	log = build(active, nil)
	mu.Unlock()

	if f == nil {
		return nil
	}
	return errors.Join(f.Sync(), f.Close())
}

// FilePath returns the path of the open log file, or "" when there is none.
func FilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	if file == nil {
		return ""
	}
	return file.Name()
}

func withDefaults(cfg Config) Config {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = DefaultFilePrefix
	}
	return cfg
}

// build assembles a logger for cfg. It also sets the process-wide level.
func build(cfg Config, f *os.File) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}
	if f != nil {
		out = zerolog.MultiLevelWriter(out, f)
	}

	c := zerolog.New(out).With()
	if cfg.Timestamp {
		c = c.Timestamp()
	}
	if cfg.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

func logFileName(prefix string, t time.Time) string {
	return prefix + "." + t.Format(time.DateOnly) + ".log"
}

func openLogFile(dir, prefix string, t time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, logFileName(prefix, t))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// parseLevel maps a level name to zerolog. Unknown names mean info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger { return *current() }

// SetLogger replaces the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// With starts a child logger context.
func With() zerolog.Context { return current().With() }

func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info entry.
//
//	logging.Info().Str("path", path).Msg("Opened event transcript")
func Info() *zerolog.Event { return current().Info() }

func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }

// WithComponent returns a child logger tagged with component.
//
//	logger := logging.WithComponent("database")
//	logger.Info().Msg("Loading events")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

// NewTestLogger returns a JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
