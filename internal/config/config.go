// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package config

import "time"

// Config holds all runtime configuration for a winspy run.
//
// Configuration is loaded via Koanf v2 with layered sources (lowest to highest
// precedence): built-in defaults, an optional YAML file, WINSPY_* environment
// variables, and finally command line flags.
//
// Config is immutable after Load().
type Config struct {
	Store     StoreConfig     `koanf:"store"`
	Output    OutputConfig    `koanf:"output"`
	Publish   PublishConfig   `koanf:"publish"` // Optional: forward events to NATS
	Detection DetectionConfig `koanf:"detection"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// StoreConfig locates the event transcript database.
//
// Environment Variables:
//   - WINSPY_STORE_PATH: path to EventTranscript.db
type StoreConfig struct {
	// Path to the SQLite store. Opened read-only.
	// Typically C:\ProgramData\Microsoft\Diagnosis\EventTranscript\EventTranscript.db
	Path string `koanf:"path" validate:"required"`
}

// OutputConfig controls where detected events are written.
//
// Environment Variables:
//   - WINSPY_OUTPUT_PATH: write all events to this file as one JSON array
//   - WINSPY_OUTPUT_INDENT: pretty-print the JSON document (default: true)
//   - WINSPY_OUTPUT_CONSOLE: print one line per event to stdout (default: true)
type OutputConfig struct {
	Path    string `koanf:"path"`
	Indent  bool   `koanf:"indent"`
	Console bool   `koanf:"console"`
}

// PublishConfig configures the optional NATS publisher.
// Publishing is enabled when URL is set.
//
// Environment Variables:
//   - WINSPY_PUBLISH_URL: NATS server URL, e.g. nats://127.0.0.1:4222
//   - WINSPY_PUBLISH_TOPIC: subject events are published on (default: winspy.events)
//   - WINSPY_PUBLISH_BREAKER_MAX_FAILURES: consecutive failures before the breaker opens
//   - WINSPY_PUBLISH_BREAKER_TIMEOUT: how long the breaker stays open
type PublishConfig struct {
	URL                string        `koanf:"url" validate:"omitempty,url"`
	Topic              string        `koanf:"topic" validate:"required"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"min=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// Enabled reports whether events should be published.
func (p PublishConfig) Enabled() bool {
	return p.URL != ""
}

// DetectionConfig selects which detectors and correlators run.
//
// Environment Variables:
//   - WINSPY_DETECTION_DISABLED: comma-separated detector names, e.g. "usb,store"
type DetectionConfig struct {
	Disabled []string `koanf:"disabled"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - WINSPY_LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - WINSPY_LOG_FORMAT: json, console (default: console)
//   - WINSPY_LOG_CALLER: true/false - include caller file:line (default: false)
//   - WINSPY_LOG_DIR: also append JSON logs to a dated file in this directory
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`

	// Dir receives winspy.<YYYY-MM-DD>.log when set. Empty logs to stderr only.
	Dir string `koanf:"dir"`
}

// MetricsConfig controls the Prometheus textfile dump written at exit.
//
// Environment Variables:
//   - WINSPY_METRICS_FILE: destination path; empty disables the dump
type MetricsConfig struct {
	TextfilePath string `koanf:"textfile_path"`
}
