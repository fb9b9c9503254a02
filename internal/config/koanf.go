// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"winspy.yaml",
	"winspy.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "WINSPY_CONFIG"

// envPrefix is the prefix every winspy environment variable shares.
const envPrefix = "WINSPY_"

// LoadOptions carries the inputs that come from the command line.
type LoadOptions struct {
	// ConfigPath is an explicit config file. When set it must exist.
	ConfigPath string

	// Overrides are koanf paths (e.g. "store.path") set from flags.
	// They take precedence over every other source.
	Overrides map[string]interface{}
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "",
		},
		Output: OutputConfig{
			Path:    "",
			Indent:  true,
			Console: true,
		},
		Publish: PublishConfig{
			URL:                "", // Publishing disabled by default
			Topic:              "winspy.events",
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Detection: DetectionConfig{
			Disabled: []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		Metrics: MetricsConfig{
			TextfilePath: "",
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: WINSPY_* overrides
//  4. Overrides: values from command line flags
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless named explicitly)
	configPath, err := resolveConfigFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Layer 4: Command line overrides
	for path, val := range opts.Overrides {
		if err := k.Set(path, val); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// resolveConfigFile picks the config file to load.
// An explicit path must exist; the env var and default paths are optional.
func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"detection.disabled",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			// Missing, or already a slice from YAML or flags
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - WINSPY_STORE_PATH -> store.path
//   - WINSPY_LOG_LEVEL -> logging.level
//   - WINSPY_DETECTION_DISABLED -> detection.disabled
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		"store_path": "store.path",

		"output_path":    "output.path",
		"output_indent":  "output.indent",
		"output_console": "output.console",

		"publish_url":                  "publish.url",
		"publish_topic":                "publish.topic",
		"publish_breaker_max_failures": "publish.breaker_max_failures",
		"publish_breaker_timeout":      "publish.breaker_timeout",

		"detection_disabled": "detection.disabled",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
		"log_dir":    "logging.dir",

		"metrics_file": "metrics.textfile_path",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys (including WINSPY_CONFIG) are skipped
	return ""
}
