// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// chdirTemp moves the test into an empty directory so no winspy.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Store.Path != "" {
		t.Errorf("Store.Path should be empty by default, got %q", cfg.Store.Path)
	}
	if !cfg.Output.Console || !cfg.Output.Indent {
		t.Error("console output and indentation should be on by default")
	}
	if cfg.Publish.Enabled() {
		t.Error("publishing should be disabled by default")
	}
	if cfg.Publish.Topic != "winspy.events" {
		t.Errorf("Publish.Topic = %q, want winspy.events", cfg.Publish.Topic)
	}
	if cfg.Publish.BreakerTimeout != 30*time.Second {
		t.Errorf("Publish.BreakerTimeout = %v, want 30s", cfg.Publish.BreakerTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
		"store.path":         "EventTranscript.db",
		"detection.disabled": []string{"usb"},
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "EventTranscript.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if !reflect.DeepEqual(cfg.Detection.Disabled, []string{"usb"}) {
		t.Errorf("Detection.Disabled = %v", cfg.Detection.Disabled)
	}
}

func TestLoad_MissingStorePath(t *testing.T) {
	chdirTemp(t)

	_, err := Load(LoadOptions{})
	if err == nil {
		t.Fatal("expected error without store path")
	}
	if !strings.Contains(err.Error(), "store.path is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	chdirTemp(t)

	t.Setenv("WINSPY_STORE_PATH", "/tmp/et.db")
	t.Setenv("WINSPY_LOG_LEVEL", "debug")
	t.Setenv("WINSPY_DETECTION_DISABLED", "usb, store ,")
	t.Setenv("WINSPY_PUBLISH_URL", "nats://127.0.0.1:4222")
	t.Setenv("WINSPY_PUBLISH_BREAKER_TIMEOUT", "5s")
	t.Setenv("WINSPY_UNRELATED", "ignored")

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/et.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if !reflect.DeepEqual(cfg.Detection.Disabled, []string{"usb", "store"}) {
		t.Errorf("Detection.Disabled = %v", cfg.Detection.Disabled)
	}
	if !cfg.Publish.Enabled() {
		t.Error("expected publishing to be enabled")
	}
	if cfg.Publish.BreakerTimeout != 5*time.Second {
		t.Errorf("Publish.BreakerTimeout = %v", cfg.Publish.BreakerTimeout)
	}
}

func TestLoad_FlagsBeatEnvironment(t *testing.T) {
	chdirTemp(t)

	t.Setenv("WINSPY_STORE_PATH", "/from/env.db")

	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{"store.path": "/from/flag.db"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/from/flag.db" {
		t.Errorf("Store.Path = %q, want flag value", cfg.Store.Path)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `store:
  path: /data/EventTranscript.db
output:
  path: out.json
  console: false
detection:
  disabled:
    - battery
logging:
  format: json
`
	if err := os.WriteFile(filepath.Join(dir, "winspy.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/data/EventTranscript.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Output.Console {
		t.Error("Output.Console should be false from file")
	}
	if cfg.Output.Path != "out.json" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
	if !reflect.DeepEqual(cfg.Detection.Disabled, []string{"battery"}) {
		t.Errorf("Detection.Disabled = %v", cfg.Detection.Disabled)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoad_ExplicitConfigMustExist(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(LoadOptions{ConfigPath: filepath.Join(dir, "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults with store",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level must be one of",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format must be one of",
		},
		{
			name:    "non nats url",
			mutate:  func(c *Config) { c.Publish.URL = "http://localhost:4222" },
			wantErr: "nats:// or tls://",
		},
		{
			name:    "malformed url",
			mutate:  func(c *Config) { c.Publish.URL = "not a url" },
			wantErr: "publish.url must be a valid URL",
		},
		{
			name: "wildcard topic",
			mutate: func(c *Config) {
				c.Publish.URL = "nats://localhost:4222"
				c.Publish.Topic = "winspy.>"
			},
			wantErr: "literal NATS subject",
		},
		{
			name:    "zero breaker failures",
			mutate:  func(c *Config) { c.Publish.BreakerMaxFailures = 0 },
			wantErr: "publish.breaker_max_failures must be at least 1",
		},
		{
			name: "no sink",
			mutate: func(c *Config) {
				c.Output.Console = false
				c.Output.Path = ""
			},
			wantErr: "no output configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Store.Path = "EventTranscript.db"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"WINSPY_STORE_PATH":         "store.path",
		"WINSPY_LOG_FORMAT":         "logging.format",
		"WINSPY_LOG_DIR":            "logging.dir",
		"WINSPY_METRICS_FILE":       "metrics.textfile_path",
		"WINSPY_DETECTION_DISABLED": "detection.disabled",
		"WINSPY_CONFIG":             "",
		"WINSPY_SOMETHING":          "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigPath(t *testing.T) {
	tests := map[string]string{
		"Config.Logging.Level":              "logging.level",
		"Config.Publish.URL":                "publish.url",
		"Config.Publish.BreakerMaxFailures": "publish.breaker_max_failures",
		"Config.Metrics.TextfilePath":       "metrics.textfile_path",
	}
	for in, want := range tests {
		if got := configPath(in); got != want {
			t.Errorf("configPath(%q) = %q, want %q", in, got, want)
		}
	}
}
