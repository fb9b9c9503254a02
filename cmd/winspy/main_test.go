// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/tomtom215/winspy/internal/database"
	"github.com/tomtom215/winspy/internal/testinfra"
)

// 2024-03-10T12:00:00Z and one minute later, as 100ns ticks since 1601.
const transcriptSeed = `
INSERT INTO provider_groups VALUES (1, '{4f50731a-89cf-4782-b3e0-dce8c90476ba}');
` + testinfra.InsertEvent + `
	('s-1', 133545456000000000, '{"data":{"RemainingPercentage":42}}', 'Microsoft.Windows.Kernel.Power.BatteryChargePercentageChange', 10, 1, 1, 'kernel.dll', 'Kernel', NULL),
	('s-1', 133545456600000000, '{"data":{"Class":"usb","Description":"Disk","Service":"USBSTOR","MatchingID":"USB\\VID_1"}}', 'Microsoft.Windows.Inventory.Core.InventoryDevicePnpAdd.v1', 20, 1, 1, 'inv.dll', 'Inventory', NULL),
	(NULL, 133545456600000000, '{}', 'Broken.Row', 30, 1, 1, 'x.dll', 'X', NULL);
`

// isolate runs the test in an empty directory with no WINSPY_* overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, kv := range os.Environ() {
		if key, _, _ := strings.Cut(kv, "="); strings.HasPrefix(key, "WINSPY_") {
			t.Setenv(key, "")
			_ = os.Unsetenv(key)
		}
	}
}

func TestRun_ConsoleAndJSON(t *testing.T) {
	isolate(t)

	store := testinfra.NewTranscript(t, transcriptSeed)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "events.json")
	metricsPath := filepath.Join(dir, "winspy.prom")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-i", store,
		"-o", outPath,
		"--metrics-file", metricsPath,
		"--log-format", "json",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v\nlogs:\n%s", err, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 console lines, got %d:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[0], "2024-03-10T12:00:00Z battery_percentage_change ") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-03-10T12:01:00Z usb_device_added ") {
		t.Errorf("Unexpected second line %q", lines[1])
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	var docs []struct {
		DetectedEvent map[string]interface{} `json:"detected_event"`
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("Output is not a JSON array: %v", err)
	}
	if len(docs) != 2 || docs[0].DetectedEvent["battery_percentage"] != float64(42) {
		t.Errorf("Unexpected JSON output %s", data)
	}

	if !strings.Contains(stderr.String(), "Some rows could not be decoded") {
		t.Errorf("Expected skipped-row summary in logs:\n%s", stderr.String())
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("Metrics file missing: %v", err)
	}
	if !strings.Contains(string(prom), "winspy_records_processed_total") {
		t.Errorf("Metrics textfile lacks records counter")
	}
}

func TestRun_DisableAndNoConsole(t *testing.T) {
	isolate(t)

	store := testinfra.NewTranscript(t, transcriptSeed)
	outPath := filepath.Join(t.TempDir(), "events.json")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-i", store, "-o", outPath, "--no-console", "--disable", "battery"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no console output, got %q", stdout.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("battery_percentage_change")) {
		t.Error("Disabled battery detector still produced events")
	}
	if !bytes.Contains(data, []byte("usb_device_added")) {
		t.Error("Expected USB event in output")
	}
}

func TestRun_LogDir(t *testing.T) {
	isolate(t)

	store := testinfra.NewTranscript(t, transcriptSeed)
	logDir := filepath.Join(t.TempDir(), "logs")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-i", store, "--no-console", "--log-dir", logDir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v\nlogs:\n%s", err, stderr.String())
	}

	files, err := filepath.Glob(filepath.Join(logDir, "winspy.*.log"))
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected one log file in %s, got %v (%v)", logDir, files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Starting winspy", "Detection complete", `"run_id":`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("Expected %q in log file:\n%s", want, data)
		}
	}
	if !strings.Contains(stderr.String(), "Detection complete") {
		t.Error("Log file must not replace stderr output")
	}
}

func TestRun_FailureReachesLogFile(t *testing.T) {
	isolate(t)

	logDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing.db")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-i", missing, "--log-dir", logDir}, &stdout, &stderr)
	if !errors.Is(err, database.ErrStoreNotFound) {
		t.Fatalf("err = %v, want ErrStoreNotFound", err)
	}

	files, _ := filepath.Glob(filepath.Join(logDir, "winspy.*.log"))
	if len(files) != 1 {
		t.Fatalf("Expected one log file, got %v", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("winspy failed")) {
		t.Errorf("Expected failure entry in log file:\n%s", data)
	}
}

func TestRun_Errors(t *testing.T) {
	isolate(t)

	store := testinfra.NewTranscript(t, transcriptSeed)

	tests := []struct {
		name  string
		args  []string
		is    error
		match string
	}{
		{name: "missing input", args: nil, match: "store.path is required"},
		{name: "store not found", args: []string{"-i", filepath.Join(t.TempDir(), "nope.db")}, is: database.ErrStoreNotFound},
		{name: "store is a directory", args: []string{"-i", t.TempDir()}, is: database.ErrStoreNotFile},
		{name: "unknown detector", args: []string{"-i", store, "--disable", "telepathy"}, match: "telepathy"},
		{name: "bad log level", args: []string{"-i", store, "--log-level", "loud"}, match: "logging.level"},
		{name: "bad publish scheme", args: []string{"-i", store, "--publish-url", "http://example.com"}, match: "nats://"},
		{name: "missing config file", args: []string{"-i", store, "--config", "absent.yaml"}, match: "absent.yaml"},
		{name: "extra argument", args: []string{"-i", store, "extra"}, match: "unexpected argument"},
		{name: "help", args: []string{"--help"}, is: pflag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
			if tt.match != "" && !strings.Contains(err.Error(), tt.match) {
				t.Errorf("Expected error containing %q, got %v", tt.match, err)
			}
			if stdout.Len() != 0 {
				t.Errorf("Expected no events on failure, got %q", stdout.String())
			}
		})
	}
}

func TestRun_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping embedded NATS test in short mode")
	}
	isolate(t)

	store := testinfra.NewTranscript(t, transcriptSeed)
	url := testinfra.NewNATSServer(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-i", store, "--publish-url", url, "--no-console", "--log-format", "json"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v\nlogs:\n%s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Published events") {
		t.Errorf("Expected publish log line:\n%s", stderr.String())
	}
}

func TestFlagsOverrides(t *testing.T) {
	f, err := parseFlags([]string{"-i", "a.db", "--disable", "usb,store", "--no-console", "--log-dir", "logs"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	o := f.overrides()
	if o["store.path"] != "a.db" {
		t.Errorf("store.path = %v", o["store.path"])
	}
	if d, ok := o["detection.disabled"].([]string); !ok || len(d) != 2 || d[0] != "usb" || d[1] != "store" {
		t.Errorf("detection.disabled = %v", o["detection.disabled"])
	}
	if o["logging.dir"] != "logs" {
		t.Errorf("logging.dir = %v", o["logging.dir"])
	}
	if o["output.console"] != false {
		t.Errorf("output.console = %v", o["output.console"])
	}
	if _, ok := o["output.path"]; ok {
		t.Error("Unset flags must not override config")
	}
}
