// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTableLoad(t *testing.T) {
	beforeRead := testutil.ToFloat64(StoreRowsRead.WithLabelValues("test_table_load"))
	beforeSkipped := testutil.ToFloat64(StoreRowsSkipped.WithLabelValues("test_table_load"))

	RecordTableLoad("test_table_load", 10, 2, 5*time.Millisecond)
	RecordTableLoad("test_table_load", 3, 0, time.Millisecond)

	if got := testutil.ToFloat64(StoreRowsRead.WithLabelValues("test_table_load")) - beforeRead; got != 13 {
		t.Errorf("rows read delta = %v, want 13", got)
	}
	if got := testutil.ToFloat64(StoreRowsSkipped.WithLabelValues("test_table_load")) - beforeSkipped; got != 2 {
		t.Errorf("rows skipped delta = %v, want 2", got)
	}
}

func TestRecordDetection(t *testing.T) {
	tests := []struct {
		name       string
		produced   int
		wantChecks float64
		wantEvents float64
	}{
		{name: "no event", produced: 0, wantChecks: 1, wantEvents: 0},
		{name: "one event", produced: 1, wantChecks: 1, wantEvents: 1},
		{name: "flush output", produced: 3, wantChecks: 1, wantEvents: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := "test_" + strings.ReplaceAll(tt.name, " ", "_")
			checks := testutil.ToFloat64(DetectorChecks.WithLabelValues(label))
			events := testutil.ToFloat64(DetectorEvents.WithLabelValues(label))

			RecordDetection(label, tt.produced)

			if got := testutil.ToFloat64(DetectorChecks.WithLabelValues(label)) - checks; got != tt.wantChecks {
				t.Errorf("checks delta = %v, want %v", got, tt.wantChecks)
			}
			if got := testutil.ToFloat64(DetectorEvents.WithLabelValues(label)) - events; got != tt.wantEvents {
				t.Errorf("events delta = %v, want %v", got, tt.wantEvents)
			}
		})
	}
}

func TestRecordPublish(t *testing.T) {
	ok := testutil.ToFloat64(EventsPublished.WithLabelValues("test.topic"))
	failed := testutil.ToFloat64(PublishErrors.WithLabelValues("test.topic"))

	RecordPublish("test.topic", nil)
	RecordPublish("test.topic", errors.New("nats: no responders"))

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("test.topic")) - ok; got != 1 {
		t.Errorf("published delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(PublishErrors.WithLabelValues("test.topic")) - failed; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	RecordBreakerTransition("test-breaker", "closed", "open", 2)

	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-breaker")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordsProcessed.Inc()

	path := filepath.Join(t.TempDir(), "winspy.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "winspy_records_processed_total") {
		t.Errorf("textfile missing records counter:\n%s", data)
	}
}
