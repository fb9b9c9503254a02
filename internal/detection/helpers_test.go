// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/winspy/internal/models"
)

var testTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// newRecord builds a record whose payload is parsed the way the reader parses it.
func newRecord(t *testing.T, name, payload string) *models.Record {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("bad test payload %q: %v", payload, err)
	}

	return &models.Record{
		DeviceID:  "s-1-5-21",
		Timestamp: testTime,
		EventName: name,
		Payload:   models.ParsedPayload(v),
	}
}

// emptyView is a ReferenceView with nothing in it.
var emptyView ReferenceView = NewReferences(nil, nil, nil)

// single asserts exactly one event and returns its detected variant.
func single(t *testing.T, events []ProcessedEvent) DetectedEvent {
	t.Helper()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	return events[0].Event
}
