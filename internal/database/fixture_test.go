// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"testing"

	"github.com/tomtom215/winspy/internal/testinfra"
)

// baseEvent is the column list tests use when inserting into events_persisted.
const baseEvent = testinfra.InsertEvent

// newTranscript creates a seeded EventTranscript.db and returns its path.
func newTranscript(t *testing.T, seed string) string {
	t.Helper()
	return testinfra.NewTranscript(t, seed)
}

// openTranscript opens a fixture and closes it at test end.
func openTranscript(t *testing.T, seed string) *Reader {
	t.Helper()

	r, err := Open(newTranscript(t, seed))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}
