// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package testinfra

import (
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// TranscriptSchema mirrors the EventTranscript.db tables the reader touches.
// No column is an INTEGER PRIMARY KEY so seeds can insert NULLs and values
// of the wrong storage class.
const TranscriptSchema = `
CREATE TABLE producers (producer_id INTEGER, producer_id_text TEXT);
CREATE TABLE categories (category_id INTEGER, producer_id INTEGER, category_id_text TEXT);
CREATE TABLE tag_descriptions (tag_id INTEGER, locale_name TEXT, tag_name TEXT, description TEXT);
CREATE TABLE provider_groups (group_id INTEGER, group_guid TEXT);
CREATE TABLE events_persisted (
	sid TEXT,
	timestamp INTEGER,
	payload TEXT,
	full_event_name TEXT,
	full_event_name_hash INTEGER,
	event_keywords INTEGER,
	is_core INTEGER,
	provider_group_id INTEGER,
	logging_binary_name TEXT,
	friendly_logging_binary_name TEXT,
	compressed_payload_size INTEGER,
	producer_id INTEGER,
	extra1 TEXT,
	extra2 TEXT,
	extra3 TEXT
);
CREATE TABLE event_categories (full_event_name_hash INTEGER, category_id INTEGER);
CREATE TABLE event_tags (full_event_name_hash INTEGER, tag_id INTEGER);
`

// InsertEvent is the column prefix seeds use for events_persisted rows:
// sid, timestamp, payload, full_event_name, full_event_name_hash, is_core,
// provider_group_id, logging_binary_name, friendly_logging_binary_name,
// producer_id.
const InsertEvent = `INSERT INTO events_persisted
	(sid, timestamp, payload, full_event_name, full_event_name_hash, is_core,
	 provider_group_id, logging_binary_name, friendly_logging_binary_name, producer_id)
VALUES `

// NewTranscript creates an EventTranscript.db in a temp dir with the schema
// plus the given seed script, and returns its path.
func NewTranscript(t testing.TB, seed string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "EventTranscript.db")
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	if err := sqlitex.ExecuteScript(conn, TranscriptSchema+seed, nil); err != nil {
		_ = conn.Close()
		t.Fatalf("seed fixture: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}
