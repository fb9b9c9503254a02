// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Package database reads the Windows diagnostic data event transcript
// (EventTranscript.db) into normalized records.
//
// # Overview
//
// The store is a SQLite database written by the Diagnostic Data Viewer
// service. It is opened read-only through zombiezen.com/go/sqlite and never
// modified.
//
// The package is organized into:
//   - store.go: Open/Close, sentinel errors, the query helper
//   - references.go: producers, categories and tag_descriptions loaders
//   - events.go: events_persisted loader with category and tag correlation
//   - payload.go: payload classification (parsed JSON, raw text, or none)
//   - timestamp.go: FILETIME tick decoding
//   - diagnostics.go: typed column access and row dumps for skipped rows
//
// # Error Handling
//
// Fatal conditions (missing path, not a file, non-UTF-8 path, unreadable
// store, query failure, cancellation) are returned as errors. A row that is
// missing a required column, or holds a value of the wrong storage class, is
// skipped; a RecordError with a text dump of the row is kept and can be
// retrieved with Reader.Errors.
//
// # Usage
//
//	r, err := database.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	records, err := r.LoadEvents(ctx)
//	for _, e := range r.Errors() {
//	    logging.Debug().Err(&e).Msg("Skipped row")
//	}
package database
