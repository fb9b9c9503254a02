// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/tomtom215/winspy/internal/logging"
	"github.com/tomtom215/winspy/internal/metrics"
)

var (
	// ErrStoreNotFound is returned when the store path does not exist.
	ErrStoreNotFound = errors.New("event transcript does not exist")

	// ErrStoreNotFile is returned when the store path is a directory or other non-regular file.
	ErrStoreNotFile = errors.New("event transcript path is not a regular file")

	// ErrStorePathEncoding is returned when the store path is not valid UTF-8.
	ErrStorePathEncoding = errors.New("event transcript path is not valid UTF-8")
)

// Reader loads telemetry from an EventTranscript.db store.
//
// Reader owns a single read-only connection and is not safe for concurrent use.
// Row-level decode failures never abort a load; they are collected and
// returned by Errors.
type Reader struct {
	conn   *sqlite.Conn
	errs   []RecordError
	logger zerolog.Logger
}

// Open opens the store at path read-only.
func Open(path string) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat event transcript %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFile, path)
	}
	if !utf8.ValidString(path) {
		return nil, ErrStorePathEncoding
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to open event transcript %s: %w", path, err)
	}

	// OpenConn is lazy about file validity; force SQLite to read the header.
	probe := func(stmt *sqlite.Stmt) error { return nil }
	if err := sqlitex.ExecuteTransient(conn, "SELECT count(*) FROM sqlite_master", &sqlitex.ExecOptions{ResultFunc: probe}); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to read event transcript %s: %w", path, err)
	}

	logger := logging.WithComponent("database").With().Str("path", path).Logger()
	logger.Debug().Msg("Opened event transcript")

	return &Reader{conn: conn, logger: logger}, nil
}

// Close releases the store connection.
func (r *Reader) Close() error {
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close event transcript: %w", err)
	}
	return nil
}

// Errors returns a copy of every row-level error collected so far.
func (r *Reader) Errors() []RecordError {
	out := make([]RecordError, len(r.errs))
	copy(out, r.errs)
	return out
}

// skip records a row that failed to decode.
func (r *Reader) skip(table string, stmt *sqlite.Stmt, err error) {
	recErr := RecordError{Table: table, Row: saveRow(stmt), Err: err}
	r.errs = append(r.errs, recErr)
	r.logger.Debug().Err(err).Str("table", table).Msg("Skipping row")
}

// query runs a SELECT with ctx wired to the connection's interrupt.
// onRow returns false when the row was skipped.
func (r *Reader) query(ctx context.Context, table, query string, args []any, onRow func(stmt *sqlite.Stmt) bool) error {
	if r.conn == nil {
		return errors.New("event transcript reader is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.conn.SetInterrupt(ctx.Done())
	defer r.conn.SetInterrupt(nil)

	start := time.Now()
	read, skipped := 0, 0
	err := sqlitex.Execute(r.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			read++
			if !onRow(stmt) {
				skipped++
			}
			return nil
		},
	})
	metrics.RecordTableLoad(table, read, skipped, time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("query %s: %w", table, ctxErr)
		}
		return fmt.Errorf("query %s: %w", table, err)
	}
	return nil
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup operations in error paths where Close() errors are not actionable.
func closeQuietly(conn *sqlite.Conn) {
	if conn != nil {
		_ = conn.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
