// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
)

// ErrMissingField is wrapped by row errors for a required column that is
// NULL or holds a value of the wrong storage class.
var ErrMissingField = errors.New("missing required field")

// SavedColumn is a text dump of one column of a row that failed to decode.
type SavedColumn struct {
	Name    string  `json:"name"`
	Ordinal int     `json:"ordinal"`
	Type    string  `json:"type"`
	Value   *string `json:"value"` // nil for NULL
}

// SavedRow is a dump of every column of a row that failed to decode.
type SavedRow struct {
	Columns []SavedColumn `json:"columns"`
}

// RecordError describes a row that was skipped during loading.
type RecordError struct {
	Table string
	Row   SavedRow
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("failed to parse record from table %s: %v", e.Table, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// storageClassName renders SQLite's storage class the way sqlite3 spells it.
func storageClassName(t sqlite.ColumnType) string {
	switch t {
	case sqlite.TypeInteger:
		return "INTEGER"
	case sqlite.TypeFloat:
		return "REAL"
	case sqlite.TypeText:
		return "TEXT"
	case sqlite.TypeBlob:
		return "BLOB"
	default:
		return "NULL"
	}
}

// saveRow captures the current row of stmt for diagnostics.
func saveRow(stmt *sqlite.Stmt) SavedRow {
	n := stmt.ColumnCount()
	row := SavedRow{Columns: make([]SavedColumn, 0, n)}

	for col := 0; col < n; col++ {
		typ := stmt.ColumnType(col)
		saved := SavedColumn{
			Name:    stmt.ColumnName(col),
			Ordinal: col,
			Type:    storageClassName(typ),
		}

		var value string
		switch typ {
		case sqlite.TypeNull:
			row.Columns = append(row.Columns, saved)
			continue
		case sqlite.TypeInteger:
			value = strconv.FormatInt(stmt.ColumnInt64(col), 10)
		case sqlite.TypeFloat:
			value = strconv.FormatFloat(stmt.ColumnFloat(col), 'g', -1, 64)
		case sqlite.TypeBlob:
			buf := make([]byte, stmt.ColumnLen(col))
			stmt.ColumnBytes(col, buf)
			value = formatBlob(buf)
		default:
			value = stmt.ColumnText(col)
		}
		saved.Value = &value
		row.Columns = append(row.Columns, saved)
	}

	return row
}

// formatBlob renders bytes as a bracketed decimal list, e.g. [1, 2, 3].
func formatBlob(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// rowDecoder reads typed columns from the current row and remembers the
// first failure, so callers can read every field and check once.
type rowDecoder struct {
	stmt *sqlite.Stmt
	err  error
}

func (d *rowDecoder) fail(col int, want string) {
	if d.err != nil {
		return
	}
	d.err = fmt.Errorf("%w: column %s (%d) expected %s, found %s",
		ErrMissingField, d.stmt.ColumnName(col), col, want, storageClassName(d.stmt.ColumnType(col)))
}

// requireInt64 reads a required INTEGER column.
func (d *rowDecoder) requireInt64(col int) int64 {
	if d.stmt.ColumnType(col) != sqlite.TypeInteger {
		d.fail(col, "INTEGER")
		return 0
	}
	return d.stmt.ColumnInt64(col)
}

// requireText reads a required TEXT column.
func (d *rowDecoder) requireText(col int) string {
	if d.stmt.ColumnType(col) != sqlite.TypeText {
		d.fail(col, "TEXT")
		return ""
	}
	return d.stmt.ColumnText(col)
}

// optionalInt64 reads a nullable INTEGER column.
func (d *rowDecoder) optionalInt64(col int) (int64, bool) {
	switch d.stmt.ColumnType(col) {
	case sqlite.TypeNull:
		return 0, false
	case sqlite.TypeInteger:
		return d.stmt.ColumnInt64(col), true
	default:
		d.fail(col, "INTEGER or NULL")
		return 0, false
	}
}

// optionalText reads a nullable TEXT column.
func (d *rowDecoder) optionalText(col int) (string, bool) {
	switch d.stmt.ColumnType(col) {
	case sqlite.TypeNull:
		return "", false
	case sqlite.TypeText:
		return d.stmt.ColumnText(col), true
	default:
		d.fail(col, "TEXT or NULL")
		return "", false
	}
}
