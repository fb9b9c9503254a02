// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ticksPerSecond is the number of 100ns FILETIME intervals in one second.
	ticksPerSecond = 10_000_000

	// filetimeEpochUnix is 1601-01-01T00:00:00Z expressed in Unix seconds.
	filetimeEpochUnix int64 = -11_644_473_600

	// Bounds of what can be rendered as RFC 3339 (years 0000 through 9999).
	minRenderableUnix int64 = -62_167_219_200
	maxRenderableUnix int64 = 253_402_300_799
)

// ErrTimestampOutOfRange is returned when a tick count falls outside the
// range of representable timestamps.
var ErrTimestampOutOfRange = errors.New("timestamp out of range")

// DecodeTimestamp converts a FILETIME/LDAP tick count (100ns intervals since
// 1601-01-01 UTC) into a UTC time.
//
// Only whole seconds are kept: the tick count is integer-divided by 10^7,
// truncating toward zero, and the sub-second remainder is discarded.
func DecodeTimestamp(ticks int64) (time.Time, error) {
	secs := ticks / ticksPerSecond

	// |secs| <= MaxInt64/10^7, so this addition cannot overflow.
	unix := filetimeEpochUnix + secs
	if unix < minRenderableUnix || unix > maxRenderableUnix {
		return time.Time{}, fmt.Errorf("%w: %d ticks", ErrTimestampOutOfRange, ticks)
	}

	return time.Unix(unix, 0).UTC(), nil
}
