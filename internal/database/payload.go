// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	stdjson "encoding/json"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/winspy/internal/models"
)

// parsePayload classifies a payload column value. Text that is exactly one
// JSON value becomes a parsed payload; anything else, including the empty
// string, is kept verbatim as an invalid payload.
//
// goccy's decoder tolerates some non-standard input, such as numbers with
// leading zeros, so the text is checked against RFC 8259 first.
func parsePayload(raw string) models.Payload {
	if !stdjson.Valid([]byte(raw)) {
		return models.InvalidPayload(raw)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return models.InvalidPayload(raw)
	}
	return models.ParsedPayload(v)
}
