// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"errors"
	"strings"
	"testing"
)

func TestRecordError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &RecordError{Table: "producers", Err: cause}

	if !strings.HasPrefix(err.Error(), "failed to parse record from table producers") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("RecordError should unwrap to its cause")
	}
}

func TestFormatBlob(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"[]":          {},
		"[0]":         {0},
		"[1, 2, 255]": {1, 2, 255},
	}
	for want, in := range tests {
		if got := formatBlob(in); got != want {
			t.Errorf("formatBlob(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		invalid bool
	}{
		{`{"data":{}}`, false},
		{`[1,2]`, false},
		{`42`, false},
		{` {"a":1} `, false},
		{``, true},
		{`{`, true},
		{`{"a":1}{"b":2}`, true},
		{`hello`, true},
		{`{"a":01}`, true},
		{`{"a":1,}`, true},
		{`{'a':1}`, true},
		{`{"a":-0.5e3}`, false},
	}

	for _, tt := range tests {
		p := parsePayload(tt.raw)
		_, isRaw := p.Raw()
		if isRaw != tt.invalid {
			t.Errorf("parsePayload(%q) kind = %v, want invalid=%v", tt.raw, p.Kind(), tt.invalid)
		}
	}
}

func TestParsePayload_KeepsRawTextOfNonStandardJSON(t *testing.T) {
	t.Parallel()

	raw := `{"data":{"RemainingPercentage":042}}`
	p := parsePayload(raw)
	got, ok := p.Raw()
	if !ok || got != raw {
		t.Fatalf("Raw() = %q, %v; want %q, true", got, ok, raw)
	}
}
