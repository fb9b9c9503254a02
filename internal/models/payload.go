// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package models

// PayloadKind tells which representation a Payload holds.
type PayloadKind int

const (
	// PayloadNone means the payload column was NULL.
	PayloadNone PayloadKind = iota

	// PayloadParsed means the payload was valid JSON.
	PayloadParsed

	// PayloadInvalid means the payload was present but not valid JSON.
	PayloadInvalid
)

// String returns the kind name used in logs.
func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadParsed:
		return "parsed"
	case PayloadInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Payload is the event payload of a Record.
//
// At most one of the parsed value and the raw text is populated. The fields
// are unexported so the only way to build a Payload is through the three
// constructors below.
type Payload struct {
	kind   PayloadKind
	parsed interface{}
	raw    string
}

// NoPayload returns an empty payload.
func NoPayload() Payload {
	return Payload{kind: PayloadNone}
}

// ParsedPayload wraps a decoded JSON value.
func ParsedPayload(value interface{}) Payload {
	return Payload{kind: PayloadParsed, parsed: value}
}

// InvalidPayload keeps the original text of a payload that failed to parse.
func InvalidPayload(raw string) Payload {
	return Payload{kind: PayloadInvalid, raw: raw}
}

// Kind returns which representation the payload holds.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Parsed returns the decoded JSON value, if the payload parsed.
func (p Payload) Parsed() (interface{}, bool) {
	if p.kind != PayloadParsed {
		return nil, false
	}
	return p.parsed, true
}

// Raw returns the original text, if the payload failed to parse.
func (p Payload) Raw() (string, bool) {
	if p.kind != PayloadInvalid {
		return "", false
	}
	return p.raw, true
}

// Object returns the parsed payload as a JSON object.
func (p Payload) Object() (map[string]interface{}, bool) {
	value, ok := p.Parsed()
	if !ok {
		return nil, false
	}
	object, ok := value.(map[string]interface{})
	return object, ok
}
