// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import "github.com/tomtom215/winspy/internal/models"

// integer is satisfied by json.Number. Parsing fails for fractions,
// exponents and values outside int64.
type integer interface {
	Int64() (int64, error)
}

// payloadData returns the payload root object and its nested "data" object.
func payloadData(record *models.Record) (root, data map[string]interface{}, ok bool) {
	root, ok = record.Payload.Object()
	if !ok {
		return nil, nil, false
	}
	data, ok = objectField(root, "data")
	if !ok {
		return nil, nil, false
	}
	return root, data, true
}

func objectField(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := m[key].(map[string]interface{})
	return v, ok
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

func int64Field(m map[string]interface{}, key string) (int64, bool) {
	n, ok := m[key].(integer)
	if !ok {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// uint64Field reads an integer field that must not be negative.
func uint64Field(m map[string]interface{}, key string) (uint64, bool) {
	v, ok := int64Field(m, key)
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}

// millisAsSeconds reads an integer millisecond field as fractional seconds.
func millisAsSeconds(m map[string]interface{}, key string) (float64, bool) {
	v, ok := int64Field(m, key)
	if !ok {
		return 0, false
	}
	return float64(v) / 1000, true
}
