// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package models

import "testing"

func TestPayload_ExactlyOneRepresentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    Payload
		wantKind   PayloadKind
		wantParsed bool
		wantRaw    bool
	}{
		{"none", NoPayload(), PayloadNone, false, false},
		{"parsed", ParsedPayload(map[string]interface{}{"a": "b"}), PayloadParsed, true, false},
		{"invalid", InvalidPayload("{not json"), PayloadInvalid, false, true},
		{"zero value", Payload{}, PayloadNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.payload.Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
			if _, ok := tt.payload.Parsed(); ok != tt.wantParsed {
				t.Errorf("Parsed() ok = %v, want %v", ok, tt.wantParsed)
			}
			if _, ok := tt.payload.Raw(); ok != tt.wantRaw {
				t.Errorf("Raw() ok = %v, want %v", ok, tt.wantRaw)
			}
		})
	}
}

func TestPayload_Object(t *testing.T) {
	t.Parallel()

	object, ok := ParsedPayload(map[string]interface{}{"data": 1}).Object()
	if !ok {
		t.Fatal("expected object payload")
	}
	if _, exists := object["data"]; !exists {
		t.Error("expected data key in object")
	}

	if _, ok := ParsedPayload([]interface{}{1, 2}).Object(); ok {
		t.Error("array payload should not be an object")
	}
	if _, ok := InvalidPayload("{}").Object(); ok {
		t.Error("invalid payload should not be an object")
	}
}

func TestPayload_RawKeepsOriginalText(t *testing.T) {
	t.Parallel()

	raw, ok := InvalidPayload("").Raw()
	if !ok {
		t.Fatal("empty invalid payload should still report raw text")
	}
	if raw != "" {
		t.Errorf("Raw() = %q, want empty string", raw)
	}
}

func TestRecord_EventNameContains(t *testing.T) {
	t.Parallel()

	r := &Record{EventName: "Microsoft.Windows.Inventory.Core.InventoryDevicePnpAdd"}
	if !r.EventNameContains("InventoryDevicePnpAdd") {
		t.Error("expected substring match")
	}
	if r.EventNameContains("inventorydevicepnpadd") {
		t.Error("match must be case-sensitive")
	}
}

func TestPayloadKind_String(t *testing.T) {
	t.Parallel()

	if PayloadParsed.String() != "parsed" {
		t.Errorf("PayloadParsed.String() = %q", PayloadParsed.String())
	}
	if PayloadKind(42).String() != "unknown" {
		t.Errorf("unknown kind = %q", PayloadKind(42).String())
	}
}
