// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Package output renders processed events for people and for other tools.
//
// ConsoleWriter prints one line per event:
//
//	2024-03-10T12:00:00Z battery_percentage_change 6f1c...e2 {"battery_percentage":87}
//
// WriteJSON and WriteJSONFile serialize the whole sequence as a single JSON
// array of {"id", "timestamp", "detected_event"} documents.
package output
