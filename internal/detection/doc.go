// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Package detection turns normalized telemetry records into typed events.
//
// Detection Architecture:
//
//	Record -> Engine -> Detectors (stateless, registration order)
//	                 -> Correlators (keyed state, flushed at end of stream)
//	                 -> []ProcessedEvent
//
// Each Detector recognizes one telemetry schema by event name and decodes its
// payload. A detector that does not apply, or whose payload is missing a
// field, returns nil; that is never an error.
//
// Shipped Detectors:
//   - battery: Microsoft.Windows.Kernel.Power.BatteryChargePercentageChange
//   - application: Win32kTraceLogging.AppInteractivitySummary
//   - usb: Microsoft.Windows.Inventory.Core.InventoryDevicePnpAdd (substring)
//   - store: Microsoft-Windows-Store lifecycle and purchase events
//
// Shipped Correlators:
//   - update_session: SoftwareUpdateClientTelemetry detect/download/install
//     joined by UpdateId
//
// Output Format:
//
//	{"id":"…","timestamp":"2024-01-02T03:04:05Z",
//	 "detected_event":{"type":"battery_percentage_change","battery_percentage":80}}
package detection
