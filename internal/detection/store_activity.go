// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import "github.com/tomtom215/winspy/internal/models"

// storeEventPrefix is shared by every Microsoft Store telemetry event.
const storeEventPrefix = "Microsoft-Windows-Store."

// storeActivities maps Store event names to the activity they represent.
var storeActivities = map[string]StoreActivityKind{
	storeEventPrefix + "StoreLaunching":           StoreLaunching,
	storeEventPrefix + "StoreLaunched":            StoreLaunched,
	storeEventPrefix + "StoreActivating":          StoreActivating,
	storeEventPrefix + "StoreActivated":           StoreActivated,
	storeEventPrefix + "PurchaseBegin":            StorePurchaseBegin,
	storeEventPrefix + "PurchaseOrderFulfillment": StorePurchaseFinished,
}

// storeOutgoingRequest is only reported when it is an authentication request.
const storeOutgoingRequest = storeEventPrefix + "OutgoingServiceRequest"

// StoreActivityDetector emits store_activity events.
type StoreActivityDetector struct{}

// NewStoreActivityDetector creates a new Microsoft Store activity detector.
func NewStoreActivityDetector() *StoreActivityDetector {
	return &StoreActivityDetector{}
}

// Name returns the detector name.
func (d *StoreActivityDetector) Name() string {
	return "store"
}

// Detect classifies Store lifecycle and purchase events. Other Store events
// produce nothing.
func (d *StoreActivityDetector) Detect(record *models.Record, _ ReferenceView) []ProcessedEvent {
	if activity, ok := storeActivities[record.EventName]; ok {
		return []ProcessedEvent{NewProcessedEvent(record.Timestamp, StoreActivity{Activity: activity})}
	}

	if record.EventName != storeOutgoingRequest {
		return nil
	}

	_, data, ok := payloadData(record)
	if !ok {
		return nil
	}
	baseData, ok := objectField(data, "baseData")
	if !ok {
		return nil
	}
	if dep, _ := stringField(baseData, "dependencyType"); dep != "AuthenticationRequest" {
		return nil
	}

	return []ProcessedEvent{NewProcessedEvent(record.Timestamp, StoreActivity{Activity: StoreAuthenticationRequest})}
}
