// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"math"

	"github.com/tomtom215/winspy/internal/models"
)

// BatteryChargeEventName is the kernel power event logged on each charge level change.
const BatteryChargeEventName = "Microsoft.Windows.Kernel.Power.BatteryChargePercentageChange"

// BatteryDetector emits battery_percentage_change events.
type BatteryDetector struct{}

// NewBatteryDetector creates a new battery detector.
func NewBatteryDetector() *BatteryDetector {
	return &BatteryDetector{}
}

// Name returns the detector name.
func (d *BatteryDetector) Name() string {
	return "battery"
}

// Detect requires data.RemainingPercentage to be an integer in 0..255.
func (d *BatteryDetector) Detect(record *models.Record, _ ReferenceView) []ProcessedEvent {
	if record.EventName != BatteryChargeEventName {
		return nil
	}

	_, data, ok := payloadData(record)
	if !ok {
		return nil
	}

	remaining, ok := int64Field(data, "RemainingPercentage")
	if !ok || remaining < 0 || remaining > math.MaxUint8 {
		return nil
	}

	return []ProcessedEvent{
		NewProcessedEvent(record.Timestamp, BatteryPercentageChange{BatteryPercentage: uint8(remaining)}),
	}
}
