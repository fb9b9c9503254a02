// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/winspy/internal/logging"
	"github.com/tomtom215/winspy/internal/models"
)

// DevicePnpAddEventName is the inventory event family logged when a Plug and
// Play device is added. Event names carry a version suffix, so it is matched
// as a substring.
const DevicePnpAddEventName = "Microsoft.Windows.Inventory.Core.InventoryDevicePnpAdd"

// USBDetector emits usb_device_added events.
type USBDetector struct {
	logger zerolog.Logger
}

// NewUSBDetector creates a new USB device detector.
func NewUSBDetector() *USBDetector {
	return &USBDetector{logger: logging.WithComponent("detection").With().Str("detector", "usb").Logger()}
}

// Name returns the detector name.
func (d *USBDetector) Name() string {
	return "usb"
}

// Detect requires data.Class to contain "usb" and data.Description,
// data.Service and data.MatchingID to be present.
func (d *USBDetector) Detect(record *models.Record, _ ReferenceView) []ProcessedEvent {
	if !record.EventNameContains(DevicePnpAddEventName) {
		return nil
	}

	_, data, ok := payloadData(record)
	if !ok {
		return nil
	}

	class, ok := stringField(data, "Class")
	if !ok {
		return nil
	}
	if !strings.Contains(class, "usb") {
		d.logger.Info().Str("class", class).Msg("Skipping non-USB device")
		return nil
	}

	description, ok := stringField(data, "Description")
	if !ok {
		return nil
	}
	service, ok := stringField(data, "Service")
	if !ok {
		return nil
	}
	deviceID, ok := stringField(data, "MatchingID")
	if !ok {
		return nil
	}

	return []ProcessedEvent{
		NewProcessedEvent(record.Timestamp, USBDeviceAdded{
			DeviceID:    deviceID,
			Service:     service,
			Description: description,
		}),
	}
}
