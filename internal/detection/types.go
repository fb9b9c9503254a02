// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/winspy/internal/models"
)

// Detector recognizes one telemetry schema.
//
// Detect returns nil when the record does not apply or its payload does not
// have the expected shape. That is the common case, not a failure. A
// non-empty slice is the ordered output for this record.
type Detector interface {
	// Name identifies the detector in configuration, logs and metrics.
	Name() string

	// Detect examines one record.
	Detect(record *models.Record, view ReferenceView) []ProcessedEvent
}

// Correlator accumulates state across records and emits events that span
// several of them.
type Correlator interface {
	// Name identifies the correlator in configuration, logs and metrics.
	Name() string

	// Observe examines one record and returns any events it completes.
	Observe(record *models.Record, view ReferenceView) []ProcessedEvent

	// Flush returns events for every correlation still open at end of stream
	// and resets the correlator.
	Flush() []ProcessedEvent
}

// ReferenceView is read-only access to the reference tables during detection.
type ReferenceView interface {
	ProducerByID(id models.ProducerID) (models.Producer, bool)
	CategoryByID(id models.CategoryID) (models.Category, bool)
	TagByID(id models.TagDescriptionID) (models.TagDescription, bool)
}

// EventType is the "type" tag of a detected event in serialized output.
type EventType string

const (
	EventTypeBatteryPercentageChange EventType = "battery_percentage_change"
	EventTypeApplicationClosed       EventType = "application_closed"
	EventTypeUSBDeviceAdded          EventType = "usb_device_added"
	EventTypeStoreActivity           EventType = "store_activity"
	EventTypeSoftwareUpdateSession   EventType = "software_update_session"
)

// DetectedEvent is implemented by every detected event variant.
type DetectedEvent interface {
	Type() EventType
}

// ProcessedEvent is the envelope a detector emits.
type ProcessedEvent struct {
	ID        uuid.UUID
	Timestamp time.Time
	Event     DetectedEvent
}

// NewProcessedEvent wraps event with a fresh random id.
func NewProcessedEvent(ts time.Time, event DetectedEvent) ProcessedEvent {
	return ProcessedEvent{
		ID:        uuid.New(),
		Timestamp: ts.UTC(),
		Event:     event,
	}
}

// processedEventJSON is the wire shape of a ProcessedEvent.
type processedEventJSON struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	DetectedEvent json.RawMessage `json:"detected_event"`
}

// MarshalJSON renders the envelope as
// {"id":..., "timestamp":..., "detected_event":{"type":..., <fields>}}.
func (p ProcessedEvent) MarshalJSON() ([]byte, error) {
	detected, err := MarshalDetectedEvent(p.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(processedEventJSON{
		ID:            p.ID.String(),
		Timestamp:     p.Timestamp,
		DetectedEvent: detected,
	})
}

// MarshalDetectedEvent renders a variant's fields flattened next to its type tag.
func MarshalDetectedEvent(event DetectedEvent) (json.RawMessage, error) {
	if event == nil {
		return nil, fmt.Errorf("processed event has no detected event")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("flatten %s: %w", event.Type(), err)
	}

	tag, err := json.Marshal(event.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}

// BatteryPercentageChange reports a new battery charge level.
type BatteryPercentageChange struct {
	BatteryPercentage uint8 `json:"battery_percentage"`
}

func (BatteryPercentageChange) Type() EventType { return EventTypeBatteryPercentageChange }

// ApplicationClosed summarizes one application interactivity session.
type ApplicationClosed struct {
	ExecutableName     string  `json:"executable_name"`
	ExecutableSHA1Hash *string `json:"executable_sha1_hash"`

	OpenedAt time.Time `json:"opened_at"`
	ClosedAt time.Time `json:"closed_at"`

	FocusDurationSeconds      float64 `json:"focus_duration_in_seconds"`
	UserActiveDurationSeconds float64 `json:"user_active_duration_in_seconds"`
	FocusLostEvents           uint64  `json:"number_of_focus_lost_events"`
	WindowHeight              uint64  `json:"window_height"`
	WindowWidth               uint64  `json:"window_width"`

	MouseInputSeconds    float64 `json:"seconds_of_mouse_input"`
	KeyboardInputSeconds float64 `json:"seconds_of_keyboard_input"`
	AnyInputSeconds      float64 `json:"seconds_of_any_user_input"`
	AudioRecordedSeconds float64 `json:"seconds_of_audio_recorded"`
	AudioPlayedSeconds   float64 `json:"seconds_of_audio_played"`
}

func (ApplicationClosed) Type() EventType { return EventTypeApplicationClosed }

// USBDeviceAdded reports a USB device being plugged in.
type USBDeviceAdded struct {
	DeviceID    string `json:"device_id"`
	Service     string `json:"service"`
	Description string `json:"description"`
}

func (USBDeviceAdded) Type() EventType { return EventTypeUSBDeviceAdded }

// StoreActivityKind is one step of Microsoft Store usage.
type StoreActivityKind string

const (
	StoreLaunching             StoreActivityKind = "launching"
	StoreLaunched              StoreActivityKind = "launched"
	StoreActivating            StoreActivityKind = "activating"
	StoreActivated             StoreActivityKind = "activated"
	StoreAuthenticationRequest StoreActivityKind = "authentication_request"
	StorePurchaseBegin         StoreActivityKind = "purchase_begin"
	StorePurchaseFinished      StoreActivityKind = "purchase_finished"
)

// StoreActivity reports Microsoft Store usage.
type StoreActivity struct {
	Activity StoreActivityKind `json:"activity"`
}

func (StoreActivity) Type() EventType { return EventTypeStoreActivity }

// SoftwareUpdateSession summarizes one Windows Update from detection to install.
// Timestamps are nil for phases that were never observed.
type SoftwareUpdateSession struct {
	UpdateID     string     `json:"update_id"`
	DetectedAt   *time.Time `json:"detected_at"`
	DownloadedAt *time.Time `json:"download_started_at"`
	InstalledAt  *time.Time `json:"installed_at"`
	Result       string     `json:"result,omitempty"`
	Completed    bool       `json:"completed"`
}

func (SoftwareUpdateSession) Type() EventType { return EventTypeSoftwareUpdateSession }
