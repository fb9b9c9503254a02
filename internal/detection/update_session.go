// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"time"

	"github.com/tomtom215/winspy/internal/models"
)

// Windows Update client telemetry events, in lifecycle order.
const (
	UpdateDetectedEventName = "SoftwareUpdateClientTelemetry.UpdateDetected"
	UpdateDownloadEventName = "SoftwareUpdateClientTelemetry.Download"
	UpdateInstallEventName  = "SoftwareUpdateClientTelemetry.Install"
)

// updateSession is the state kept per data.UpdateId.
type updateSession struct {
	id           string
	detectedAt   *time.Time
	downloadedAt *time.Time
	lastSeen     time.Time
	result       string
}

// UpdateSessionCorrelator joins the detect, download and install events of
// one update into a software_update_session event.
type UpdateSessionCorrelator struct {
	sessions *Accumulator[updateSession]
}

// NewUpdateSessionCorrelator creates a new software update session correlator.
func NewUpdateSessionCorrelator() *UpdateSessionCorrelator {
	return &UpdateSessionCorrelator{sessions: NewAccumulator[updateSession]()}
}

// Name returns the correlator name.
func (c *UpdateSessionCorrelator) Name() string {
	return "update_session"
}

// Observe records a phase of an update. The session is emitted when its
// Install event arrives.
func (c *UpdateSessionCorrelator) Observe(record *models.Record, _ ReferenceView) []ProcessedEvent {
	switch record.EventName {
	case UpdateDetectedEventName, UpdateDownloadEventName, UpdateInstallEventName:
	default:
		return nil
	}

	_, data, ok := payloadData(record)
	if !ok {
		return nil
	}
	updateID, ok := stringField(data, "UpdateId")
	if !ok || updateID == "" {
		return nil
	}

	session, _ := c.sessions.Get(updateID)
	session.id = updateID
	session.lastSeen = record.Timestamp
	if result, ok := resultField(data); ok {
		session.result = result
	}

	ts := record.Timestamp
	switch record.EventName {
	case UpdateDetectedEventName:
		if session.detectedAt == nil {
			session.detectedAt = &ts
		}
	case UpdateDownloadEventName:
		if session.downloadedAt == nil {
			session.downloadedAt = &ts
		}
	case UpdateInstallEventName:
		c.sessions.Take(updateID)
		return []ProcessedEvent{session.emit(&ts)}
	}

	return nil
}

// Flush emits every session that never reached Install.
func (c *UpdateSessionCorrelator) Flush() []ProcessedEvent {
	open := c.sessions.Drain()
	if len(open) == 0 {
		return nil
	}

	out := make([]ProcessedEvent, 0, len(open))
	for _, s := range open {
		out = append(out, s.emit(nil))
	}
	return out
}

func (s *updateSession) emit(installedAt *time.Time) ProcessedEvent {
	ts := s.lastSeen
	if installedAt != nil {
		ts = *installedAt
	}
	return NewProcessedEvent(ts, SoftwareUpdateSession{
		UpdateID:     s.id,
		DetectedAt:   s.detectedAt,
		DownloadedAt: s.downloadedAt,
		InstalledAt:  installedAt,
		Result:       s.result,
		Completed:    installedAt != nil,
	})
}

// resultField reads data.Result, which is logged either as a string or a number.
func resultField(data map[string]interface{}) (string, bool) {
	switch v := data["Result"].(type) {
	case string:
		return v, true
	case interface{ String() string }:
		return v.String(), true
	default:
		return "", false
	}
}
