// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package models

import (
	"strings"
	"time"
)

// ProviderGroup identifies the ETW provider group an event was logged under.
//
// Source: provider_groups table (group_id, group_guid).
type ProviderGroup struct {
	ID   int64  `json:"id"`
	GUID string `json:"guid"`
}

// LoggingBinary describes the binary that logged an event.
//
// Source: logging_binary_name and friendly_logging_binary_name columns.
type LoggingBinary struct {
	Name         string `json:"name"`
	FriendlyName string `json:"friendly_name"`
}

// Record is a normalized row of the events_persisted table.
//
// Key Fields:
//   - DeviceID: SID of the device that produced the event (sid column)
//   - Timestamp: decoded from the 100-ns tick count, truncated to whole seconds
//   - EventName: dotted event name (full_event_name column)
//   - EventNameHash: join key into event_categories and event_tags
//   - ProducerID: nil when the producers join found no row
//   - Categories/Tags: ids of correlated reference entities, possibly dangling
//
// A Record is immutable once the reader has built it.
type Record struct {
	DeviceID      string        `json:"device_id"`
	Timestamp     time.Time     `json:"timestamp"`
	EventName     string        `json:"event_name"`
	EventNameHash int64         `json:"event_name_hash"`
	IsCore        bool          `json:"is_core"`
	ProviderGroup ProviderGroup `json:"provider_group"`
	LoggingBinary LoggingBinary `json:"logging_binary"`
	ProducerID    *ProducerID   `json:"producer_id,omitempty"`
	Payload       Payload       `json:"-"`

	Categories []CategoryID       `json:"categories"`
	Tags       []TagDescriptionID `json:"tags"`
}

// EventNameContains reports whether the event name includes the given keyword.
func (r *Record) EventNameContains(keyword string) bool {
	return strings.Contains(r.EventName, keyword)
}
