// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"math"
	"strings"
	"time"

	"github.com/tomtom215/winspy/internal/models"
)

// AppInteractivitySummaryEventName is logged by win32k when an application
// interactivity window closes.
const AppInteractivitySummaryEventName = "Win32kTraceLogging.AppInteractivitySummary"

// ApplicationDetector emits application_closed events from interactivity summaries.
type ApplicationDetector struct{}

// NewApplicationDetector creates a new application session detector.
func NewApplicationDetector() *ApplicationDetector {
	return &ApplicationDetector{}
}

// Name returns the detector name.
func (d *ApplicationDetector) Name() string {
	return "application"
}

// Detect decodes an AppInteractivitySummary. Every field is required; a
// missing, negative or malformed value yields no event.
func (d *ApplicationDetector) Detect(record *models.Record, _ ReferenceView) []ProcessedEvent {
	if record.EventName != AppInteractivitySummaryEventName {
		return nil
	}

	root, data, ok := payloadData(record)
	if !ok {
		return nil
	}

	rawTime, ok := stringField(root, "time")
	if !ok {
		return nil
	}
	closedAt, err := time.Parse(time.RFC3339, rawTime)
	if err != nil {
		return nil
	}
	closedAt = closedAt.UTC()

	name, hash, ok := executableIdentity(data)
	if !ok {
		return nil
	}

	sinceFirst, ok := int64Field(data, "SinceFirstInteractivityMS")
	if !ok {
		return nil
	}
	openedAt, ok := subtractMillis(closedAt, sinceFirst)
	if !ok {
		return nil
	}

	event := ApplicationClosed{
		ExecutableName:     name,
		ExecutableSHA1Hash: hash,
		OpenedAt:           openedAt,
		ClosedAt:           closedAt,
	}

	complete := assignSeconds(&event.FocusDurationSeconds, data, "InFocusDurationMS") &&
		assignSeconds(&event.UserActiveDurationSeconds, data, "UserActiveDurationMS") &&
		assignCount(&event.FocusLostEvents, data, "FocusLostCount") &&
		assignCount(&event.WindowWidth, data, "WindowWidth") &&
		assignCount(&event.WindowHeight, data, "WindowHeight") &&
		assignWholeSeconds(&event.AnyInputSeconds, data, "InputSec") &&
		assignWholeSeconds(&event.KeyboardInputSeconds, data, "KeyboardInputSec") &&
		assignWholeSeconds(&event.MouseInputSeconds, data, "MouseInputSec") &&
		assignSeconds(&event.AudioRecordedSeconds, data, "AudioInMS") &&
		assignSeconds(&event.AudioPlayedSeconds, data, "AudioOutMS")
	if !complete {
		return nil
	}

	return []ProcessedEvent{NewProcessedEvent(record.Timestamp, event)}
}

// executableIdentity splits data.AppId on '!'.
//
//	W:0000…!0000b2b3…!notepad.exe  -> notepad.exe, hash 0000b2b3…
//	U:Microsoft.Windows.Photos!App -> last '!' segment of AppVersion, no hash
func executableIdentity(data map[string]interface{}) (name string, hash *string, ok bool) {
	appID, ok := stringField(data, "AppId")
	if !ok {
		return "", nil, false
	}

	parts := strings.Split(appID, "!")
	switch {
	case len(parts) < 2:
		return "", nil, false
	case len(parts) == 2:
		version, ok := stringField(data, "AppVersion")
		if !ok {
			return "", nil, false
		}
		return version[strings.LastIndex(version, "!")+1:], nil, true
	default:
		h := parts[len(parts)-2]
		return parts[len(parts)-1], &h, true
	}
}

// subtractMillis returns t minus ms milliseconds. The duration is applied as
// whole seconds plus a millisecond remainder so it can exceed time.Duration's
// range. Negative durations and results that cannot be rendered are rejected.
func subtractMillis(t time.Time, ms int64) (time.Time, bool) {
	if ms < 0 {
		return time.Time{}, false
	}

	secs, rem := ms/1000, ms%1000
	unix := t.Unix()
	if unix < math.MinInt64+secs {
		return time.Time{}, false
	}

	nanos := int64(t.Nanosecond()) - rem*int64(time.Millisecond)
	result := time.Unix(unix-secs, nanos).UTC()
	if result.Year() < 0 {
		return time.Time{}, false
	}
	return result, true
}

func assignSeconds(dst *float64, data map[string]interface{}, key string) bool {
	v, ok := millisAsSeconds(data, key)
	*dst = v
	return ok
}

func assignWholeSeconds(dst *float64, data map[string]interface{}, key string) bool {
	v, ok := int64Field(data, key)
	*dst = float64(v)
	return ok
}

func assignCount(dst *uint64, data map[string]interface{}, key string) bool {
	v, ok := uint64Field(data, key)
	*dst = v
	return ok
}
