// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/winspy/internal/detection"
)

// ConsoleWriter prints events as human-readable lines.
type ConsoleWriter struct {
	w *bufio.Writer
}

// NewConsoleWriter creates a writer on w. A nil w writes to stdout.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleWriter{w: bufio.NewWriter(w)}
}

// Write prints one line per event and flushes.
func (c *ConsoleWriter) Write(events []detection.ProcessedEvent) error {
	for _, event := range events {
		if err := c.writeLine(event); err != nil {
			return err
		}
	}
	return c.w.Flush()
}

func (c *ConsoleWriter) writeLine(event detection.ProcessedEvent) error {
	if event.Event == nil {
		return fmt.Errorf("event %s has no detected event", event.ID)
	}
	fields, err := json.Marshal(event.Event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	_, err = fmt.Fprintf(c.w, "%s %s %s %s\n",
		event.Timestamp.UTC().Format(time.RFC3339),
		event.Event.Type(),
		event.ID,
		fields,
	)
	return err
}
