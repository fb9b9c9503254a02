// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/winspy/internal/detection"
)

// WriteJSON encodes events to w as one JSON array. A nil slice is written
// as an empty array.
func WriteJSON(w io.Writer, events []detection.ProcessedEvent, indent bool) error {
	if events == nil {
		events = []detection.ProcessedEvent{}
	}

	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return nil
}

// WriteJSONFile writes events to path as one JSON document, creating the
// parent directory if needed. An existing file is replaced.
//
//nolint:gosec // G304: path is the operator-supplied output file
func WriteJSONFile(path string, events []detection.ProcessedEvent, indent bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteJSON(outFile, events, indent); err != nil {
		outFile.Close() //nolint:errcheck // Best effort cleanup on error
		return err
	}

	if err := outFile.Sync(); err != nil {
		outFile.Close() //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return outFile.Close()
}
