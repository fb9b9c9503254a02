// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Package logging provides centralized zerolog-based structured logging for winspy.
//
// Log output goes to stderr by default. Stdout is reserved for the detected
// event stream so the two can be redirected independently.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("path", path).Msg("Opened event transcript")
//	logging.Warn().Int("diagnostics", n).Msg("Some rows could not be decoded")
//
// # Log Files
//
// Setting Config.Dir also appends every entry, as JSON, to a dated file such
// as logs/winspy.2026-10-14.log. Call Close before exit to flush it:
//
//	if err := logging.Init(logging.Config{Dir: "logs"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
// # Components
//
// Packages obtain a child logger tagged with their component name:
//
//	logger := logging.WithComponent("database")
//
// Pipeline runs carry a short run id through context.Context so that every
// line produced by one invocation can be correlated:
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	logging.Ctx(ctx).Info().Msg("Starting")
//
// # Watermill
//
// WatermillAdapter implements watermill.LoggerAdapter so the optional NATS
// publisher logs through zerolog.
package logging
