// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Winspy reads a Windows diagnostic data store (EventTranscript.db) and
// reports what the telemetry reveals: battery level changes, application
// sessions, USB devices, Microsoft Store activity and Windows Update runs.
//
// # Pipeline
//
// A run executes these steps in order:
//
//  1. Configuration: defaults, optional YAML file, WINSPY_* environment, flags (Koanf v2)
//  2. Store: open the SQLite file read-only and load reference tables and events
//  3. Detection: run every enabled detector and correlator over the records
//  4. Output: console lines, a JSON document and/or a NATS subject
//
// Rows that cannot be decoded are skipped; their count is logged at warn
// level and each one at debug level.
//
// # Usage
//
//	winspy -i EventTranscript.db
//	winspy -i EventTranscript.db -o events.json --no-console
//	winspy -i EventTranscript.db --disable usb,store --log-level debug
//	winspy -i EventTranscript.db --publish-url nats://127.0.0.1:4222
//
// The store normally lives at
// C:\ProgramData\Microsoft\Diagnosis\EventTranscript\EventTranscript.db and
// needs administrator rights to copy.
//
// # Configuration
//
// Flags override environment variables, which override the config file
// (winspy.yaml, or the path in WINSPY_CONFIG or --config):
//
//	store:
//	  path: EventTranscript.db
//	output:
//	  path: events.json
//	  indent: true
//	  console: true
//	publish:
//	  url: nats://127.0.0.1:4222
//	  topic: winspy.events
//	detection:
//	  disabled: [usb]
//	logging:
//	  level: info
//	  format: console
//	  dir: logs
//	metrics:
//	  textfile_path: /var/lib/node_exporter/winspy.prom
//
// # Exit Status
//
// Winspy exits 1 when the configuration is invalid, the store cannot be
// opened or read, or an output fails. Skipped rows do not change the exit
// status.
package main
