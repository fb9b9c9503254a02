// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Package testinfra provides test fixtures shared across packages.
//
// # Event Transcript Fixtures
//
// NewTranscript builds an EventTranscript.db with the tables the reader
// queries, then runs a seed script against it:
//
//	path := testinfra.NewTranscript(t, testinfra.InsertEvent+
//	    `('s-1-5-21', 0, '{"data":{}}', 'Microsoft.Windows.Kernel.Power.BatteryChargePercentageChange', 1, 1, 1, 'bin', 'Binary', NULL);`)
//
// The schema keeps every column untyped so seeds can store NULLs and wrong
// storage classes to exercise the reader's row diagnostics.
//
// # Embedded NATS
//
// NewNATSServer starts an in-process NATS server on a random loopback port
// and shuts it down when the test ends:
//
//	url := testinfra.NewNATSServer(t)
//	pub, err := eventprocessor.NewNATSPublisher(eventprocessor.DefaultNATSConfig(url), nil)
package testinfra
