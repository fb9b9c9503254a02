// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

// Package eventprocessor drives a loaded event transcript through the
// detection engine and forwards the results.
//
// # Aggregation
//
// Load reads the reference tables and every record once through a Loader
// (implemented by database.Reader). Process then runs records through a
// detection.Engine in load order:
//
//	records ──► Engine.Process (detectors, then correlators) ──► events
//	                                              Engine.Flush ──► events
//
// The output is a single flat sequence. Within a record, events keep the
// engine's order; across records, load order is kept. Nothing is
// deduplicated or reordered.
//
// # Publishing
//
// Publisher forwards events to any Watermill message.Publisher. Each message
// uses the event id as its UUID, carries the event type in the "event_type"
// metadata key and holds the event's JSON document as payload:
//
//	pub, err := eventprocessor.NewNATSPublisher(eventprocessor.DefaultNATSConfig(url), logging.NewWatermillAdapter())
//	publisher, err := eventprocessor.NewPublisher(pub, "winspy.events", logging.NewWatermillAdapter())
//	publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig("nats-publisher")))
//	n, err := publisher.PublishAll(ctx, events)
//
// NewNATSPublisher uses core NATS with JetStream disabled. Tests use
// Watermill's in-process gochannel.
//
// # Circuit Breaker
//
// The breaker opens after a run of consecutive publish failures so a dead
// broker fails the remaining events fast. Transitions are logged and exported
// as winspy_circuit_breaker_state and
// winspy_circuit_breaker_state_transitions_total.
package eventprocessor
