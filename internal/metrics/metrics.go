// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	StoreRowsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_store_rows_read_total",
			Help: "Total number of rows read from the event transcript, by table",
		},
		[]string{"table"},
	)

	StoreRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_store_rows_skipped_total",
			Help: "Total number of rows that failed to decode and were skipped, by table",
		},
		[]string{"table"},
	)

	StoreLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "winspy_store_load_duration_seconds",
			Help:    "Duration of a full table load in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)

	// Pipeline Metrics
	RecordsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "winspy_records_processed_total",
			Help: "Total number of event records run through the detector pipeline",
		},
	)

	DetectorChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_detector_checks_total",
			Help: "Total number of records offered to each detector",
		},
		[]string{"detector"},
	)

	DetectorEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_detector_events_total",
			Help: "Total number of processed events produced by each detector or correlator",
		},
		[]string{"detector"},
	)

	// Publisher Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_events_published_total",
			Help: "Total number of processed events published to the message broker",
		},
		[]string{"topic"},
	)

	PublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_publish_errors_total",
			Help: "Total number of failed publish attempts",
		},
		[]string{"topic"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "winspy_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winspy_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordTableLoad records the outcome of loading one table.
func RecordTableLoad(table string, read, skipped int, duration time.Duration) {
	StoreRowsRead.WithLabelValues(table).Add(float64(read))
	if skipped > 0 {
		StoreRowsSkipped.WithLabelValues(table).Add(float64(skipped))
	}
	StoreLoadDuration.WithLabelValues(table).Observe(duration.Seconds())
}

// RecordDetection records one detector check and the number of events it produced.
func RecordDetection(detector string, produced int) {
	DetectorChecks.WithLabelValues(detector).Inc()
	if produced > 0 {
		DetectorEvents.WithLabelValues(detector).Add(float64(produced))
	}
}

// RecordPublish records a publish attempt for a topic.
func RecordPublish(topic string, err error) {
	if err != nil {
		PublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordBreakerTransition records a circuit breaker state change.
// States follow gobreaker's ordering: 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name, from, to string, toState int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(toState))
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
