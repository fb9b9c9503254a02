// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

/*
Package metrics provides Prometheus instrumentation for a winspy run.

winspy is a run-to-completion tool, so metrics are not served over HTTP.
When a textfile path is configured the registry is written once at exit in
the Prometheus text format, ready for node_exporter's textfile collector:

	if err := metrics.WriteTextfile("/var/lib/node_exporter/winspy.prom"); err != nil {
	    logging.Warn().Err(err).Msg("Failed to write metrics")
	}

# Available Metrics

Store:
  - winspy_store_rows_read_total{table}
  - winspy_store_rows_skipped_total{table}
  - winspy_store_load_duration_seconds{table}

Pipeline:
  - winspy_records_processed_total
  - winspy_detector_checks_total{detector}
  - winspy_detector_events_total{detector}

Publisher:
  - winspy_events_published_total{topic}
  - winspy_publish_errors_total{topic}
  - winspy_circuit_breaker_state{name}
  - winspy_circuit_breaker_state_transitions_total{name,from_state,to_state}
*/
package metrics
