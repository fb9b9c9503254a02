// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/winspy/internal/logging"
	"github.com/tomtom215/winspy/internal/metrics"
	"github.com/tomtom215/winspy/internal/models"
)

// Engine runs every enabled detector and correlator against each record,
// in registration order.
type Engine struct {
	detectors   []Detector
	correlators []Correlator

	mu       sync.RWMutex
	disabled map[string]bool

	metricsStore *EngineMetrics
}

// EngineMetrics tracks detection engine activity.
type EngineMetrics struct {
	RecordsProcessed int64
	EventsEmitted    int64
	DetectorMetrics  map[string]*DetectorMetrics
	mu               sync.RWMutex
}

// DetectorMetrics tracks individual detector activity.
type DetectorMetrics struct {
	RecordsChecked int64
	EventsEmitted  int64
}

// NewEngine creates an engine with no detectors registered.
func NewEngine() *Engine {
	return &Engine{
		disabled: make(map[string]bool),
		metricsStore: &EngineMetrics{
			DetectorMetrics: make(map[string]*DetectorMetrics),
		},
	}
}

// NewDefaultEngine creates an engine with every shipped detector and correlator.
func NewDefaultEngine() *Engine {
	e := NewEngine()
	e.RegisterDetector(NewBatteryDetector())
	e.RegisterDetector(NewApplicationDetector())
	e.RegisterDetector(NewUSBDetector())
	e.RegisterDetector(NewStoreActivityDetector())
	e.RegisterCorrelator(NewUpdateSessionCorrelator())
	return e
}

// RegisterDetector appends a detector. Detectors run in registration order.
func (e *Engine) RegisterDetector(detector Detector) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.detectors = append(e.detectors, detector)
	e.metricsStore.register(detector.Name())

	logging.Debug().Str("detector", detector.Name()).Msg("registered detector")
}

// RegisterCorrelator appends a correlator. Correlators run after all detectors.
func (e *Engine) RegisterCorrelator(correlator Correlator) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.correlators = append(e.correlators, correlator)
	e.metricsStore.register(correlator.Name())

	logging.Debug().Str("correlator", correlator.Name()).Msg("registered correlator")
}

// Process runs one record through the enabled detectors, then the enabled
// correlators, and returns their combined output in that order.
func (e *Engine) Process(record *models.Record, view ReferenceView) []ProcessedEvent {
	detectors, correlators := e.enabled()

	var out []ProcessedEvent
	for _, d := range detectors {
		events := d.Detect(record, view)
		e.record(d.Name(), len(events))
		out = append(out, events...)
	}
	for _, c := range correlators {
		events := c.Observe(record, view)
		e.record(c.Name(), len(events))
		out = append(out, events...)
	}

	e.metricsStore.mu.Lock()
	e.metricsStore.RecordsProcessed++
	e.metricsStore.mu.Unlock()
	metrics.RecordsProcessed.Inc()

	return out
}

// Flush drains every enabled correlator at end of stream.
func (e *Engine) Flush() []ProcessedEvent {
	_, correlators := e.enabled()

	var out []ProcessedEvent
	for _, c := range correlators {
		events := c.Flush()
		if n := len(events); n > 0 {
			e.addEmitted(c.Name(), n)
			metrics.DetectorEvents.WithLabelValues(c.Name()).Add(float64(n))
		}
		out = append(out, events...)
	}
	return out
}

// enabled returns the detectors and correlators that are not disabled.
func (e *Engine) enabled() ([]Detector, []Correlator) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	detectors := make([]Detector, 0, len(e.detectors))
	for _, d := range e.detectors {
		if !e.disabled[d.Name()] {
			detectors = append(detectors, d)
		}
	}
	correlators := make([]Correlator, 0, len(e.correlators))
	for _, c := range e.correlators {
		if !e.disabled[c.Name()] {
			correlators = append(correlators, c)
		}
	}
	return detectors, correlators
}

// record updates the in-process and Prometheus counters for one check.
func (e *Engine) record(name string, emitted int) {
	metrics.RecordDetection(name, emitted)

	e.metricsStore.mu.Lock()
	defer e.metricsStore.mu.Unlock()
	if m, ok := e.metricsStore.DetectorMetrics[name]; ok {
		m.RecordsChecked++
		m.EventsEmitted += int64(emitted)
	}
	e.metricsStore.EventsEmitted += int64(emitted)
}

func (e *Engine) addEmitted(name string, n int) {
	e.metricsStore.mu.Lock()
	defer e.metricsStore.mu.Unlock()
	if m, ok := e.metricsStore.DetectorMetrics[name]; ok {
		m.EventsEmitted += int64(n)
	}
	e.metricsStore.EventsEmitted += int64(n)
}

func (m *EngineMetrics) register(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.DetectorMetrics[name]; !ok {
		m.DetectorMetrics[name] = &DetectorMetrics{}
	}
}

// Disable turns off each named detector or correlator. Every name is checked
// before any change is applied.
func (e *Engine) Disable(names ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, name := range names {
		if !e.knownLocked(name) {
			return fmt.Errorf("detector not found: %s (available: %v)", name, e.namesLocked())
		}
	}
	for _, name := range names {
		e.disabled[name] = true
		logging.Info().Str("detector", name).Msg("detector disabled")
	}
	return nil
}

// IsEnabled reports whether the named detector or correlator will run.
func (e *Engine) IsEnabled(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.knownLocked(name) && !e.disabled[name]
}

// Names returns every registered detector and correlator name, sorted.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.namesLocked()
}

func (e *Engine) knownLocked(name string) bool {
	for _, d := range e.detectors {
		if d.Name() == name {
			return true
		}
	}
	for _, c := range e.correlators {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func (e *Engine) namesLocked() []string {
	names := make([]string, 0, len(e.detectors)+len(e.correlators))
	for _, d := range e.detectors {
		names = append(names, d.Name())
	}
	for _, c := range e.correlators {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Metrics returns a copy of the engine metrics.
func (e *Engine) Metrics() EngineMetrics {
	e.metricsStore.mu.RLock()
	defer e.metricsStore.mu.RUnlock()

	// Deep copy detector metrics
	detectorMetrics := make(map[string]*DetectorMetrics, len(e.metricsStore.DetectorMetrics))
	for k, v := range e.metricsStore.DetectorMetrics {
		dm := *v
		detectorMetrics[k] = &dm
	}

	return EngineMetrics{
		RecordsProcessed: e.metricsStore.RecordsProcessed,
		EventsEmitted:    e.metricsStore.EventsEmitted,
		DetectorMetrics:  detectorMetrics,
	}
}
