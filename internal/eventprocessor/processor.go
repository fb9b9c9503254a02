// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/winspy/internal/detection"
	"github.com/tomtom215/winspy/internal/logging"
	"github.com/tomtom215/winspy/internal/models"
)

// Loader reads the reference tables and the event records from a store.
// database.Reader implements it.
type Loader interface {
	LoadProducers(ctx context.Context) ([]models.Producer, error)
	LoadCategories(ctx context.Context) ([]models.Category, error)
	LoadTagDescriptions(ctx context.Context) ([]models.TagDescription, error)
	LoadEvents(ctx context.Context) ([]models.Record, error)
}

// Processor owns the loaded records and reference tables for one run.
// Both are read-only once loaded.
type Processor struct {
	records []models.Record
	refs    *detection.References
}

// New creates a processor over records that were already loaded.
func New(records []models.Record, refs *detection.References) *Processor {
	if refs == nil {
		refs = detection.NewReferences(nil, nil, nil)
	}
	return &Processor{records: records, refs: refs}
}

// Load reads every reference table and then every record from loader.
// Row-level failures stay on the loader; only store failures are returned.
func Load(ctx context.Context, loader Loader) (*Processor, error) {
	logger := logging.Ctx(ctx)
	start := time.Now()

	producers, err := loader.LoadProducers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load producers: %w", err)
	}
	categories, err := loader.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	tags, err := loader.LoadTagDescriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tag descriptions: %w", err)
	}
	records, err := loader.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	refs := detection.NewReferences(producers, categories, tags)
	p, c, t := refs.Counts()
	logger.Info().
		Int("producers", p).
		Int("categories", c).
		Int("tag_descriptions", t).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Loaded event transcript")

	return New(records, refs), nil
}

// Records returns the loaded records in load order.
func (p *Processor) Records() []models.Record {
	return p.records
}

// References returns the reference view handed to detectors.
func (p *Processor) References() *detection.References {
	return p.refs
}

// Process runs every record through engine in load order and appends the
// correlators' end-of-stream output. Within a record, events keep the order
// the engine produced them in.
func (p *Processor) Process(engine *detection.Engine) []detection.ProcessedEvent {
	var out []detection.ProcessedEvent
	for i := range p.records {
		out = append(out, engine.Process(&p.records[i], p.refs)...)
	}
	return append(out, engine.Flush()...)
}
