// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"context"
	"errors"
	"fmt"

	"zombiezen.com/go/sqlite"

	"github.com/tomtom215/winspy/internal/models"
)

const (
	tableEvents          = "events_persisted"
	tableEventCategories = "event_categories"
	tableEventTags       = "event_tags"
)

// Columns: sid(0), timestamp(1), payload(2), full_event_name(3),
// full_event_name_hash(4), is_core(5), provider_group_id(6),
// provider_group_guid(7), logging_binary_name(8),
// friendly_logging_binary_name(9), producer_id(10)
const eventsQuery = `
	SELECT sid, timestamp, payload, full_event_name, full_event_name_hash, is_core,
		provider_group_id, g.group_guid AS provider_group_guid, logging_binary_name,
		friendly_logging_binary_name, p.producer_id AS producer_id
	FROM events_persisted AS e
	LEFT JOIN provider_groups AS g ON e.provider_group_id = g.group_id
	LEFT JOIN producers AS p ON e.producer_id = p.producer_id`

const eventCategoriesQuery = `SELECT category_id FROM event_categories WHERE full_event_name_hash = ?`

const eventTagsQuery = `SELECT tag_id FROM event_tags WHERE full_event_name_hash = ?`

// LoadEvents reads every row of events_persisted as a normalized record,
// in store order. For each record the category and tag ids correlated by
// event name hash are attached.
//
// Rows that fail to decode are skipped and reported through Errors. The
// returned error is reserved for query failures and cancellation.
func (r *Reader) LoadEvents(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	err := r.query(ctx, tableEvents, eventsQuery, nil, func(stmt *sqlite.Stmt) bool {
		rec, err := decodeEvent(stmt)
		if err != nil {
			r.skip(tableEvents, stmt, err)
			return false
		}
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, err
	}

	// Correlation lookups use the connection, so they run once the main
	// statement has been stepped to completion.
	for i := range records {
		hash := records[i].EventNameHash

		categories, err := correlatedIDs[models.CategoryID](ctx, r, tableEventCategories, eventCategoriesQuery, hash)
		if err != nil {
			return nil, err
		}
		tags, err := correlatedIDs[models.TagDescriptionID](ctx, r, tableEventTags, eventTagsQuery, hash)
		if err != nil {
			return nil, err
		}

		records[i].Categories = categories
		records[i].Tags = tags
	}

	r.logger.Debug().Int("count", len(records)).Msg("Loaded events")
	return records, nil
}

// decodeEvent builds a record from the current row of eventsQuery.
func decodeEvent(stmt *sqlite.Stmt) (models.Record, error) {
	d := rowDecoder{stmt: stmt}

	rec := models.Record{
		DeviceID:      d.requireText(0),
		EventName:     d.requireText(3),
		EventNameHash: d.requireInt64(4),
		IsCore:        d.requireInt64(5) != 0,
		ProviderGroup: models.ProviderGroup{
			ID:   d.requireInt64(6),
			GUID: d.requireText(7),
		},
		LoggingBinary: models.LoggingBinary{
			Name:         d.requireText(8),
			FriendlyName: d.requireText(9),
		},
	}
	ticks := d.requireInt64(1)
	raw, hasPayload := d.optionalText(2)
	producerID, hasProducer := d.optionalInt64(10)

	if d.err != nil {
		return models.Record{}, d.err
	}

	ts, err := DecodeTimestamp(ticks)
	if err != nil {
		return models.Record{}, fmt.Errorf("column timestamp (1): %w", err)
	}
	rec.Timestamp = ts

	if hasPayload {
		rec.Payload = parsePayload(raw)
	} else {
		rec.Payload = models.NoPayload()
	}

	if hasProducer {
		id := models.ProducerID(producerID)
		rec.ProducerID = &id
	}

	return rec, nil
}

// correlatedIDs returns the ids joined to an event name hash by one of the
// correlation tables. Rows with a NULL id are skipped with a diagnostic.
func correlatedIDs[T ~int64](ctx context.Context, r *Reader, table, query string, hash int64) ([]T, error) {
	ids := []T{}
	err := r.query(ctx, table, query, []any{hash}, func(stmt *sqlite.Stmt) bool {
		d := rowDecoder{stmt: stmt}
		id := d.requireInt64(0)
		if d.err != nil {
			r.skip(table, stmt, d.err)
			return false
		}
		ids = append(ids, T(id))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("load correlations for hash %d: %w", hash, err)
	}
	return ids, nil
}

// IsMissingField reports whether err was caused by an absent or mistyped column.
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}
