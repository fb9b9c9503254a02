// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package database

import (
	"context"

	"zombiezen.com/go/sqlite"

	"github.com/tomtom215/winspy/internal/models"
)

const (
	tableProducers       = "producers"
	tableCategories      = "categories"
	tableTagDescriptions = "tag_descriptions"
)

// Columns: producer_id(0), producer_id_text(1)
const producersQuery = `SELECT producer_id, producer_id_text FROM producers`

// Columns: category_id(0), category_id_text(1), producer_id(2), producer_id_text(3)
const categoriesQuery = `
	SELECT c.category_id, c.category_id_text, c.producer_id, p.producer_id_text
	FROM categories AS c
	LEFT JOIN producers AS p ON c.producer_id = p.producer_id`

// Columns: tag_id(0), locale_name(1), tag_name(2), description(3)
const tagDescriptionsQuery = `SELECT tag_id, locale_name, tag_name, description FROM tag_descriptions`

// LoadProducers reads every row of the producers table.
// Rows missing a field are skipped and reported through Errors.
func (r *Reader) LoadProducers(ctx context.Context) ([]models.Producer, error) {
	var producers []models.Producer
	err := r.query(ctx, tableProducers, producersQuery, nil, func(stmt *sqlite.Stmt) bool {
		d := rowDecoder{stmt: stmt}
		p := models.Producer{
			ID:   models.ProducerID(d.requireInt64(0)),
			Name: d.requireText(1),
		}
		if d.err != nil {
			r.skip(tableProducers, stmt, d.err)
			return false
		}
		producers = append(producers, p)
		return true
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Int("count", len(producers)).Msg("Loaded producers")
	return producers, nil
}

// LoadCategories reads every row of the categories table, resolving each
// category's producer name. A dangling producer id leaves ProducerName empty.
func (r *Reader) LoadCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.query(ctx, tableCategories, categoriesQuery, nil, func(stmt *sqlite.Stmt) bool {
		d := rowDecoder{stmt: stmt}
		c := models.Category{
			ID:         models.CategoryID(d.requireInt64(0)),
			Name:       d.requireText(1),
			ProducerID: models.ProducerID(d.requireInt64(2)),
		}
		c.ProducerName, _ = d.optionalText(3)
		if d.err != nil {
			r.skip(tableCategories, stmt, d.err)
			return false
		}
		categories = append(categories, c)
		return true
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Int("count", len(categories)).Msg("Loaded categories")
	return categories, nil
}

// LoadTagDescriptions reads every row of the tag_descriptions table.
func (r *Reader) LoadTagDescriptions(ctx context.Context) ([]models.TagDescription, error) {
	var tags []models.TagDescription
	err := r.query(ctx, tableTagDescriptions, tagDescriptionsQuery, nil, func(stmt *sqlite.Stmt) bool {
		d := rowDecoder{stmt: stmt}
		t := models.TagDescription{
			ID:          models.TagDescriptionID(d.requireInt64(0)),
			Locale:      d.requireText(1),
			Name:        d.requireText(2),
			Description: d.requireText(3),
		}
		if d.err != nil {
			r.skip(tableTagDescriptions, stmt, d.err)
			return false
		}
		tags = append(tags, t)
		return true
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Int("count", len(tags)).Msg("Loaded tag descriptions")
	return tags, nil
}
