// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import "github.com/tomtom215/winspy/internal/models"

// References holds the reference tables keyed by id. It is immutable once
// built and implements ReferenceView.
type References struct {
	producers  map[models.ProducerID]models.Producer
	categories map[models.CategoryID]models.Category
	tags       map[models.TagDescriptionID]models.TagDescription
}

// NewReferences indexes the loaded reference rows by id. When an id repeats,
// the last row wins.
func NewReferences(producers []models.Producer, categories []models.Category, tags []models.TagDescription) *References {
	r := &References{
		producers:  make(map[models.ProducerID]models.Producer, len(producers)),
		categories: make(map[models.CategoryID]models.Category, len(categories)),
		tags:       make(map[models.TagDescriptionID]models.TagDescription, len(tags)),
	}
	for _, p := range producers {
		r.producers[p.ID] = p
	}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	for _, t := range tags {
		r.tags[t.ID] = t
	}
	return r
}

// ProducerByID looks up a producer. Dangling ids return false.
func (r *References) ProducerByID(id models.ProducerID) (models.Producer, bool) {
	p, ok := r.producers[id]
	return p, ok
}

// CategoryByID looks up a category. Dangling ids return false.
func (r *References) CategoryByID(id models.CategoryID) (models.Category, bool) {
	c, ok := r.categories[id]
	return c, ok
}

// TagByID looks up a tag description. Dangling ids return false.
func (r *References) TagByID(id models.TagDescriptionID) (models.TagDescription, bool) {
	t, ok := r.tags[id]
	return t, ok
}

// Counts returns the number of producers, categories and tags indexed.
func (r *References) Counts() (producers, categories, tags int) {
	return len(r.producers), len(r.categories), len(r.tags)
}
