// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package models

// ProducerID identifies a row of the producers table.
type ProducerID int64

// CategoryID identifies a row of the categories table.
type CategoryID int64

// TagDescriptionID identifies a row of the tag_descriptions table.
type TagDescriptionID int64

// Producer describes an event producer (e.g. "Windows", "Edge").
//
// Source: producers table (producer_id, producer_id_text).
type Producer struct {
	ID   ProducerID `json:"id"`
	Name string     `json:"name"`
}

// Category is a diagnostic data category.
//
// Source: categories table, joined with producers at load time.
// ProducerName is empty when the producer id is dangling.
type Category struct {
	ID           CategoryID `json:"id"`
	Name         string     `json:"name"`
	ProducerID   ProducerID `json:"producer_id"`
	ProducerName string     `json:"producer_name,omitempty"`
}

// TagDescription describes an event tag (a category in a sense),
// e.g. "Browsing History".
//
// Source: tag_descriptions table (tag_id, tag_name, description, locale_name).
type TagDescription struct {
	ID          TagDescriptionID `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Locale      string           `json:"locale"`
}
