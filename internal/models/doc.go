// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

/*
Package models defines the normalized data structures Winspy builds from an
EventTranscript.db store.

Key Components:

  - Record: one decoded row of the events_persisted table, with its
    provider group, logging binary, producer reference and correlated
    category/tag ids
  - Payload: the event payload, either parsed JSON, the raw text that
    failed to parse, or nothing
  - Producer, Category, TagDescription: reference table entities keyed by
    numeric id

Records are constructed once by the database reader and never modified
afterwards. Reference entities are loaded once and shared read-only with
every detector.

Id Types:

ProducerID, CategoryID and TagDescriptionID are distinct integer types so a
category id can never be used to look up a tag by accident. The store does
not enforce referential integrity, so any id may be dangling.
*/
package models
