// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

import (
	"testing"

	"github.com/tomtom215/winspy/internal/models"
)

func TestReferences_Lookups(t *testing.T) {
	t.Parallel()

	refs := NewReferences(
		[]models.Producer{{ID: 1, Name: "Windows"}, {ID: 2, Name: "Office"}, {ID: 1, Name: "Windows 11"}},
		[]models.Category{{ID: 10, Name: "Product and Service Usage", ProducerID: 1, ProducerName: "Windows 11"}},
		[]models.TagDescription{{ID: 100, Name: "Browsing History", Locale: "en-US"}},
	)

	if p, ok := refs.ProducerByID(1); !ok || p.Name != "Windows 11" {
		t.Errorf("ProducerByID(1) = %+v, %v; last duplicate should win", p, ok)
	}
	if _, ok := refs.ProducerByID(99); ok {
		t.Error("dangling producer id should miss")
	}
	if c, ok := refs.CategoryByID(10); !ok || c.ProducerID != 1 {
		t.Errorf("CategoryByID(10) = %+v, %v", c, ok)
	}
	if _, ok := refs.CategoryByID(11); ok {
		t.Error("dangling category id should miss")
	}
	if tag, ok := refs.TagByID(100); !ok || tag.Name != "Browsing History" {
		t.Errorf("TagByID(100) = %+v, %v", tag, ok)
	}
	if _, ok := refs.TagByID(101); ok {
		t.Error("dangling tag id should miss")
	}

	p, c, tg := refs.Counts()
	if p != 2 || c != 1 || tg != 1 {
		t.Errorf("Counts = %d, %d, %d; want 2, 1, 1", p, c, tg)
	}
}

func TestReferences_Empty(t *testing.T) {
	t.Parallel()

	var view ReferenceView = NewReferences(nil, nil, nil)
	if _, ok := view.ProducerByID(0); ok {
		t.Error("empty references should not find anything")
	}
}
