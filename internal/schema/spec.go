// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package schema turns category definitions into concrete field
// contracts. The resolver produces a FieldSpec per category code; the
// manager owns all schema mutations and the cascades that keep field and
// record rows consistent with them.
package schema

import (
	"regexp"
	"strconv"

	"statbank/internal/models"
)

// FieldDef is one entry of a fixed category's field list, in display order.
type FieldDef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FieldSpec is the resolved contract for a category: which document keys
// are valid and how they are labeled. For fixed categories Fields holds
// the ordered list; for numbered-series categories any series_N key is
// valid and Fields is empty.
type FieldSpec struct {
	CategoryCode string              `json:"category_code"`
	CategoryName string              `json:"category_name"`
	Kind         models.CategoryKind `json:"kind"`
	Active       bool                `json:"active"`
	SeriesLabel  string              `json:"series_label"`
	Fields       []FieldDef          `json:"fields,omitempty"`
}

// FieldName returns the display name for a field code, if the spec knows it.
func (s *FieldSpec) FieldName(code string) (string, bool) {
	for _, f := range s.Fields {
		if f.Code == code {
			return f.Name, true
		}
	}
	return "", false
}

// seriesKey matches the document keys of numbered-series categories.
var seriesKey = regexp.MustCompile(`^series_(\d+)$`)

// SeriesOrdinal parses the numeric suffix out of a series_N key. The
// ordinal is the display position, so series_10 sorts after series_9.
func SeriesOrdinal(key string) (int, bool) {
	m := seriesKey.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
