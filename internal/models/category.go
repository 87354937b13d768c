// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared by the stores and the
// statistics pipelines: categories, their field definitions, and the
// yearly statistic records.
package models

import "time"

// CategoryKind is the closed tag that decides how a category's document
// keys are interpreted. A fixed category has an explicit field list; a
// numbered-series category accepts an open-ended run of series_N keys.
type CategoryKind string

const (
	KindFixed          CategoryKind = "fixed"
	KindNumberedSeries CategoryKind = "numbered_series"
)

// Valid reports whether k is one of the two known kinds.
func (k CategoryKind) Valid() bool {
	return k == KindFixed || k == KindNumberedSeries
}

// Category is the schema root for one statistic group. The code is the
// stable identifier records reference; changing it is a deliberate
// cascading rename, never a silent key swap.
type Category struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Kind        CategoryKind `json:"kind"`
	Active      bool         `json:"active"`
	Description string       `json:"description"`
	SeriesLabel string       `json:"series_label"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Virtual field populated by CategoryStore.List.
	RecordCount int `json:"record_count"`
}
