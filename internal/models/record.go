// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document is the stored key/value payload of a statistic record. Keys
// are field codes (fixed categories) or series_N keys (numbered-series
// categories); values are non-negative counts.
type Document map[string]int64

// Value marshals the document to JSON for the JSONB column.
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

// Scan unmarshals a JSONB column into the document. A malformed stored
// document scans as empty rather than failing the whole row set; the
// record then projects as "no data".
func (d *Document) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*d = Document{}
		return nil
	default:
		return fmt.Errorf("scan document: unsupported type %T", src)
	}

	m := Document{}
	if err := json.Unmarshal(b, &m); err != nil {
		*d = Document{}
		return nil
	}
	*d = m
	return nil
}

// StatRecord is one year's worth of data for one category. At most one
// record exists per (year, category_code) pair.
type StatRecord struct {
	ID           uuid.UUID `json:"id"`
	Year         int       `json:"year"`
	CategoryCode string    `json:"category_code"`
	Source       string    `json:"source"`
	Document     Document  `json:"document"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
