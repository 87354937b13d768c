// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"statbank/internal/models"
	"statbank/internal/schema"
)

// Submission is a flat form submission for one (year, category) record.
// Field keys are namespaced by the category code, e.g. blood_type_a_pos.
// When IsEdit is set, the record currently stored under the original
// (year, category) key is rewritten, which allows moving a record to a
// new year or category.
type Submission struct {
	Year                 int               `json:"year"`
	CategoryCode         string            `json:"category_code"`
	Source               string            `json:"source"`
	Published            bool              `json:"published"`
	IsEdit               bool              `json:"is_edit"`
	OriginalYear         int               `json:"original_year"`
	OriginalCategoryCode string            `json:"original_category_code"`
	Fields               map[string]string `json:"fields"`
}

// RecordWriter is the slice of the record store the ingestor needs.
type RecordWriter interface {
	Upsert(r *models.StatRecord) (*models.StatRecord, error)
	UpdateByKey(origYear int, origCategoryCode string, r *models.StatRecord) (*models.StatRecord, error)
}

// Ingestor converts submissions into stored records.
type Ingestor struct {
	resolver *schema.Resolver
	records  RecordWriter
}

// NewIngestor creates an ingestor over the given resolver and record store.
func NewIngestor(resolver *schema.Resolver, records RecordWriter) *Ingestor {
	return &Ingestor{resolver: resolver, records: records}
}

// Ingest validates a submission against its category's schema and
// upserts the resulting record. Writes are all-or-nothing: either the
// full document is committed or an error is returned.
func (i *Ingestor) Ingest(ctx context.Context, sub Submission) (*models.StatRecord, error) {
	spec, err := i.resolver.ResolveActive(ctx, sub.CategoryCode)
	if err != nil {
		return nil, storage("resolve category", err)
	}
	if spec == nil {
		return nil, unknownCategory(sub.CategoryCode)
	}

	doc := buildDocument(spec, sub.Fields)
	if len(doc) == 0 {
		return nil, validation("data must not be empty")
	}

	rec := &models.StatRecord{
		Year:         sub.Year,
		CategoryCode: sub.CategoryCode,
		Source:       strings.TrimSpace(sub.Source),
		Document:     doc,
		Published:    sub.Published,
	}

	if sub.IsEdit {
		origYear := sub.OriginalYear
		if origYear == 0 {
			origYear = sub.Year
		}
		origCode := sub.OriginalCategoryCode
		if origCode == "" {
			origCode = sub.CategoryCode
		}

		updated, err := i.records.UpdateByKey(origYear, origCode, rec)
		if err != nil {
			return nil, storage("update record", err)
		}
		if updated == nil {
			return nil, notFound(fmt.Sprintf("no record for year %d and category %q", origYear, origCode))
		}
		return updated, nil
	}

	saved, err := i.records.Upsert(rec)
	if err != nil {
		return nil, storage("save record", err)
	}
	return saved, nil
}

// buildDocument filters a flat submission down to the keys the category
// schema accepts and coerces the values. Keys outside the category's
// namespace and keys unknown to the schema are dropped silently, which
// tolerates stale form fields from a previous schema version. An empty
// value means "omit this key", not zero; negative values clamp to zero.
func buildDocument(spec *schema.FieldSpec, fields map[string]string) models.Document {
	prefix := spec.CategoryCode + "_"

	known := make(map[string]bool, len(spec.Fields))
	for _, f := range spec.Fields {
		known[f.Code] = true
	}

	doc := models.Document{}
	for key, raw := range fields {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		k := strings.TrimPrefix(key, prefix)

		switch spec.Kind {
		case models.KindFixed:
			if !known[k] {
				continue
			}
		case models.KindNumberedSeries:
			if _, ok := schema.SeriesOrdinal(k); !ok {
				continue
			}
		default:
			continue
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		// Non-numeric input coerces to zero rather than failing the
		// whole submission.
		v, _ := strconv.ParseInt(raw, 10, 64)
		if v < 0 {
			v = 0
		}
		doc[k] = v
	}
	return doc
}
