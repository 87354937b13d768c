// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package stats

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"statbank/internal/models"
	"statbank/internal/schema"
)

// Filter selects which records a query returns. Zero values for Year and
// CategoryCode mean "no filter".
type Filter struct {
	PublishedOnly bool
	Year          int
	CategoryCode  string
}

// LabeledValue is one display-ready (label, value) pair of a projected record.
type LabeledValue struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Projection is a record with its document expanded into labeled values,
// the shape consumed by tables, charts and the public API.
type Projection struct {
	ID            uuid.UUID      `json:"id"`
	Year          int            `json:"year"`
	CategoryCode  string         `json:"category_code"`
	CategoryName  string         `json:"category_name"`
	Source        string         `json:"source"`
	LabeledFields []LabeledValue `json:"labeled_fields"`
	Published     bool           `json:"published"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// RecordLister is the slice of the record store the projector needs.
type RecordLister interface {
	List(publishedOnly bool, year int, categoryCode string) ([]models.StatRecord, error)
}

// Projector is the read-side inverse of the ingestor.
type Projector struct {
	resolver *schema.Resolver
	records  RecordLister
}

// NewProjector creates a projector over the given resolver and record store.
func NewProjector(resolver *schema.Resolver, records RecordLister) *Projector {
	return &Projector{resolver: resolver, records: records}
}

// Query returns the matching records ordered by year descending then
// category code ascending, each with its document expanded into labeled
// values. Records whose category no longer resolves are never dropped:
// they project with their raw document keys as labels.
func (p *Projector) Query(ctx context.Context, f Filter) ([]Projection, error) {
	recs, err := p.records.List(f.PublishedOnly, f.Year, f.CategoryCode)
	if err != nil {
		return nil, storage("list records", err)
	}

	// Memoize specs per call so a year listing resolves each category once.
	specs := make(map[string]*schema.FieldSpec)

	out := make([]Projection, 0, len(recs))
	for _, rec := range recs {
		spec, seen := specs[rec.CategoryCode]
		if !seen {
			spec, err = p.resolver.Resolve(ctx, rec.CategoryCode)
			if err != nil {
				// Skip-and-warn: a resolve failure degrades this
				// category to raw-key labels instead of failing the query.
				slog.Warn("category resolve failed during projection",
					"category", rec.CategoryCode, "error", err)
				spec = nil
			}
			specs[rec.CategoryCode] = spec
		}

		name := rec.CategoryCode
		if spec != nil {
			name = spec.CategoryName
		}

		out = append(out, Projection{
			ID:            rec.ID,
			Year:          rec.Year,
			CategoryCode:  rec.CategoryCode,
			CategoryName:  name,
			Source:        rec.Source,
			LabeledFields: projectDocument(spec, rec.Document),
			Published:     rec.Published,
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		})
	}
	return out, nil
}

// projectDocument expands a stored document into ordered labeled values.
//
// Fixed categories iterate in FieldSpec order, not document order. Keys
// the current schema no longer knows (the field was deleted after the
// record was written) are still emitted, labeled with their raw key.
// Numbered-series keys sort by their numeric ordinal, so series_10 comes
// after series_9. With no spec at all, raw keys are their own labels.
func projectDocument(spec *schema.FieldSpec, doc models.Document) []LabeledValue {
	if len(doc) == 0 {
		return nil
	}

	if spec == nil {
		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]LabeledValue, 0, len(keys))
		for _, k := range keys {
			out = append(out, LabeledValue{Label: k, Value: doc[k]})
		}
		return out
	}

	var out []LabeledValue
	leftover := make(map[string]bool, len(doc))
	for k := range doc {
		leftover[k] = true
	}

	switch spec.Kind {
	case models.KindNumberedSeries:
		type entry struct {
			ordinal int
			key     string
		}
		var entries []entry
		for k := range doc {
			if n, ok := schema.SeriesOrdinal(k); ok {
				entries = append(entries, entry{ordinal: n, key: k})
				delete(leftover, k)
			}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].ordinal < entries[j].ordinal })
		label := spec.SeriesLabel
		if label == "" {
			label = "series"
		}
		for _, e := range entries {
			out = append(out, LabeledValue{
				Label: label + " " + strconv.Itoa(e.ordinal),
				Value: doc[e.key],
			})
		}

	default: // models.KindFixed
		for _, f := range spec.Fields {
			if v, ok := doc[f.Code]; ok {
				out = append(out, LabeledValue{Label: f.Name, Value: v})
				delete(leftover, f.Code)
			}
		}
	}

	// Orphaned keys keep their place in the output, raw-labeled.
	if len(leftover) > 0 {
		rest := make([]string, 0, len(leftover))
		for k := range leftover {
			rest = append(rest, k)
		}
		sort.Strings(rest)
		for _, k := range rest {
			out = append(out, LabeledValue{Label: k, Value: doc[k]})
		}
	}

	return out
}
