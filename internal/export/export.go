// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export produces CSV snapshots of statistics records and
// archives them to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"statbank/internal/stats"
)

// Uploader is the subset of the storage client the exporter needs.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}

// Exporter builds CSV snapshots from projected records and uploads them.
type Exporter struct {
	projector *stats.Projector
	uploader  Uploader
}

// New creates an exporter. uploader may be nil; Export then fails with a
// clear error instead of panicking, so the endpoint can report that
// storage is not configured.
func New(projector *stats.Projector, uploader Uploader) *Exporter {
	return &Exporter{projector: projector, uploader: uploader}
}

// Export projects all records matching the filter, renders them as CSV,
// and uploads the snapshot. Returns the object key of the upload.
func (e *Exporter) Export(ctx context.Context, filter stats.Filter) (string, error) {
	if e.uploader == nil {
		return "", fmt.Errorf("export: object storage is not configured")
	}

	projections, err := e.projector.Query(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("export query: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, projections); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}

	key := fmt.Sprintf("exports/statbank-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if err := e.uploader.Upload(ctx, key, "text/csv", &buf, int64(buf.Len())); err != nil {
		return "", err
	}

	slog.Info("export uploaded", "key", key, "records", len(projections))
	return key, nil
}

// WriteCSV renders projections as CSV rows. Each labeled value becomes
// its own row so the output stays flat regardless of category shape.
func WriteCSV(w io.Writer, projections []stats.Projection) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"year", "category_code", "category_name", "source", "field", "value", "published"}); err != nil {
		return err
	}

	for _, p := range projections {
		base := []string{
			strconv.Itoa(p.Year),
			p.CategoryCode,
			p.CategoryName,
			p.Source,
		}
		if len(p.LabeledFields) == 0 {
			row := append(append([]string{}, base...), "", "", strconv.FormatBool(p.Published))
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, lv := range p.LabeledFields {
			row := append(append([]string{}, base...),
				lv.Label,
				strconv.FormatInt(lv.Value, 10),
				strconv.FormatBool(p.Published),
			)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
