// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"statbank/internal/models"
)

// RecordStore handles statistic record rows. The (year, category_code)
// pair is unique; the upsert leans on that constraint instead of a
// check-then-write sequence.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore returns a new RecordStore.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

const recordColumns = `id, year, category_code, source, document, published, created_at, updated_at`

// scanRecord scans a row into a StatRecord struct.
func scanRecord(scanner interface{ Scan(...any) error }) (*models.StatRecord, error) {
	var r models.StatRecord
	err := scanner.Scan(
		&r.ID, &r.Year, &r.CategoryCode, &r.Source,
		&r.Document, &r.Published, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns records matching the filters, ordered by year descending
// then category code ascending. Zero values mean "no filter" for year and
// category.
func (s *RecordStore) List(publishedOnly bool, year int, categoryCode string) ([]models.StatRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM stat_records WHERE 1=1`
	var args []any

	if publishedOnly {
		query += ` AND published`
	}
	if year != 0 {
		args = append(args, year)
		query += fmt.Sprintf(` AND year = $%d`, len(args))
	}
	if categoryCode != "" {
		args = append(args, categoryCode)
		query += fmt.Sprintf(` AND category_code = $%d`, len(args))
	}
	query += ` ORDER BY year DESC, category_code ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var items []models.StatRecord
	for rows.Next() {
		var r models.StatRecord
		if err := rows.Scan(
			&r.ID, &r.Year, &r.CategoryCode, &r.Source,
			&r.Document, &r.Published, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// FindByKey retrieves the record for a (year, category) pair. Returns nil
// if not found.
func (s *RecordStore) FindByKey(year int, categoryCode string) (*models.StatRecord, error) {
	row := s.db.QueryRow(`
		SELECT `+recordColumns+` FROM stat_records
		WHERE year = $1 AND category_code = $2
	`, year, categoryCode)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find record by key: %w", err)
	}
	return r, nil
}

// Upsert inserts a record or, when one already exists for the same
// (year, category_code), replaces its payload in place. created_at is
// preserved across re-ingestion; updated_at advances. The single
// statement makes concurrent identical submissions converge on one row.
func (s *RecordStore) Upsert(r *models.StatRecord) (*models.StatRecord, error) {
	row := s.db.QueryRow(`
		INSERT INTO stat_records (year, category_code, source, document, published)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, category_code) DO UPDATE SET
			source = EXCLUDED.source,
			document = EXCLUDED.document,
			published = EXCLUDED.published,
			updated_at = NOW()
		RETURNING `+recordColumns,
		r.Year, r.CategoryCode, r.Source, r.Document, r.Published,
	)
	result, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("upsert record: %w", err)
	}
	return result, nil
}

// UpdateByKey rewrites the record currently stored under the original
// (year, category) key, possibly moving it to a new key. Used by the edit
// path, where year and category may both change. Returns nil if no record
// exists under the original key; a unique violation on the target key is
// surfaced as-is.
func (s *RecordStore) UpdateByKey(origYear int, origCategoryCode string, r *models.StatRecord) (*models.StatRecord, error) {
	row := s.db.QueryRow(`
		UPDATE stat_records SET
			year = $1, category_code = $2, source = $3, document = $4,
			published = $5, updated_at = NOW()
		WHERE year = $6 AND category_code = $7
		RETURNING `+recordColumns,
		r.Year, r.CategoryCode, r.Source, r.Document, r.Published,
		origYear, origCategoryCode,
	)
	result, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update record by key: %w", err)
	}
	return result, nil
}

// Delete removes the record for a (year, category) pair. Returns false if
// no such record existed.
func (s *RecordStore) Delete(year int, categoryCode string) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM stat_records WHERE year = $1 AND category_code = $2
	`, year, categoryCode)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete record rows: %w", err)
	}
	return n > 0, nil
}
