// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"statbank/internal/models"
)

// FieldStore manages the field definitions of fixed categories.
type FieldStore struct {
	db *sql.DB
}

// NewFieldStore returns a new FieldStore.
func NewFieldStore(db *sql.DB) *FieldStore {
	return &FieldStore{db: db}
}

const fieldColumns = `category_code, field_code, field_name, sort_order, created_at, updated_at`

// scanField scans a row into a Field struct.
func scanField(scanner interface{ Scan(...any) error }) (*models.Field, error) {
	var f models.Field
	err := scanner.Scan(
		&f.CategoryCode, &f.FieldCode, &f.FieldName,
		&f.SortOrder, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByCategory returns a category's fields in display order. Sort order
// ties break by insertion order.
func (s *FieldStore) ListByCategory(categoryCode string) ([]models.Field, error) {
	rows, err := s.db.Query(`
		SELECT `+fieldColumns+`
		FROM fields
		WHERE category_code = $1
		ORDER BY sort_order, created_at, field_code
	`, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	var items []models.Field
	for rows.Next() {
		var f models.Field
		if err := rows.Scan(
			&f.CategoryCode, &f.FieldCode, &f.FieldName,
			&f.SortOrder, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// Find retrieves a single field by its composite key. Returns nil if not found.
func (s *FieldStore) Find(categoryCode, fieldCode string) (*models.Field, error) {
	row := s.db.QueryRow(`
		SELECT `+fieldColumns+` FROM fields
		WHERE category_code = $1 AND field_code = $2
	`, categoryCode, fieldCode)
	f, err := scanField(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find field: %w", err)
	}
	return f, nil
}

// Create inserts a new field and returns it.
func (s *FieldStore) Create(f *models.Field) (*models.Field, error) {
	row := s.db.QueryRow(`
		INSERT INTO fields (category_code, field_code, field_name, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+fieldColumns,
		f.CategoryCode, f.FieldCode, f.FieldName, f.SortOrder,
	)
	result, err := scanField(row)
	if err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}
	return result, nil
}

// Update modifies a field addressed by its current composite key. The
// field code itself may change; stored documents are never rewritten to
// follow it.
func (s *FieldStore) Update(categoryCode, fieldCode string, f *models.Field) error {
	_, err := s.db.Exec(`
		UPDATE fields SET
			field_code = $1, field_name = $2, sort_order = $3, updated_at = NOW()
		WHERE category_code = $4 AND field_code = $5
	`, f.FieldCode, f.FieldName, f.SortOrder, categoryCode, fieldCode)
	if err != nil {
		return fmt.Errorf("update field: %w", err)
	}
	return nil
}

// Delete removes a field definition. Documents already stored with this
// key keep it; projection falls back to the raw key as its label.
func (s *FieldStore) Delete(categoryCode, fieldCode string) error {
	_, err := s.db.Exec(`
		DELETE FROM fields WHERE category_code = $1 AND field_code = $2
	`, categoryCode, fieldCode)
	if err != nil {
		return fmt.Errorf("delete field: %w", err)
	}
	return nil
}

// NextSortOrder returns the next sort_order value for a category.
func (s *FieldStore) NextSortOrder(categoryCode string) (int, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(sort_order) FROM fields WHERE category_code = $1
	`, categoryCode).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
