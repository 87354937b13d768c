// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"statbank/internal/models"
)

// CategoryStore manages category schema rows and the cascades that keep
// fields and records consistent when a category is renamed or deleted.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `code, name, kind, active, description, series_label, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.Code, &c.Name, &c.Kind, &c.Active,
		&c.Description, &c.SeriesLabel, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all active categories ordered by name, with record counts.
// Inactive categories are excluded from schema listings; their records
// stay in place.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.code, c.name, c.kind, c.active, c.description, c.series_label,
		       c.created_at, c.updated_at,
		       COUNT(r.id) AS record_count
		FROM categories c
		LEFT JOIN stat_records r ON r.category_code = c.code
		WHERE c.active
		GROUP BY c.code
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.Code, &c.Name, &c.Kind, &c.Active,
			&c.Description, &c.SeriesLabel, &c.CreatedAt, &c.UpdatedAt,
			&c.RecordCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByCode retrieves a category by code, active or not. Returns nil if
// not found.
func (s *CategoryStore) FindByCode(code string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE code = $1`, code)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by code: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	seriesLabel := c.SeriesLabel
	if seriesLabel == "" {
		seriesLabel = "series"
	}
	row := s.db.QueryRow(`
		INSERT INTO categories (code, name, kind, active, description, series_label)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Code, c.Name, c.Kind, c.Active, c.Description, seriesLabel,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category in place. The code is the key and
// is not changed here; use Rename for that.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, kind = $2, active = $3, description = $4,
			series_label = $5, updated_at = NOW()
		WHERE code = $6
	`, c.Name, c.Kind, c.Active, c.Description, c.SeriesLabel, c.Code)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Rename changes a category's code and cascades the new code into every
// field and record row that referenced the old one. The three updates run
// sequentially without a transaction: schema renames are rare admin
// operations and a partial failure leaves introspectable state.
func (s *CategoryStore) Rename(oldCode, newCode string) error {
	if _, err := s.db.Exec(`
		UPDATE categories SET code = $1, updated_at = NOW() WHERE code = $2
	`, newCode, oldCode); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}

	if _, err := s.db.Exec(`
		UPDATE fields SET category_code = $1, updated_at = NOW() WHERE category_code = $2
	`, newCode, oldCode); err != nil {
		return fmt.Errorf("rename category fields: %w", err)
	}

	if _, err := s.db.Exec(`
		UPDATE stat_records SET category_code = $1, updated_at = NOW() WHERE category_code = $2
	`, newCode, oldCode); err != nil {
		return fmt.Errorf("rename category records: %w", err)
	}

	return nil
}

// DeleteCascade removes a category together with its fields and records.
// Order matters: fields first, then records, then the category row, so a
// crash mid-sequence never leaves records pointing at a vanished category
// while its fields still exist.
func (s *CategoryStore) DeleteCascade(code string) error {
	if _, err := s.db.Exec(`DELETE FROM fields WHERE category_code = $1`, code); err != nil {
		return fmt.Errorf("delete category fields: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM stat_records WHERE category_code = $1`, code); err != nil {
		return fmt.Errorf("delete category records: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM categories WHERE code = $1`, code); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return nil
}
