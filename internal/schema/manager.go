// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"statbank/internal/models"
	"statbank/internal/store"
)

// codePattern is the rule for both category and field codes.
var codePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidationError reports a rejected schema mutation with a message
// suitable for direct display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a mutation that targeted a missing category or field.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Manager owns all schema mutations. It validates codes, detects
// duplicates, runs the rename/delete cascades through the category store,
// and invalidates the FieldSpec cache for every touched code.
type Manager struct {
	categories *store.CategoryStore
	fields     *store.FieldStore
	cache      *Cache
}

// NewManager creates a schema manager. cache may be nil.
func NewManager(categories *store.CategoryStore, fields *store.FieldStore, cache *Cache) *Manager {
	return &Manager{categories: categories, fields: fields, cache: cache}
}

// CreateCategory validates and inserts a new category.
func (m *Manager) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := validateCode("category code", c.Code); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Name) == "" {
		return nil, &ValidationError{Message: "category name is required"}
	}
	if c.Kind == "" {
		c.Kind = models.KindFixed
	}
	if !c.Kind.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown category kind %q", c.Kind)}
	}

	existing, err := m.categories.FindByCode(c.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("category code %q is already in use", c.Code)}
	}

	created, err := m.categories.Create(c)
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx, c.Code)
	return created, nil
}

// UpdateCategory modifies a category addressed by its current code. When
// upd.Code differs, the rename cascade rewrites the code on the category,
// its fields, and its records before the remaining attributes are updated.
func (m *Manager) UpdateCategory(ctx context.Context, code string, upd *models.Category) (*models.Category, error) {
	existing, err := m.categories.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Message: fmt.Sprintf("category %q not found", code)}
	}

	if strings.TrimSpace(upd.Name) == "" {
		return nil, &ValidationError{Message: "category name is required"}
	}
	if upd.Kind == "" {
		upd.Kind = existing.Kind
	}
	if !upd.Kind.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown category kind %q", upd.Kind)}
	}
	if upd.SeriesLabel == "" {
		upd.SeriesLabel = existing.SeriesLabel
	}

	newCode := code
	if upd.Code != "" && upd.Code != code {
		if err := validateCode("category code", upd.Code); err != nil {
			return nil, err
		}
		taken, err := m.categories.FindByCode(upd.Code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("category code %q is already in use", upd.Code)}
		}
		if err := m.categories.Rename(code, upd.Code); err != nil {
			return nil, err
		}
		newCode = upd.Code
	}

	upd.Code = newCode
	if err := m.categories.Update(upd); err != nil {
		return nil, err
	}

	m.invalidate(ctx, code, newCode)
	return m.categories.FindByCode(newCode)
}

// DeleteCategory removes a category and cascades into its fields and
// records.
func (m *Manager) DeleteCategory(ctx context.Context, code string) error {
	existing, err := m.categories.FindByCode(code)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Message: fmt.Sprintf("category %q not found", code)}
	}

	if err := m.categories.DeleteCascade(code); err != nil {
		return err
	}
	m.invalidate(ctx, code)
	return nil
}

// CreateField validates and inserts a field on a fixed category. A
// negative sort order means "append at the end".
func (m *Manager) CreateField(ctx context.Context, categoryCode string, f *models.Field) (*models.Field, error) {
	cat, err := m.categories.FindByCode(categoryCode)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, &NotFoundError{Message: fmt.Sprintf("category %q not found", categoryCode)}
	}
	if cat.Kind != models.KindFixed {
		return nil, &ValidationError{Message: "fields can only be defined on fixed categories"}
	}

	if err := validateCode("field code", f.FieldCode); err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.FieldName) == "" {
		return nil, &ValidationError{Message: "field name is required"}
	}

	existing, err := m.fields.Find(categoryCode, f.FieldCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("field code %q already exists in this category", f.FieldCode)}
	}

	if f.SortOrder < 0 {
		next, err := m.fields.NextSortOrder(categoryCode)
		if err != nil {
			return nil, err
		}
		f.SortOrder = next
	}

	f.CategoryCode = categoryCode
	created, err := m.fields.Create(f)
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx, categoryCode)
	return created, nil
}

// UpdateField modifies a field addressed by its current code. The field
// code may change; stored documents keep the keys they were written with.
func (m *Manager) UpdateField(ctx context.Context, categoryCode, fieldCode string, upd *models.Field) (*models.Field, error) {
	existing, err := m.fields.Find(categoryCode, fieldCode)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Message: fmt.Sprintf("field %q not found in category %q", fieldCode, categoryCode)}
	}

	if upd.FieldCode == "" {
		upd.FieldCode = fieldCode
	}
	if upd.FieldCode != fieldCode {
		if err := validateCode("field code", upd.FieldCode); err != nil {
			return nil, err
		}
		taken, err := m.fields.Find(categoryCode, upd.FieldCode)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("field code %q already exists in this category", upd.FieldCode)}
		}
	}
	if strings.TrimSpace(upd.FieldName) == "" {
		return nil, &ValidationError{Message: "field name is required"}
	}

	if err := m.fields.Update(categoryCode, fieldCode, upd); err != nil {
		return nil, err
	}
	m.invalidate(ctx, categoryCode)
	return m.fields.Find(categoryCode, upd.FieldCode)
}

// DeleteField removes a field definition. No cascade into record
// documents: statistics are a historical ledger, not a live-normalized view.
func (m *Manager) DeleteField(ctx context.Context, categoryCode, fieldCode string) error {
	existing, err := m.fields.Find(categoryCode, fieldCode)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Message: fmt.Sprintf("field %q not found in category %q", fieldCode, categoryCode)}
	}

	if err := m.fields.Delete(categoryCode, fieldCode); err != nil {
		return err
	}
	m.invalidate(ctx, categoryCode)
	return nil
}

// invalidate drops cached specs for the given codes, if a cache is wired.
func (m *Manager) invalidate(ctx context.Context, codes ...string) {
	if m.cache != nil {
		m.cache.Invalidate(ctx, codes...)
	}
}

// validateCode enforces the shared code rule for categories and fields.
func validateCode(what, code string) error {
	if code == "" {
		return &ValidationError{Message: what + " is required"}
	}
	if !codePattern.MatchString(code) {
		return &ValidationError{Message: what + " may only contain lowercase letters, digits and underscores"}
	}
	return nil
}
