// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schema

import (
	"context"
	"fmt"

	"statbank/internal/models"
)

// CategoryFinder is the slice of the category store the resolver needs.
type CategoryFinder interface {
	FindByCode(code string) (*models.Category, error)
}

// FieldLister is the slice of the field store the resolver needs.
type FieldLister interface {
	ListByCategory(categoryCode string) ([]models.Field, error)
}

// Resolver translates a category code into a FieldSpec. It is the single
// dispatch point for category-kind polymorphism: ingestion and projection
// both resolve once and then work against the spec, never against raw
// kind strings.
type Resolver struct {
	categories CategoryFinder
	fields     FieldLister
	cache      *Cache
}

// NewResolver creates a resolver over the given stores. cache may be nil,
// in which case every resolve reads the database directly.
func NewResolver(categories CategoryFinder, fields FieldLister, cache *Cache) *Resolver {
	return &Resolver{categories: categories, fields: fields, cache: cache}
}

// Resolve returns the FieldSpec for a category code, active or not.
// Returns nil (without error) when no category row exists: projection of
// legacy records uses that to fall back to raw-key labels.
func (r *Resolver) Resolve(ctx context.Context, code string) (*FieldSpec, error) {
	if r.cache != nil {
		if spec, ok := r.cache.Get(ctx, code); ok {
			return spec, nil
		}
	}

	cat, err := r.categories.FindByCode(code)
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", code, err)
	}
	if cat == nil {
		return nil, nil
	}

	spec := &FieldSpec{
		CategoryCode: cat.Code,
		CategoryName: cat.Name,
		Kind:         cat.Kind,
		Active:       cat.Active,
		SeriesLabel:  cat.SeriesLabel,
	}

	if cat.Kind == models.KindFixed {
		fields, err := r.fields.ListByCategory(code)
		if err != nil {
			return nil, fmt.Errorf("resolve fields for %q: %w", code, err)
		}
		for _, f := range fields {
			spec.Fields = append(spec.Fields, FieldDef{Code: f.FieldCode, Name: f.FieldName})
		}
	}

	if r.cache != nil {
		r.cache.Set(ctx, code, spec)
	}

	return spec, nil
}

// ResolveActive is the ingestion-side resolve: it returns nil for unknown
// categories and for categories that exist but are inactive.
func (r *Resolver) ResolveActive(ctx context.Context, code string) (*FieldSpec, error) {
	spec, err := r.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if spec == nil || !spec.Active {
		return nil, nil
	}
	return spec, nil
}
