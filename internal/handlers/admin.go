// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"statbank/internal/export"
	"statbank/internal/models"
	"statbank/internal/schema"
	"statbank/internal/stats"
	"statbank/internal/store"
)

// Admin groups the schema administration endpoints.
type Admin struct {
	manager    *schema.Manager
	categories *store.CategoryStore
	fields     *store.FieldStore
	records    *store.RecordStore
	exporter   *export.Exporter
}

// NewAdmin creates the admin handler group. exporter may be nil when
// object storage is not configured.
func NewAdmin(manager *schema.Manager, categories *store.CategoryStore, fields *store.FieldStore, records *store.RecordStore, exporter *export.Exporter) *Admin {
	return &Admin{
		manager:    manager,
		categories: categories,
		fields:     fields,
		records:    records,
		exporter:   exporter,
	}
}

// categoryInput is the JSON body for category create and update.
type categoryInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Active      *bool  `json:"active"`
	Description string `json:"description"`
	SeriesLabel string `json:"series_label"`
}

// fieldInput is the JSON body for field create and update.
type fieldInput struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order"`
}

// ListCategories handles GET /api/admin/categories and returns active
// categories with their record counts.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "categories": categories})
}

// CreateCategory handles POST /api/admin/categories.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if msg := validateCategoryInput(in.Name, in.Description, in.SeriesLabel); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	cat := &models.Category{
		Code:        in.Code,
		Name:        in.Name,
		Kind:        models.CategoryKind(in.Kind),
		Active:      true,
		Description: in.Description,
		SeriesLabel: in.SeriesLabel,
	}
	if in.Active != nil {
		cat.Active = *in.Active
	}

	created, err := a.manager.CreateCategory(r.Context(), cat)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "category": created})
}

// UpdateCategory handles PUT /api/admin/categories/{code}. A changed
// code in the body triggers the rename cascade across fields and records.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if msg := validateCategoryInput(in.Name, in.Description, in.SeriesLabel); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	upd := &models.Category{
		Code:        in.Code,
		Name:        in.Name,
		Kind:        models.CategoryKind(in.Kind),
		Active:      true,
		Description: in.Description,
		SeriesLabel: in.SeriesLabel,
	}
	if in.Active != nil {
		upd.Active = *in.Active
	}

	updated, err := a.manager.UpdateCategory(r.Context(), code, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "category": updated})
}

// DeleteCategory handles DELETE /api/admin/categories/{code}. The delete
// cascades into the category's fields and records.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := a.manager.DeleteCategory(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListFields handles GET /api/admin/categories/{code}/fields.
func (a *Admin) ListFields(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	cat, err := a.categories.FindByCode(code)
	if err != nil {
		writeError(w, err)
		return
	}
	if cat == nil {
		writeError(w, &schema.NotFoundError{Message: "category " + strconv.Quote(code) + " not found"})
		return
	}

	fields, err := a.fields.ListByCategory(code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "fields": fields})
}

// CreateField handles POST /api/admin/categories/{code}/fields. Missing
// sort_order appends the field after the existing ones.
func (a *Admin) CreateField(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var in fieldInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if msg := validateFieldInput(in.Name); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	f := &models.Field{
		FieldCode: in.Code,
		FieldName: in.Name,
		SortOrder: -1,
	}
	if in.SortOrder != nil {
		f.SortOrder = *in.SortOrder
	}

	created, err := a.manager.CreateField(r.Context(), code, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "field": created})
}

// UpdateField handles PUT /api/admin/categories/{code}/fields/{field}.
func (a *Admin) UpdateField(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	fieldCode := chi.URLParam(r, "field")

	var in fieldInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if msg := validateFieldInput(in.Name); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	upd := &models.Field{
		FieldCode: in.Code,
		FieldName: in.Name,
	}
	if in.SortOrder != nil {
		upd.SortOrder = *in.SortOrder
	}

	updated, err := a.manager.UpdateField(r.Context(), code, fieldCode, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "field": updated})
}

// DeleteField handles DELETE /api/admin/categories/{code}/fields/{field}.
// Stored record documents keep the deleted field's data.
func (a *Admin) DeleteField(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	fieldCode := chi.URLParam(r, "field")

	if err := a.manager.DeleteField(r.Context(), code, fieldCode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteRecord handles DELETE /api/admin/records/{year}/{category}.
func (a *Admin) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeBadRequest(w, "year must be an integer")
		return
	}
	code := chi.URLParam(r, "category")

	deleted, err := a.records.Delete(year, code)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, &schema.NotFoundError{Message: "record not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Export handles POST /api/admin/export. It snapshots all records as
// CSV and uploads the file to object storage.
func (a *Admin) Export(w http.ResponseWriter, r *http.Request) {
	if a.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			ErrorKind: string(stats.ErrStorage),
			Message:   "object storage is not configured",
		})
		return
	}

	key, err := a.exporter.Export(r.Context(), stats.Filter{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "key": key})
}
