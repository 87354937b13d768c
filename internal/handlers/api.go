// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"statbank/internal/middleware"
	"statbank/internal/stats"
)

// API groups the statistics record endpoints.
type API struct {
	ingestor  *stats.Ingestor
	projector *stats.Projector
}

// NewAPI creates the statistics API handler group.
func NewAPI(ingestor *stats.Ingestor, projector *stats.Projector) *API {
	return &API{ingestor: ingestor, projector: projector}
}

// SubmitRecord handles POST /api/records. It accepts a submission with
// raw form field values and creates or updates the record for the
// (year, category) pair.
func (a *API) SubmitRecord(w http.ResponseWriter, r *http.Request) {
	var sub stats.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if msg := validateSubmission(&sub); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	record, err := a.ingestor.Ingest(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"record_id": record.ID,
		"year":      record.Year,
		"category":  record.CategoryCode,
	})
}

// ListRecords handles GET /api/records. Anonymous callers see published
// records only; authenticated callers may pass all=1 to include drafts.
func (a *API) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := stats.Filter{PublishedOnly: true}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeBadRequest(w, "year must be an integer")
			return
		}
		filter.Year = year
	}
	filter.CategoryCode = r.URL.Query().Get("category")

	if r.URL.Query().Get("all") == "1" {
		if middleware.SessionFromCtx(r.Context()) == nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{
				ErrorKind: "auth",
				Message:   "authentication required to list unpublished records",
			})
			return
		}
		filter.PublishedOnly = false
	}

	projections, err := a.projector.Query(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"records": projections,
	})
}
