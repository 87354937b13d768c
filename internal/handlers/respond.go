// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the statbank API.
// Handlers are grouped by concern (api, admin, auth) and receive their
// dependencies through the handler struct. All responses are JSON with
// an "ok" envelope; errors carry a machine-readable "error_kind".
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"statbank/internal/schema"
	"statbank/internal/stats"
)

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// writeError maps domain errors to HTTP status codes and the JSON error
// envelope. Unclassified errors are logged and reported as storage
// failures without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var statsErr *stats.Error
	if errors.As(err, &statsErr) {
		writeJSON(w, statusForKind(statsErr.Kind), errorBody{
			ErrorKind: string(statsErr.Kind),
			Message:   statsErr.Message,
		})
		if statsErr.Kind == stats.ErrStorage {
			slog.Error("storage error", "error", err)
		}
		return
	}

	var valErr *schema.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			ErrorKind: string(stats.ErrValidation),
			Message:   valErr.Error(),
		})
		return
	}

	var nfErr *schema.NotFoundError
	if errors.As(err, &nfErr) {
		writeJSON(w, http.StatusNotFound, errorBody{
			ErrorKind: string(stats.ErrNotFound),
			Message:   nfErr.Error(),
		})
		return
	}

	slog.Error("unhandled error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{
		ErrorKind: string(stats.ErrStorage),
		Message:   "internal server error",
	})
}

func statusForKind(kind stats.ErrorKind) int {
	switch kind {
	case stats.ErrValidation:
		return http.StatusBadRequest
	case stats.ErrUnknownCategory, stats.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeBadRequest reports a request decoding or input validation failure.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		ErrorKind: string(stats.ErrValidation),
		Message:   msg,
	})
}
