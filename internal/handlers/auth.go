// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"statbank/internal/middleware"
	"statbank/internal/session"
	"statbank/internal/store"
)

// Auth groups the authentication endpoints.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates the auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

// loginInput is the JSON body for POST /api/login.
type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login. Invalid credentials always produce the
// same response so the endpoint does not reveal which accounts exist.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := a.userStore.FindByEmail(in.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			ErrorKind: "storage",
			Message:   "internal server error",
		})
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, in.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			ErrorKind: "auth",
			Message:   "invalid email or password",
		})
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			ErrorKind: "storage",
			Message:   "internal server error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"email": user.Email,
		"role":  user.Role,
	})
}

// Logout handles POST /api/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Me handles GET /api/me and reports the current session identity.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			ErrorKind: "auth",
			Message:   "not logged in",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
	})
}
