// Package router sets up all HTTP routes and middleware chains for the
// statbank API. Routes are organized into public, authenticated, and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"statbank/internal/handlers"
	"statbank/internal/middleware"
	"statbank/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, api *handlers.API, admin *handlers.Admin, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	loginLimiter := middleware.NewLoginLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints.
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/me", auth.Me)

		// Record listing is public; unpublished records need a session,
		// which the handler checks when all=1 is passed.
		r.Get("/records", api.ListRecords)

		// Record submission requires a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/records", api.SubmitRecord)
		})

		// Schema administration — admin role only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.ListCategories)
				r.Post("/", admin.CreateCategory)
				r.Put("/{code}", admin.UpdateCategory)
				r.Delete("/{code}", admin.DeleteCategory)

				r.Route("/{code}/fields", func(r chi.Router) {
					r.Get("/", admin.ListFields)
					r.Post("/", admin.CreateField)
					r.Put("/{field}", admin.UpdateField)
					r.Delete("/{field}", admin.DeleteField)
				})
			})

			r.Delete("/records/{year}/{category}", admin.DeleteRecord)
			r.Post("/export", admin.Export)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
