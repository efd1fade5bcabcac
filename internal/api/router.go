// Package api wires all API routes onto the provided ServeMux.
package api

import (
	"net/http"

	"github.com/gridwell/snftrack/internal/api/handler"
	"github.com/gridwell/snftrack/internal/api/middleware"
	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/health"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Health    *health.Handler
	Auth      *handler.AuthHandler
	Facility  *handler.FacilityHandler
	Progress  *handler.ProgressHandler
	Admin     *handler.AdminHandler
	DataFiles *handler.DataFileHandler
	Sessions  *auth.Sessions
}

// RegisterRoutes registers all application routes on mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	// Public health endpoints (no auth required)
	mux.HandleFunc("GET /api/v1/health", h.Health.ServeHealth)
	mux.HandleFunc("GET /api/v1/ready", h.Health.ServeReady)

	// Public raw data passthrough
	mux.HandleFunc("GET /api/snf-data", h.DataFiles.SNFData)
	mux.HandleFunc("GET /api/docs/{filename}", h.DataFiles.Doc)

	// Account endpoints (no auth required)
	mux.HandleFunc("POST /api/register", h.Auth.Register)
	mux.HandleFunc("POST /api/login", h.Auth.Login)
	mux.HandleFunc("POST /api/logout", h.Auth.Logout)

	// Session-required routes
	session := middleware.RequireSession(h.Sessions)
	mux.Handle("GET /api/user", session(http.HandlerFunc(h.Auth.CurrentUser)))
	mux.Handle("GET /api/facilities", session(http.HandlerFunc(h.Facility.List)))
	mux.Handle("GET /api/facilities/{id}", session(http.HandlerFunc(h.Facility.Get)))
	mux.Handle("GET /api/facilities/{id}/assessment", session(http.HandlerFunc(h.Facility.Assessment)))
	mux.Handle("POST /api/facility-progress", session(http.HandlerFunc(h.Progress.Upsert)))
	mux.Handle("GET /api/facility-progress/{facilityId}", session(http.HandlerFunc(h.Progress.GetByFacility)))

	// Admin-only routes
	admin := func(hf http.HandlerFunc) http.Handler {
		return session(middleware.RequireAdmin(hf))
	}
	mux.Handle("GET /api/admin/users", admin(h.Admin.ListUsers))
	mux.Handle("GET /api/admin/facility-progress", admin(h.Admin.ListProgress))
	mux.Handle("POST /api/admin/facilities", admin(h.Facility.Create))
	mux.Handle("PATCH /api/admin/facilities/{id}", admin(h.Facility.Update))

	// Catch-all 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
