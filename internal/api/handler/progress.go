package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gridwell/snftrack/internal/api/middleware"
	"github.com/gridwell/snftrack/internal/api/render"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/store"
)

// ProgressHandler serves facility progress reads and the create-or-update
// save endpoint. Any authenticated user may read or write any facility's
// progress; the session only provides attribution, not authorization.
type ProgressHandler struct {
	repo store.Repository
	log  *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(repo store.Repository, log *slog.Logger) *ProgressHandler {
	return &ProgressHandler{repo: repo, log: log}
}

// Upsert handles POST /api/facility-progress. The user_id recorded on the
// row always comes from the session, never from the body.
func (h *ProgressHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in model.FacilityProgress
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if in.FacilityID == "" {
		render.FieldError(w, http.StatusBadRequest, "missing_field", "facility_id is required", "/facility_id")
		return
	}

	if su, ok := middleware.UserFromContext(r.Context()); ok {
		in.UserID = &su.UserID
	}

	rec, err := h.repo.UpsertProgress(in)
	if err != nil {
		h.log.Error("upsert progress", "facility_id", in.FacilityID, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not save progress")
		return
	}
	render.JSON(w, http.StatusOK, rec)
}

// GetByFacility handles GET /api/facility-progress/{facilityId}.
func (h *ProgressHandler) GetByFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("facilityId")
	rec, err := h.repo.GetProgressByFacility(facilityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "progress_not_found", "no progress record for that facility")
			return
		}
		h.log.Error("get progress", "facility_id", facilityID, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not load progress")
		return
	}
	render.JSON(w, http.StatusOK, rec)
}

// AdminHandler serves the admin oversight listings.
type AdminHandler struct {
	repo store.Repository
	log  *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(repo store.Repository, log *slog.Logger) *AdminHandler {
	return &AdminHandler{repo: repo, log: log}
}

// ListUsers handles GET /api/admin/users. Password hashes never reach the
// response: the model strips them at the JSON boundary.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers()
	if err != nil {
		h.log.Error("list users", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	render.JSON(w, http.StatusOK, users)
}

// ListProgress handles GET /api/admin/facility-progress.
func (h *AdminHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.ListProgress()
	if err != nil {
		h.log.Error("list progress", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not list progress records")
		return
	}
	if records == nil {
		records = []model.FacilityProgress{}
	}
	render.JSON(w, http.StatusOK, records)
}
