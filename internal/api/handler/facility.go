package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gridwell/snftrack/internal/api/render"
	"github.com/gridwell/snftrack/internal/assess"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/store"
)

// FacilityHandler serves facility reads for any authenticated user and
// facility writes for admins.
type FacilityHandler struct {
	repo store.Repository
	log  *slog.Logger
}

// NewFacilityHandler creates a FacilityHandler.
func NewFacilityHandler(repo store.Repository, log *slog.Logger) *FacilityHandler {
	return &FacilityHandler{repo: repo, log: log}
}

// List handles GET /api/facilities.
func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.repo.ListFacilities()
	if err != nil {
		h.log.Error("list facilities", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not list facilities")
		return
	}
	if facilities == nil {
		facilities = []model.Facility{}
	}
	render.JSON(w, http.StatusOK, facilities)
}

// Get handles GET /api/facilities/{id}.
func (h *FacilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.repo.GetFacility(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "facility_not_found", "no facility with that id")
			return
		}
		h.log.Error("get facility", "facility_id", id, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not load facility")
		return
	}
	render.JSON(w, http.StatusOK, f)
}

// Assessment handles GET /api/facilities/{id}/assessment.
func (h *FacilityHandler) Assessment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.repo.GetFacility(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "facility_not_found", "no facility with that id")
			return
		}
		h.log.Error("get facility", "facility_id", id, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not load facility")
		return
	}
	// Progress is optional for an assessment; a facility may not have a
	// record yet.
	progress, err := h.repo.GetProgressByFacility(id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.log.Error("get progress", "facility_id", id, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not load progress")
		return
	}
	render.JSON(w, http.StatusOK, assess.Evaluate(f, progress))
}

// Create handles POST /api/admin/facilities.
func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f model.Facility
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if f.FacilityID == "" {
		render.FieldError(w, http.StatusBadRequest, "missing_field", "facility_id is required", "/facility_id")
		return
	}
	created, err := h.repo.CreateFacility(f)
	if err != nil {
		h.log.Error("create facility", "facility_id", f.FacilityID, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not create facility")
		return
	}
	render.JSON(w, http.StatusCreated, created)
}

// Update handles PATCH /api/admin/facilities/{id}.
func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch model.FacilityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	f, err := h.repo.UpdateFacility(id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "facility_not_found", "no facility with that id")
			return
		}
		h.log.Error("update facility", "facility_id", id, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "could not update facility")
		return
	}
	render.JSON(w, http.StatusOK, f)
}
