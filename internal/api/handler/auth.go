// Package handler contains HTTP handlers grouped by resource.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gridwell/snftrack/internal/api/middleware"
	"github.com/gridwell/snftrack/internal/api/render"
	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/store"
)

// AuthHandler handles /api/register, /api/login, /api/logout and /api/user.
type AuthHandler struct {
	repo     store.Repository
	sessions *auth.Sessions
	log      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(repo store.Repository, sessions *auth.Sessions, log *slog.Logger) *AuthHandler {
	return &AuthHandler{repo: repo, sessions: sessions, log: log}
}

type registerRequest struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if req.Username == "" {
		render.FieldError(w, http.StatusBadRequest, "missing_field", "username is required", "/username")
		return
	}
	if req.Password == "" {
		render.FieldError(w, http.StatusBadRequest, "missing_field", "password is required", "/password")
		return
	}
	if req.Role != "" && req.Role != model.RoleClient && req.Role != model.RoleAdmin {
		render.FieldError(w, http.StatusBadRequest, "invalid_field", "role must be \"client\" or \"admin\"", "/role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "registration failed")
		return
	}

	createdAt := req.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	u, err := h.repo.CreateUser(model.User{
		Username:  req.Username,
		Password:  hash,
		Role:      req.Role,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: createdAt,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			render.FieldError(w, http.StatusBadRequest, "username_taken", "username already exists", "/username")
			return
		}
		h.log.Error("create user", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "registration failed")
		return
	}

	if err := h.sessions.Establish(w, auth.SessionUser{UserID: u.ID, Username: u.Username, Role: u.Role}); err != nil {
		h.log.Error("establish session", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "registration failed")
		return
	}
	render.JSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		render.Error(w, http.StatusBadRequest, "missing_field", "username and password are required")
		return
	}

	u, err := h.repo.GetUserByUsername(req.Username)
	if err != nil || !auth.VerifyPassword(req.Password, u.Password) {
		render.Error(w, http.StatusUnauthorized, "invalid_credentials", "username or password is incorrect")
		return
	}

	if err := h.sessions.Establish(w, auth.SessionUser{UserID: u.ID, Username: u.Username, Role: u.Role}); err != nil {
		h.log.Error("establish session", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}
	render.JSON(w, http.StatusOK, u)
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CurrentUser handles GET /api/user (session required).
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	su, ok := middleware.UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "not_authenticated", "a valid session is required")
		return
	}
	u, err := h.repo.GetUserByID(su.UserID)
	if err != nil {
		// Session outlived the account (memory store restart); treat as unauthenticated.
		render.Error(w, http.StatusUnauthorized, "not_authenticated", "a valid session is required")
		return
	}
	render.JSON(w, http.StatusOK, u)
}
