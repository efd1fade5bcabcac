// Package health exposes the /api/v1/health and /api/v1/ready HTTP handlers.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gridwell/snftrack/internal/api/render"
	"github.com/gridwell/snftrack/internal/version"
)

// Pinger is implemented by anything that can check a downstream dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for the health and ready endpoints.
type Handler struct {
	db        Pinger
	startTime time.Time
}

// New creates a Handler. db may be nil when the service runs on the
// in-memory store; in that case /ready reports ok without a ping.
func New(db Pinger) *Handler {
	return &Handler{db: db, startTime: time.Now()}
}

type healthBody struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	BuildDate     string `json:"build_date"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ServeHealth handles GET /api/v1/health.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, healthBody{
		Status:        "ok",
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.Date,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// ServeReady handles GET /api/v1/ready.
// Returns 200 when the backing store is reachable; 503 otherwise.
func (h *Handler) ServeReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		render.Error(w, http.StatusServiceUnavailable,
			"dependency_unavailable", "database is unreachable")
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
