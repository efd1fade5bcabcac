package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridwell/snftrack/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p *fakePinger) Ping(_ context.Context) error { return p.err }

func TestServeHealth(t *testing.T) {
	h := health.New(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "uptime_seconds")
}

func TestServeReady_NoDatabase(t *testing.T) {
	// The in-memory store has no downstream dependency to ping.
	h := health.New(nil)

	w := httptest.NewRecorder()
	h.ServeReady(w, httptest.NewRequest(http.MethodGet, "/api/v1/ready", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServeReady_DatabaseUp(t *testing.T) {
	h := health.New(&fakePinger{})

	w := httptest.NewRecorder()
	h.ServeReady(w, httptest.NewRequest(http.MethodGet, "/api/v1/ready", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServeReady_DatabaseDown(t *testing.T) {
	h := health.New(&fakePinger{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	h.ServeReady(w, httptest.NewRequest(http.MethodGet, "/api/v1/ready", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
