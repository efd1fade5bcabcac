package syncclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwell/snftrack/internal/api"
	"github.com/gridwell/snftrack/internal/api/handler"
	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/health"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/seed"
	"github.com/gridwell/snftrack/internal/store"
	"github.com/gridwell/snftrack/internal/syncclient"
	"github.com/gridwell/snftrack/internal/workspace"
)

func setupServer(t *testing.T) (*httptest.Server, store.Repository) {
	t.Helper()
	repo := store.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := auth.NewSessions("sync-client-test-signing-secret!", time.Hour)

	require.NoError(t, seed.EnsureDefaultUsers(repo, seed.Options{
		AdminUsername:  "admin",
		AdminPassword:  "admin-pass",
		ClientUsername: "facility",
		ClientPassword: "client-pass",
	}, log))

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.Handlers{
		Health:    health.New(nil),
		Auth:      handler.NewAuthHandler(repo, sessions, log),
		Facility:  handler.NewFacilityHandler(repo, log),
		Progress:  handler.NewProgressHandler(repo, log),
		Admin:     handler.NewAdminHandler(repo, log),
		DataFiles: handler.NewDataFileHandler(t.TempDir(), log),
		Sessions:  sessions,
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, repo
}

func TestLogin_BadCredentials(t *testing.T) {
	ts, _ := setupServer(t)
	c := syncclient.New(ts.URL)

	err := c.Login(context.Background(), "facility", "wrong")
	require.Error(t, err)
}

func TestFacilities_RequiresLogin(t *testing.T) {
	ts, _ := setupServer(t)
	c := syncclient.New(ts.URL)

	_, err := c.Facilities(context.Background())
	require.Error(t, err)
}

func TestPullAfterLogin(t *testing.T) {
	ts, repo := setupServer(t)
	_, err := repo.CreateFacility(model.Facility{FacilityID: "F-001", Name: "Alpha Care"})
	require.NoError(t, err)

	c := syncclient.New(ts.URL)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "facility", "client-pass"))

	facilities, err := c.Facilities(ctx)
	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, "Alpha Care", facilities[0].Name)
}

func TestSaveProgress(t *testing.T) {
	ts, repo := setupServer(t)
	_, err := repo.CreateFacility(model.Facility{FacilityID: "F-001"})
	require.NoError(t, err)

	c := syncclient.New(ts.URL)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "facility", "client-pass"))

	rec, err := c.SaveProgress(ctx, "F-001", workspace.Progress{
		ProfileComplete:    true,
		AssessmentComplete: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "F-001", rec.FacilityID)
	require.NotNil(t, rec.ProfileComplete)
	assert.True(t, *rec.ProfileComplete)
	require.NotNil(t, rec.FinancialComplete)
	assert.False(t, *rec.FinancialComplete)
	// Attribution comes from the session.
	require.NotNil(t, rec.UserID)

	stored, err := repo.GetProgressByFacility("F-001")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestPushFacility(t *testing.T) {
	ts, repo := setupServer(t)
	c := syncclient.New(ts.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "admin", "admin-pass"))
	require.NoError(t, c.PushFacility(ctx, model.Facility{
		FacilityID: "F-100", Name: "Alpha Care", NumBeds: 80,
	}))

	stored, err := repo.GetFacility("F-100")
	require.NoError(t, err)
	assert.Equal(t, "Alpha Care", stored.Name)
	assert.Equal(t, 80, stored.NumBeds)
}

func TestPushFacility_ForbiddenForClient(t *testing.T) {
	ts, _ := setupServer(t)
	c := syncclient.New(ts.URL)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, "facility", "client-pass"))
	err := c.PushFacility(ctx, model.Facility{FacilityID: "F-100"})
	require.Error(t, err)
}
