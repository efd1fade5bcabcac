package store_test

import (
	"testing"

	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestMemoryStore_FacilityReimportKeepsPosition(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.CreateFacility(model.Facility{FacilityID: "F-A", Name: "Alpha Care", NumBeds: 40})
	require.NoError(t, err)
	_, err = s.CreateFacility(model.Facility{FacilityID: "F-B", Name: "Bayview SNF", NumBeds: 60})
	require.NoError(t, err)

	// Re-import F-A with new data: full replace, same position.
	_, err = s.CreateFacility(model.Facility{FacilityID: "F-A", Name: "Alpha Care Center", NumBeds: 44})
	require.NoError(t, err)

	list, err := s.ListFacilities()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "F-A", list[0].FacilityID)
	assert.Equal(t, "Alpha Care Center", list[0].Name)
	assert.Equal(t, 44, list[0].NumBeds)
	assert.Equal(t, "F-B", list[1].FacilityID)
}

func TestMemoryStore_CreateFacilityClampsNegativeBeds(t *testing.T) {
	s := store.NewMemoryStore()
	f, err := s.CreateFacility(model.Facility{FacilityID: "F-A", NumBeds: -5})
	require.NoError(t, err)
	assert.Equal(t, 0, f.NumBeds)
}

func TestMemoryStore_GetFacilityNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := s.GetFacility("nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_UpdateFacilityPatch(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := s.CreateFacility(model.Facility{FacilityID: "F-A", Name: "Alpha", City: "Fresno", NumBeds: 40})
	require.NoError(t, err)

	name := "Alpha Rehab"
	got, err := s.UpdateFacility("F-A", model.FacilityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Rehab", got.Name)
	// Untouched fields survive the patch.
	assert.Equal(t, "Fresno", got.City)
	assert.Equal(t, 40, got.NumBeds)

	_, err = s.UpdateFacility("missing", model.FacilityPatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_UpsertProgressMergesFlags(t *testing.T) {
	s := store.NewMemoryStore()

	first, err := s.UpsertProgress(model.FacilityProgress{
		FacilityID:      "F-A",
		ProfileComplete: boolPtr(true),
		LastUpdated:     "2026-01-02T00:00:00Z",
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// A second save with a different flag must not reset the first.
	second, err := s.UpsertProgress(model.FacilityProgress{
		FacilityID:         "F-A",
		AssessmentComplete: boolPtr(true),
		LastUpdated:        "2026-01-03T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.ProfileComplete)
	assert.True(t, *second.ProfileComplete)
	require.NotNil(t, second.AssessmentComplete)
	assert.True(t, *second.AssessmentComplete)
	assert.Equal(t, "2026-01-03T00:00:00Z", second.LastUpdated)

	list, err := s.ListProgress()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryStore_UpsertProgressConcurrent(t *testing.T) {
	s := store.NewMemoryStore()

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = s.UpsertProgress(model.FacilityProgress{
				FacilityID:      "F-A",
				ProfileComplete: boolPtr(true),
			})
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	list, err := s.ListProgress()
	require.NoError(t, err)
	assert.Len(t, list, 1, "concurrent saves must converge on one record")
}

func TestMemoryStore_CreateUserDuplicateUsername(t *testing.T) {
	s := store.NewMemoryStore()

	u, err := s.CreateUser(model.User{Username: "alice", Password: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = s.CreateUser(model.User{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.GetUserByUsername("alice")
	require.NoError(t, err)
	_, err = s.GetUserByUsername("bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
