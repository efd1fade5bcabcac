package workspace_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T) (*workspace.Workspace, string) {
	t.Helper()
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ws := workspace.New(dir, log)
	ws.Load()
	return ws, dir
}

func TestAddFacilities_AutoSelectsFirst(t *testing.T) {
	ws, _ := newWorkspace(t)

	require.NoError(t, ws.AddFacilities([]model.Facility{
		{FacilityID: "F-A", Name: "Alpha"},
		{FacilityID: "F-B", Name: "Beta"},
	}))

	sel := ws.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "F-A", sel.FacilityID)
}

func TestAddFacilities_ReplaceKeepsPosition(t *testing.T) {
	ws, _ := newWorkspace(t)

	require.NoError(t, ws.AddFacilities([]model.Facility{
		{FacilityID: "F-A", Name: "Alpha", NumBeds: 40},
		{FacilityID: "F-B", Name: "Beta"},
	}))
	require.NoError(t, ws.AddFacilities([]model.Facility{
		{FacilityID: "F-A", Name: "Alpha Care Center"},
		{FacilityID: "F-C", Name: "Gamma"},
	}))

	list := ws.Facilities()
	require.Len(t, list, 3)
	assert.Equal(t, "F-A", list[0].FacilityID)
	assert.Equal(t, "Alpha Care Center", list[0].Name)
	// Full replace, no field merge: beds from the first import are gone.
	assert.Equal(t, 0, list[0].NumBeds)
	assert.Equal(t, "F-B", list[1].FacilityID)
	assert.Equal(t, "F-C", list[2].FacilityID)
}

func TestSelectFacility(t *testing.T) {
	ws, _ := newWorkspace(t)
	require.NoError(t, ws.AddFacilities([]model.Facility{
		{FacilityID: "F-A"}, {FacilityID: "F-B"},
	}))

	require.NoError(t, ws.SelectFacility("F-B"))
	sel := ws.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "F-B", sel.FacilityID)

	require.Error(t, ws.SelectFacility("F-MISSING"))
}

func TestUpdateProgress(t *testing.T) {
	ws, _ := newWorkspace(t)

	require.NoError(t, ws.UpdateProgress(model.StageProfile, true))
	require.NoError(t, ws.UpdateProgress(model.StageFinancial, true))
	require.Error(t, ws.UpdateProgress("bogus", true))

	p := ws.Progress()
	assert.True(t, p.ProfileComplete)
	assert.True(t, p.FinancialComplete)
	assert.False(t, p.AssessmentComplete)

	require.NoError(t, ws.UpdateProgress(model.StageProfile, false))
	assert.False(t, ws.Progress().ProfileComplete)
}

func TestLoad_RoundTrip(t *testing.T) {
	ws, dir := newWorkspace(t)
	require.NoError(t, ws.AddFacilities([]model.Facility{
		{FacilityID: "F-A", Name: "Alpha"}, {FacilityID: "F-B"},
	}))
	require.NoError(t, ws.SelectFacility("F-B"))
	require.NoError(t, ws.UpdateProgress(model.StageAssessment, true))

	// A fresh workspace over the same directory sees everything.
	reloaded := workspace.New(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	reloaded.Load()

	assert.Len(t, reloaded.Facilities(), 2)
	sel := reloaded.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "F-B", sel.FacilityID)
	assert.True(t, reloaded.Progress().AssessmentComplete)
	assert.Equal(t, ws.Revision(), reloaded.Revision())
}

func TestLoad_CorruptFileLeavesDefault(t *testing.T) {
	ws, dir := newWorkspace(t)
	require.NoError(t, ws.AddFacilities([]model.Facility{{FacilityID: "F-A"}}))
	require.NoError(t, ws.UpdateProgress(model.StageProfile, true))

	// Corrupt one state file; the others must still load.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "progress.json"), []byte("{not json"), 0o644))

	reloaded := workspace.New(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	reloaded.Load()

	assert.Len(t, reloaded.Facilities(), 1)
	assert.False(t, reloaded.Progress().ProfileComplete)
}

func TestRevisionAndDirty(t *testing.T) {
	ws, _ := newWorkspace(t)
	assert.False(t, ws.Dirty())

	require.NoError(t, ws.AddFacilities([]model.Facility{{FacilityID: "F-A"}}))
	assert.True(t, ws.Dirty())
	rev := ws.Revision()

	require.NoError(t, ws.MarkPushed())
	assert.False(t, ws.Dirty())
	assert.Equal(t, rev, ws.Revision())

	require.NoError(t, ws.UpdateProgress(model.StageProfile, true))
	assert.True(t, ws.Dirty())
	assert.Greater(t, ws.Revision(), rev)
}
