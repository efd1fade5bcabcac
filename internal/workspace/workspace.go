// Package workspace holds the local-first facility cache used by the CLI:
// an in-memory facility list, a single selected facility, and the
// five-flag progress object, each mirrored to its own JSON file in a
// state directory. The cache is the only source of truth between runs;
// nothing reconciles it against the server automatically.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gridwell/snftrack/internal/model"
)

// State file names. Each file is written independently of the others.
const (
	facilitiesFile = "facilities.json"
	selectedFile   = "selected.json"
	progressFile   = "progress.json"
	metaFile       = "meta.json"
)

// Progress is the client-side five-flag completion object.
type Progress struct {
	ProfileComplete    bool `json:"profile_complete"`
	AssessmentComplete bool `json:"assessment_complete"`
	ComplianceComplete bool `json:"compliance_complete"`
	FinancialComplete  bool `json:"financial_complete"`
	DeploymentComplete bool `json:"deployment_complete"`
}

// meta tracks the revision counter so staleness against the server is
// observable. It is not part of the three independent state writes.
type meta struct {
	Revision       int64 `json:"revision"`
	PushedRevision int64 `json:"pushed_revision"`
}

// Workspace is not safe for concurrent use; the CLI is single-threaded.
type Workspace struct {
	dir string
	log *slog.Logger

	facilities []model.Facility
	selected   *model.Facility
	progress   Progress
	meta       meta
}

// New creates a workspace rooted at dir. Call Load to read existing state.
func New(dir string, log *slog.Logger) *Workspace {
	return &Workspace{dir: dir, log: log}
}

// Load reads all state files independently. A missing or corrupt file
// leaves that piece of state at its default; a parse failure is logged,
// never propagated.
func (ws *Workspace) Load() {
	if err := ws.readJSON(facilitiesFile, &ws.facilities); err != nil {
		ws.facilities = nil
		ws.warnLoad("facilities", err)
	}
	if err := ws.readJSON(selectedFile, &ws.selected); err != nil {
		ws.selected = nil
		ws.warnLoad("selection", err)
	}
	if err := ws.readJSON(progressFile, &ws.progress); err != nil {
		ws.progress = Progress{}
		ws.warnLoad("progress", err)
	}
	if err := ws.readJSON(metaFile, &ws.meta); err != nil {
		ws.meta = meta{}
		ws.warnLoad("meta", err)
	}
}

// warnLoad logs corrupt-state failures; a file that simply does not exist
// yet is normal on first run and stays quiet.
func (ws *Workspace) warnLoad(what string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	ws.log.Warn("workspace: state not loaded", "piece", what, "err", err)
}

// Facilities returns a copy of the cached list in its stable order.
func (ws *Workspace) Facilities() []model.Facility {
	out := make([]model.Facility, len(ws.facilities))
	copy(out, ws.facilities)
	return out
}

// Selected returns the selected facility, or nil.
func (ws *Workspace) Selected() *model.Facility {
	if ws.selected == nil {
		return nil
	}
	f := *ws.selected
	return &f
}

// Progress returns the current five-flag progress object.
func (ws *Workspace) Progress() Progress { return ws.progress }

// AddFacilities merges incoming facilities into the cached list:
// an incoming facility with a known facility_id fully replaces the
// existing entry at its original position (last-write-wins, no field
// merge); unknown ids are appended in encounter order. If nothing is
// selected and the merged list is non-empty, the first element becomes
// the selection. The merged list and selection are then persisted.
func (ws *Workspace) AddFacilities(incoming []model.Facility) error {
	for _, in := range incoming {
		replaced := false
		for i := range ws.facilities {
			if ws.facilities[i].FacilityID == in.FacilityID {
				ws.facilities[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			ws.facilities = append(ws.facilities, in)
		}
	}
	if ws.selected == nil && len(ws.facilities) > 0 {
		first := ws.facilities[0]
		ws.selected = &first
	}
	ws.meta.Revision++
	if err := ws.writeJSON(facilitiesFile, ws.facilities); err != nil {
		return err
	}
	if err := ws.writeJSON(selectedFile, ws.selected); err != nil {
		return err
	}
	return ws.writeJSON(metaFile, ws.meta)
}

// SelectFacility sets the selection by id and persists only the selection
// file.
func (ws *Workspace) SelectFacility(facilityID string) error {
	for i := range ws.facilities {
		if ws.facilities[i].FacilityID == facilityID {
			f := ws.facilities[i]
			ws.selected = &f
			ws.meta.Revision++
			if err := ws.writeJSON(selectedFile, ws.selected); err != nil {
				return err
			}
			return ws.writeJSON(metaFile, ws.meta)
		}
	}
	return fmt.Errorf("facility %q is not in the workspace", facilityID)
}

// UpdateProgress shallow-merges one stage flag and persists the full
// progress object.
func (ws *Workspace) UpdateProgress(stage string, value bool) error {
	switch stage {
	case model.StageProfile:
		ws.progress.ProfileComplete = value
	case model.StageAssessment:
		ws.progress.AssessmentComplete = value
	case model.StageCompliance:
		ws.progress.ComplianceComplete = value
	case model.StageFinancial:
		ws.progress.FinancialComplete = value
	case model.StageDeployment:
		ws.progress.DeploymentComplete = value
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	ws.meta.Revision++
	if err := ws.writeJSON(progressFile, ws.progress); err != nil {
		return err
	}
	return ws.writeJSON(metaFile, ws.meta)
}

// Save persists list, selection, and progress as three independent
// writes. The group is not atomic: a crash between writes can leave the
// pieces inconsistent, which Load tolerates.
func (ws *Workspace) Save() error {
	if err := ws.writeJSON(facilitiesFile, ws.facilities); err != nil {
		return err
	}
	if err := ws.writeJSON(selectedFile, ws.selected); err != nil {
		return err
	}
	if err := ws.writeJSON(progressFile, ws.progress); err != nil {
		return err
	}
	return ws.writeJSON(metaFile, ws.meta)
}

// Revision returns the current local revision counter.
func (ws *Workspace) Revision() int64 { return ws.meta.Revision }

// Dirty reports whether local changes exist that have not been pushed.
func (ws *Workspace) Dirty() bool { return ws.meta.Revision > ws.meta.PushedRevision }

// MarkPushed records that the current revision reached the server.
func (ws *Workspace) MarkPushed() error {
	ws.meta.PushedRevision = ws.meta.Revision
	return ws.writeJSON(metaFile, ws.meta)
}

func (ws *Workspace) readJSON(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(ws.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (ws *Workspace) writeJSON(name string, v any) error {
	if err := os.MkdirAll(ws.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(ws.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
