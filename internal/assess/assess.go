// Package assess computes backup-power readiness assessments for a
// facility: battery sizing, cost projection, and a simple ROI estimate.
// All arithmetic is deterministic; the same facility always produces the
// same report.
package assess

import (
	"math"

	"github.com/gridwell/snftrack/internal/model"
)

// Sizing and cost assumptions. Load per licensed bed covers life-safety
// circuits, HVAC share, and medical equipment; the 96-hour window is the
// AB 2511 backup duration requirement.
const (
	loadKWPerBed     = 0.75
	backupHours      = 96.0
	costPerKWh       = 650.0
	fixedInstallCost = 40000.0
	lossPerBedDay    = 350.0
)

// Report is the readiness assessment for one facility.
type Report struct {
	FacilityID        string  `json:"facility_id"`
	RequiredKW        float64 `json:"required_kw"`
	RequiredKWh       float64 `json:"required_kwh"`
	EstimatedCost     float64 `json:"estimated_cost"`
	RiskMultiplier    float64 `json:"risk_multiplier"`
	ExpectedOutageDay float64 `json:"expected_outage_days_per_year"`
	AvoidedLossPerYr  float64 `json:"avoided_loss_per_year"`
	PaybackYears      float64 `json:"payback_years"`
	Priority          string  `json:"priority"`
	StagesComplete    int     `json:"stages_complete"`
	NextStage         string  `json:"next_stage"`
}

// Evaluate produces a Report from the facility record and its (possibly
// zero-valued) progress record.
func Evaluate(f model.Facility, p model.FacilityProgress) Report {
	requiredKW := float64(f.NumBeds) * loadKWPerBed
	requiredKWh := requiredKW * backupHours
	cost := requiredKWh*costPerKWh + fixedInstallCost

	risk := riskMultiplier(f)
	// Baseline of one grid outage day per year, scaled by local risk.
	outageDays := 1.0 * risk
	avoided := float64(f.NumBeds) * lossPerBedDay * outageDays

	payback := 0.0
	if avoided > 0 {
		payback = round2(cost / avoided)
	}

	complete, next := stageProgress(p)

	return Report{
		FacilityID:        f.FacilityID,
		RequiredKW:        round2(requiredKW),
		RequiredKWh:       round2(requiredKWh),
		EstimatedCost:     round2(cost),
		RiskMultiplier:    round2(risk),
		ExpectedOutageDay: round2(outageDays),
		AvoidedLossPerYr:  round2(avoided),
		PaybackYears:      payback,
		Priority:          priority(risk),
		StagesComplete:    complete,
		NextStage:         next,
	}
}

// riskMultiplier weighs each hazard-zone flag and the outage-likelihood
// score. Unset flags contribute nothing.
func riskMultiplier(f model.Facility) float64 {
	m := 1.0
	if f.InPSPSZone != nil && *f.InPSPSZone {
		m += 0.5
	}
	if f.InFireZone != nil && *f.InFireZone {
		m += 0.35
	}
	if f.InQuakeZone != nil && *f.InQuakeZone {
		m += 0.15
	}
	if f.OutageScore != nil {
		m += *f.OutageScore
	}
	return m
}

func priority(risk float64) string {
	switch {
	case risk >= 1.75:
		return "high"
	case risk >= 1.25:
		return "medium"
	default:
		return "low"
	}
}

// stageProgress counts completed stages and names the first incomplete
// one, walking the lifecycle in order.
func stageProgress(p model.FacilityProgress) (int, string) {
	stages := []string{
		model.StageProfile,
		model.StageAssessment,
		model.StageFinancial,
		model.StageCompliance,
		model.StageDeployment,
	}
	complete := 0
	next := ""
	for _, stage := range stages {
		flag := p.Stage(stage)
		if flag != nil && *flag {
			complete++
			continue
		}
		if next == "" {
			next = stage
		}
	}
	return complete, next
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
