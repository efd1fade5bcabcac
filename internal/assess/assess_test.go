package assess_test

import (
	"testing"

	"github.com/gridwell/snftrack/internal/assess"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(v float64) *float64 { return &v }

func TestEvaluate_Sizing(t *testing.T) {
	f := model.Facility{FacilityID: "F-001", NumBeds: 100}

	r := assess.Evaluate(f, model.FacilityProgress{})

	// 100 beds * 0.75 kW = 75 kW; 75 kW * 96 h = 7200 kWh.
	assert.InDelta(t, 75.0, r.RequiredKW, 0.01)
	assert.InDelta(t, 7200.0, r.RequiredKWh, 0.01)
	// 7200 kWh * $650 + $40k fixed.
	assert.InDelta(t, 4720000.0, r.EstimatedCost, 0.01)
}

func TestEvaluate_Deterministic(t *testing.T) {
	f := model.Facility{
		FacilityID:  "F-001",
		NumBeds:     60,
		InPSPSZone:  boolPtr(true),
		OutageScore: floatPtr(0.3),
	}
	a := assess.Evaluate(f, model.FacilityProgress{})
	b := assess.Evaluate(f, model.FacilityProgress{})
	assert.Equal(t, a, b)
}

func TestEvaluate_RiskAndPriority(t *testing.T) {
	cases := []struct {
		name     string
		facility model.Facility
		risk     float64
		priority string
	}{
		{
			name:     "no hazard flags",
			facility: model.Facility{NumBeds: 50},
			risk:     1.0,
			priority: "low",
		},
		{
			name:     "psps only",
			facility: model.Facility{NumBeds: 50, InPSPSZone: boolPtr(true)},
			risk:     1.5,
			priority: "medium",
		},
		{
			name: "all hazards",
			facility: model.Facility{
				NumBeds:     50,
				InPSPSZone:  boolPtr(true),
				InFireZone:  boolPtr(true),
				InQuakeZone: boolPtr(true),
			},
			risk:     2.0,
			priority: "high",
		},
		{
			name:     "outage score pushes over high threshold",
			facility: model.Facility{NumBeds: 50, InPSPSZone: boolPtr(true), OutageScore: floatPtr(0.25)},
			risk:     1.75,
			priority: "high",
		},
		{
			name:     "false flags contribute nothing",
			facility: model.Facility{NumBeds: 50, InPSPSZone: boolPtr(false), InFireZone: boolPtr(false)},
			risk:     1.0,
			priority: "low",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := assess.Evaluate(tc.facility, model.FacilityProgress{})
			assert.InDelta(t, tc.risk, r.RiskMultiplier, 0.001)
			assert.Equal(t, tc.priority, r.Priority)
		})
	}
}

func TestEvaluate_ZeroBedsHasNoPayback(t *testing.T) {
	r := assess.Evaluate(model.Facility{FacilityID: "F-0", NumBeds: 0}, model.FacilityProgress{})
	assert.Zero(t, r.RequiredKW)
	assert.InDelta(t, 40000.0, r.EstimatedCost, 0.01) // fixed install cost only
	assert.Zero(t, r.AvoidedLossPerYr)
	assert.Zero(t, r.PaybackYears)
}

func TestEvaluate_StageProgress(t *testing.T) {
	p := model.FacilityProgress{
		ProfileComplete:    boolPtr(true),
		AssessmentComplete: boolPtr(true),
	}
	r := assess.Evaluate(model.Facility{NumBeds: 10}, p)
	assert.Equal(t, 2, r.StagesComplete)
	assert.Equal(t, model.StageFinancial, r.NextStage)

	all := model.FacilityProgress{
		ProfileComplete:    boolPtr(true),
		AssessmentComplete: boolPtr(true),
		ComplianceComplete: boolPtr(true),
		FinancialComplete:  boolPtr(true),
		DeploymentComplete: boolPtr(true),
	}
	r = assess.Evaluate(model.Facility{NumBeds: 10}, all)
	assert.Equal(t, 5, r.StagesComplete)
	assert.Empty(t, r.NextStage)
}
