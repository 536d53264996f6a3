package reassign

import (
	"gonum.org/v1/gonum/stat"

	"github.com/skylarkops/dronecoord/core/model"
)

// Config holds the tunable risk penalties. Values are documented in the
// risk formula; Validate keeps a misconfigured file from silently skewing
// proposals.
type Config struct {
	// SwapPenalty is added when a plan displaces a resource (phase 2).
	SwapPenalty int `json:"swap_penalty"`
	// StandardPenalty is added when the displaced mission is Standard priority.
	StandardPenalty int `json:"standard_penalty"`
	// HighPenalty is added when the displaced mission is High priority.
	// Phase 2 never selects High priority donors, so this branch is
	// unreachable through Plan; it stays in the formula so the documented
	// penalty table and the code agree.
	HighPenalty int `json:"high_penalty"`
	// UrgentPenalty mirrors HighPenalty for Urgent donors, equally
	// unreachable through Plan.
	UrgentPenalty int `json:"urgent_penalty"`
	// NoDronePenalty is added when the mission needs a drone and no
	// candidate exists at all.
	NoDronePenalty int `json:"no_drone_penalty"`
	// MinDisplacementScore is the match score a donor must exceed to be
	// proposed in phase 2.
	MinDisplacementScore float64 `json:"min_displacement_score"`
}

// DefaultConfig returns the documented penalty table.
func DefaultConfig() Config {
	return Config{
		SwapPenalty:     20,
		StandardPenalty: 5,
		HighPenalty:     20,
		UrgentPenalty:   30,
		NoDronePenalty:  15,
	}
}

// riskScore computes the 0-100 risk of a plan. scores holds the match
// scores of the resources the plan actually proposes; the base risk is
// their mean inverted onto a 0-50 scale.
func (e Engine) riskScore(scores []float64, swap bool, displaced model.Priority, noDrone bool) int {
	avg := 0.0
	if len(scores) > 0 {
		avg = stat.Mean(scores, nil)
	}
	risk := int((1 - avg) * 50)
	if swap {
		risk += e.cfg.SwapPenalty
		switch displaced {
		case model.PriorityStandard:
			risk += e.cfg.StandardPenalty
		case model.PriorityHigh:
			risk += e.cfg.HighPenalty
		case model.PriorityUrgent:
			risk += e.cfg.UrgentPenalty
		}
	}
	if noDrone {
		risk += e.cfg.NoDronePenalty
	}
	if risk < 0 {
		return 0
	}
	if risk > 100 {
		return 100
	}
	return risk
}
