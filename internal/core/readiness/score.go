// Package readiness derives the enforcement readiness score for a case.
// This is part of the Functional Core - the score is a deterministic,
// side-effect-free function of gate completion and case attributes, so it
// can be recomputed cheaply after every gate mutation. It is a read view
// only: advancement is gate-driven, never score-driven.
package readiness

import (
	"math"

	"github.com/example/caseflow/internal/core/workflow"
)

// RiskLevel buckets the derived score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Fixed bucket thresholds. score >= 85 is LOW risk / high readiness.
const (
	thresholdLow    = 85
	thresholdMedium = 70
	thresholdHigh   = 50
)

// Component weights. Gate completion dominates; phase progress rewards
// cases that are further along; a present case risk score applies a
// bounded penalty.
const (
	gateWeight     = 60.0
	progressWeight = 40.0
	maxRiskPenalty = 15.0
)

// Input carries everything the scorer looks at. RequiredMet/RequiredTotal
// count required gates across completed and in-progress phases only;
// pending phases contribute through PhasesRemaining.
type Input struct {
	RequiredMet     int
	RequiredTotal   int
	PhasesRemaining int      // phases still pending, 0..workflow.PhaseCount
	RiskScore       *float64 // case risk score 0..100, nil when absent
}

// Result is the derived readiness view.
type Result struct {
	Score     int
	RiskLevel RiskLevel
}

// Compute derives the 0-100 readiness score and its risk bucket.
func Compute(in Input) Result {
	gateFraction := 1.0
	if in.RequiredTotal > 0 {
		gateFraction = float64(in.RequiredMet) / float64(in.RequiredTotal)
	}

	remaining := in.PhasesRemaining
	if remaining < 0 {
		remaining = 0
	}
	if remaining > workflow.PhaseCount {
		remaining = workflow.PhaseCount
	}
	progressFraction := float64(workflow.PhaseCount-remaining) / float64(workflow.PhaseCount)

	score := gateFraction*gateWeight + progressFraction*progressWeight

	if in.RiskScore != nil {
		risk := *in.RiskScore
		if risk < 0 {
			risk = 0
		}
		if risk > 100 {
			risk = 100
		}
		score -= (risk / 100) * maxRiskPenalty
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}

	return Result{Score: rounded, RiskLevel: Bucket(rounded)}
}

// Bucket maps a score to its risk level via the fixed thresholds.
func Bucket(score int) RiskLevel {
	switch {
	case score >= thresholdLow:
		return RiskLow
	case score >= thresholdMedium:
		return RiskMedium
	case score >= thresholdHigh:
		return RiskHigh
	default:
		return RiskCritical
	}
}
