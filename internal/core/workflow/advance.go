package workflow

// AdvanceDecision is the outcome of evaluating an advance request against
// the current phase's gates. Blocked is an expected outcome callers must
// branch on, not an error: when Advanced is false the decision carries the
// exact unmet required gate keys and no mutation may be performed.
type AdvanceDecision struct {
	Advanced          bool
	UnmetGates        []string
	NewPhase          int  // current_phase after a successful advance
	WorkflowCompleted bool // true when the final phase was just closed
}

// DecideAdvance evaluates whether the current phase may close. Pure
// function: the caller passes the current phase number and its gates and
// applies the resulting decision transactionally.
func DecideAdvance(currentPhase int, gates []GateState) AdvanceDecision {
	if unmet := UnmetRequired(gates); len(unmet) > 0 {
		return AdvanceDecision{Advanced: false, UnmetGates: unmet}
	}

	d := AdvanceDecision{Advanced: true, NewPhase: currentPhase + 1}
	if currentPhase == PhaseCount {
		// Closing the final phase completes the workflow; there is no
		// phase 8 to open.
		d.NewPhase = currentPhase
		d.WorkflowCompleted = true
	}
	return d
}
