package workflow

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// AdvanceContext provides context for phase advancement guards.
type AdvanceContext struct {
	CaseID         string
	WorkflowStatus Status
	CurrentPhase   int
}

// CanAdvance evaluates whether a case's workflow may attempt an advance.
// Rules:
// - Workflow must be initialized
// - Workflow must not already be completed
// - Current phase must be within the fixed phase range
func CanAdvance(ctx AdvanceContext) GuardResult {
	if ctx.WorkflowStatus == StatusNotInitialized {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("workflow for case %s is not initialized", ctx.CaseID),
		}
	}
	if ctx.WorkflowStatus == StatusCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("workflow for case %s is already completed", ctx.CaseID),
		}
	}
	if ctx.CurrentPhase < 1 || ctx.CurrentPhase > PhaseCount {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("case %s has invalid current phase %d", ctx.CaseID, ctx.CurrentPhase),
		}
	}
	return GuardResult{Allowed: true}
}

// ToggleGateContext provides context for gate toggle guards.
type ToggleGateContext struct {
	CaseID         string
	GateKey        string
	PhaseNumber    int // phase the gate belongs to
	CurrentPhase   int
	WorkflowStatus Status
}

// CanToggleGate evaluates whether a gate's is_met flag may be changed.
// Rules:
// - Workflow must be active
// - Gates are writable only while their phase is the current phase;
//   once a phase has closed its gates are read-only except via override
func CanToggleGate(ctx ToggleGateContext) GuardResult {
	if ctx.WorkflowStatus != StatusActive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("workflow for case %s is %s, gates cannot be toggled", ctx.CaseID, ctx.WorkflowStatus),
		}
	}
	if ctx.PhaseNumber != ctx.CurrentPhase {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("gate %s belongs to phase %d but case %s is in phase %d; closed phases are read-only",
				ctx.GateKey, ctx.PhaseNumber, ctx.CaseID, ctx.CurrentPhase),
		}
	}
	return GuardResult{Allowed: true}
}

// OverrideGateContext provides context for gate override guards.
// ActorElevated is populated by the caller from the actor's role.
type OverrideGateContext struct {
	CaseID        string
	GateKey       string
	ActorID       string
	ActorElevated bool
}

// CanOverrideGate evaluates whether an actor may manually override a gate.
// Rule: only elevated actors (expert/admin capability) may override.
func CanOverrideGate(ctx OverrideGateContext) GuardResult {
	if !ctx.ActorElevated {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("actor %s cannot override gate %s: requires expert or admin capability", ctx.ActorID, ctx.GateKey),
		}
	}
	return GuardResult{Allowed: true}
}

// CanClearGateOverride evaluates whether an actor may reverse an override.
// Rule: same capability class as setting one; an override can only be
// reversed by a new elevated action, never by a plain toggle.
func CanClearGateOverride(ctx OverrideGateContext) GuardResult {
	if !ctx.ActorElevated {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("actor %s cannot clear override on gate %s: requires expert or admin capability", ctx.ActorID, ctx.GateKey),
		}
	}
	return GuardResult{Allowed: true}
}

// SkipContext provides context for phase skip guards.
type SkipContext struct {
	CaseID         string
	PhaseNumber    int
	CurrentPhase   int
	WorkflowStatus Status
	ActorIsAdmin   bool
}

// CanSkipPhase evaluates whether the current phase may be administratively
// skipped. Skipping is the only path into the skipped status.
// Rules:
// - Workflow must be active
// - Only the current phase may be skipped
// - Only admins may skip
func CanSkipPhase(ctx SkipContext) GuardResult {
	if ctx.WorkflowStatus != StatusActive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("workflow for case %s is %s, phases cannot be skipped", ctx.CaseID, ctx.WorkflowStatus),
		}
	}
	if ctx.PhaseNumber != ctx.CurrentPhase {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("only the current phase (%d) of case %s may be skipped", ctx.CurrentPhase, ctx.CaseID),
		}
	}
	if !ctx.ActorIsAdmin {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("skipping a phase of case %s requires admin capability", ctx.CaseID),
		}
	}
	return GuardResult{Allowed: true}
}
