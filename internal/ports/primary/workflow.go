// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// WorkflowService defines the primary port for the phase/gate workflow
// machine. All mutations go through this façade and are atomic per case.
type WorkflowService interface {
	// Initialize creates the phase and gate set for a case from its
	// case-type template. Fails if the workflow already exists.
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)

	// GetSummary returns the workflow summary for a case.
	GetSummary(ctx context.Context, caseID string) (*WorkflowSummary, error)

	// GetPhases returns the ordered phase list with gate counts.
	GetPhases(ctx context.Context, caseID string) ([]*PhaseView, error)

	// GetGates returns the gates of one phase.
	GetGates(ctx context.Context, caseID string, phaseNumber int) ([]*GateView, error)

	// ToggleGate sets a gate's is_met flag. Only gates of the current
	// phase may be toggled.
	ToggleGate(ctx context.Context, req ToggleGateRequest) (*GateView, error)

	// OverrideGate marks a gate manually overridden. Requires expert or
	// admin capability; never clears is_met.
	OverrideGate(ctx context.Context, req OverrideGateRequest) (*GateView, error)

	// ClearGateOverride reverses a manual override. Same capability class
	// as OverrideGate; this is the only way an override is unset.
	ClearGateOverride(ctx context.Context, req OverrideGateRequest) (*GateView, error)

	// Advance attempts to close the current phase and open the next. A
	// Blocked response is an expected outcome, not an error: it carries
	// the unmet required gate keys and no mutation was performed.
	Advance(ctx context.Context, req AdvanceRequest) (*AdvanceResponse, error)

	// SkipPhase administratively skips the current phase.
	SkipPhase(ctx context.Context, req SkipPhaseRequest) (*AdvanceResponse, error)

	// GetReadiness returns the derived readiness score and risk bucket.
	GetReadiness(ctx context.Context, caseID string) (*ReadinessView, error)
}

// InitializeRequest contains parameters for workflow initialization.
type InitializeRequest struct {
	CaseID string
}

// InitializeResponse contains the result of workflow initialization.
type InitializeResponse struct {
	CaseID      string
	CaseType    string
	PhasesTotal int
	GatesTotal  int
}

// WorkflowSummary is the per-case workflow overview.
type WorkflowSummary struct {
	CaseID         string
	CaseType       string
	WorkflowStatus string
	CurrentPhase   int
	PhasesTotal    int
	GatesMet       int
	GatesTotal     int
}

// PhaseView represents a phase at the port boundary, with derived counts.
type PhaseView struct {
	Number     int
	Name       string
	Status     string
	GatesMet   int
	GatesTotal int
}

// GateView represents a gate at the port boundary.
type GateView struct {
	GateKey            string
	Label              string
	PhaseNumber        int
	Requirement        string
	IsMet              bool
	ManuallyOverridden bool
	Satisfied          bool
	MetBy              string
}

// ToggleGateRequest contains parameters for toggling a gate.
type ToggleGateRequest struct {
	CaseID  string
	GateKey string
	IsMet   bool
}

// OverrideGateRequest contains parameters for gate override operations.
type OverrideGateRequest struct {
	CaseID  string
	GateKey string
}

// AdvanceRequest contains parameters for a phase advance attempt.
type AdvanceRequest struct {
	CaseID string
}

// SkipPhaseRequest contains parameters for an administrative phase skip.
type SkipPhaseRequest struct {
	CaseID string
	Reason string
}

// AdvanceResponse is the two-variant outcome of Advance: either the case
// advanced to NewPhase, or it is blocked on the listed gate keys.
type AdvanceResponse struct {
	Advanced          bool
	NewPhase          int
	WorkflowCompleted bool
	UnmetGates        []string
}

// ReadinessView is the derived readiness read model.
type ReadinessView struct {
	CaseID    string
	Score     int
	RiskLevel string
}
