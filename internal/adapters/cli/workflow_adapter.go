package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/caseflow/internal/ports/primary"
)

// WorkflowAdapter is a thin adapter that translates CLI operations to
// WorkflowService calls.
type WorkflowAdapter struct {
	service primary.WorkflowService
	out     io.Writer
}

// NewWorkflowAdapter creates a new WorkflowAdapter with the given service.
func NewWorkflowAdapter(service primary.WorkflowService, out io.Writer) *WorkflowAdapter {
	return &WorkflowAdapter{
		service: service,
		out:     out,
	}
}

// Initialize creates the phase and gate set for a case.
func (a *WorkflowAdapter) Initialize(ctx context.Context, caseID string) error {
	resp, err := a.service.Initialize(ctx, primary.InitializeRequest{CaseID: caseID})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Initialized %s workflow for case %s: %d phases, %d gates\n",
		resp.CaseType, resp.CaseID, resp.PhasesTotal, resp.GatesTotal)
	return nil
}

// Summary prints the workflow overview for a case.
func (a *WorkflowAdapter) Summary(ctx context.Context, caseID string) error {
	s, err := a.service.GetSummary(ctx, caseID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nCase:     %s (%s)\n", s.CaseID, s.CaseType)
	fmt.Fprintf(a.out, "Workflow: %s\n", s.WorkflowStatus)
	if s.CurrentPhase > 0 {
		fmt.Fprintf(a.out, "Phase:    %d/%d\n", s.CurrentPhase, s.PhasesTotal)
	}
	fmt.Fprintf(a.out, "Gates:    %d/%d satisfied\n", s.GatesMet, s.GatesTotal)
	fmt.Fprintln(a.out)

	return nil
}

// Phases prints the ordered phase list with gate counts.
func (a *WorkflowAdapter) Phases(ctx context.Context, caseID string) error {
	phases, err := a.service.GetPhases(ctx, caseID)
	if err != nil {
		return err
	}

	if len(phases) == 0 {
		fmt.Fprintln(a.out, "Workflow not initialized")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-7s %-26s %-13s %s\n", "PHASE", "NAME", "STATUS", "GATES")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────")
	for _, p := range phases {
		fmt.Fprintf(a.out, "%-7d %-26s %-13s %d/%d\n", p.Number, p.Name, p.Status, p.GatesMet, p.GatesTotal)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Gates prints the gates of one phase.
func (a *WorkflowAdapter) Gates(ctx context.Context, caseID string, phaseNumber int) error {
	gates, err := a.service.GetGates(ctx, caseID, phaseNumber)
	if err != nil {
		return err
	}

	if len(gates) == 0 {
		fmt.Fprintf(a.out, "No gates in phase %d\n", phaseNumber)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-4s %-24s %-11s %s\n", "", "GATE", "REQ", "LABEL")
	fmt.Fprintln(a.out, "─────────────────────────────────────────────────────────────")
	for _, g := range gates {
		mark := " "
		switch {
		case g.ManuallyOverridden:
			mark = "⊙"
		case g.IsMet:
			mark = "✓"
		}
		fmt.Fprintf(a.out, "[%s]  %-24s %-11s %s\n", mark, g.GateKey, g.Requirement, g.Label)
		if g.MetBy != "" {
			fmt.Fprintf(a.out, "     met by %s\n", g.MetBy)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// ToggleGate sets a gate's met flag.
func (a *WorkflowAdapter) ToggleGate(ctx context.Context, caseID, gateKey string, isMet bool) error {
	g, err := a.service.ToggleGate(ctx, primary.ToggleGateRequest{
		CaseID:  caseID,
		GateKey: gateKey,
		IsMet:   isMet,
	})
	if err != nil {
		return err
	}

	if g.IsMet {
		fmt.Fprintf(a.out, "✓ Gate %s met\n", g.GateKey)
	} else {
		fmt.Fprintf(a.out, "✓ Gate %s unmet\n", g.GateKey)
	}
	return nil
}

// OverrideGate marks a gate manually overridden.
func (a *WorkflowAdapter) OverrideGate(ctx context.Context, caseID, gateKey string) error {
	g, err := a.service.OverrideGate(ctx, primary.OverrideGateRequest{
		CaseID:  caseID,
		GateKey: gateKey,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Gate %s manually overridden\n", g.GateKey)
	return nil
}

// ClearGateOverride reverses a manual gate override.
func (a *WorkflowAdapter) ClearGateOverride(ctx context.Context, caseID, gateKey string) error {
	g, err := a.service.ClearGateOverride(ctx, primary.OverrideGateRequest{
		CaseID:  caseID,
		GateKey: gateKey,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Override cleared on gate %s\n", g.GateKey)
	return nil
}

// Advance attempts to close the current phase and open the next. A blocked
// advance is reported, not returned as an error.
func (a *WorkflowAdapter) Advance(ctx context.Context, caseID string) error {
	resp, err := a.service.Advance(ctx, primary.AdvanceRequest{CaseID: caseID})
	if err != nil {
		return err
	}

	if !resp.Advanced {
		fmt.Fprintf(a.out, "✗ Blocked: unmet required gates: %s\n", strings.Join(resp.UnmetGates, ", "))
		return nil
	}
	if resp.WorkflowCompleted {
		fmt.Fprintf(a.out, "✓ Workflow completed for case %s\n", caseID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Advanced to phase %d\n", resp.NewPhase)
	return nil
}

// SkipPhase administratively skips the current phase.
func (a *WorkflowAdapter) SkipPhase(ctx context.Context, caseID, reason string) error {
	resp, err := a.service.SkipPhase(ctx, primary.SkipPhaseRequest{
		CaseID: caseID,
		Reason: reason,
	})
	if err != nil {
		return err
	}

	if resp.WorkflowCompleted {
		fmt.Fprintf(a.out, "✓ Phase skipped, workflow completed for case %s\n", caseID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Phase skipped, now in phase %d\n", resp.NewPhase)
	return nil
}

// Readiness prints the derived readiness score and risk bucket.
func (a *WorkflowAdapter) Readiness(ctx context.Context, caseID string) error {
	r, err := a.service.GetReadiness(ctx, caseID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Readiness: %d/100 (%s)\n", r.Score, r.RiskLevel)
	return nil
}
