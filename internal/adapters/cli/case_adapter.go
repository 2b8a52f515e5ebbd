// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/caseflow/internal/ports/primary"
)

// CaseAdapter is a thin adapter that translates CLI operations to CaseService calls.
// It depends only on the CaseService interface, enabling easy testing with mocks.
type CaseAdapter struct {
	service primary.CaseService
	out     io.Writer
}

// NewCaseAdapter creates a new CaseAdapter with the given service.
func NewCaseAdapter(service primary.CaseService, out io.Writer) *CaseAdapter {
	return &CaseAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new case.
func (a *CaseAdapter) Create(ctx context.Context, title, caseType string) error {
	resp, err := a.service.CreateCase(ctx, primary.CreateCaseRequest{
		Title:    title,
		CaseType: caseType,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created case %s: %s\n", resp.CaseID, resp.Case.Title)
	return nil
}

// List lists cases with optional filters.
func (a *CaseAdapter) List(ctx context.Context, status, caseType, assignedTo string, limit int) error {
	cases, err := a.service.ListCases(ctx, primary.CaseFilters{
		Status:     status,
		CaseType:   caseType,
		AssignedTo: assignedTo,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}

	if len(cases) == 0 {
		fmt.Fprintln(a.out, "No cases found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-13s %-18s %-16s %-8s %s\n", "ID", "TYPE", "STATUS", "WORKFLOW", "PHASE", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────")
	for _, c := range cases {
		phase := "-"
		if c.CurrentPhase > 0 {
			phase = fmt.Sprintf("%d/7", c.CurrentPhase)
		}
		fmt.Fprintf(a.out, "%-10s %-13s %-18s %-16s %-8s %s\n", c.ID, c.CaseType, c.Status, c.WorkflowStatus, phase, c.Title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single case.
func (a *CaseAdapter) Show(ctx context.Context, caseID string) (*primary.Case, error) {
	c, err := a.service.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nCase:     %s\n", c.ID)
	fmt.Fprintf(a.out, "Title:    %s\n", c.Title)
	fmt.Fprintf(a.out, "Type:     %s\n", c.CaseType)
	fmt.Fprintf(a.out, "Status:   %s\n", c.Status)
	fmt.Fprintf(a.out, "Workflow: %s", c.WorkflowStatus)
	if c.CurrentPhase > 0 {
		fmt.Fprintf(a.out, " (phase %d/7)", c.CurrentPhase)
	}
	fmt.Fprintln(a.out)
	if c.AssignedTo != "" {
		fmt.Fprintf(a.out, "Assigned: %s\n", c.AssignedTo)
	}
	if c.RiskScore != nil {
		fmt.Fprintf(a.out, "Risk:     %.1f\n", *c.RiskScore)
	}
	if c.AISummary != "" {
		fmt.Fprintf(a.out, "Summary:  %s\n", c.AISummary)
	}
	fmt.Fprintf(a.out, "Created:  %s\n", c.CreatedAt)
	fmt.Fprintln(a.out)

	return c, nil
}

// Transition moves a case through its status machine.
func (a *CaseAdapter) Transition(ctx context.Context, caseID, toStatus, reason string) error {
	c, err := a.service.TransitionStatus(ctx, primary.TransitionRequest{
		CaseID:   caseID,
		ToStatus: toStatus,
		Reason:   reason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Case %s is now %s\n", c.ID, c.Status)
	return nil
}

// Assign assigns a case to a user.
func (a *CaseAdapter) Assign(ctx context.Context, caseID, userID string) error {
	c, err := a.service.Assign(ctx, primary.AssignRequest{
		CaseID: caseID,
		UserID: userID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Case %s assigned to %s\n", c.ID, c.AssignedTo)
	return nil
}

// Override hand-edits AI-derived fields with a mandatory reason.
func (a *CaseAdapter) Override(ctx context.Context, caseID string, fields map[string]string, reason string) error {
	_, err := a.service.ApplyOverride(ctx, primary.ApplyOverrideRequest{
		CaseID: caseID,
		Fields: fields,
		Reason: reason,
	})
	if err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	fmt.Fprintf(a.out, "✓ Overrode %s on case %s\n", strings.Join(names, ", "), caseID)
	return nil
}

// History prints the case's status transition trail.
func (a *CaseAdapter) History(ctx context.Context, caseID string) error {
	entries, err := a.service.StatusHistory(ctx, caseID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No history")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-22s %-14s %-20s %-20s %s\n", "WHEN", "KIND", "FROM", "TO", "BY")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		from := e.FromStatus
		if from == "" {
			from = "-"
		}
		fmt.Fprintf(a.out, "%-22s %-14s %-20s %-20s %s\n", e.Timestamp, e.Kind, from, e.ToStatus, e.ChangedBy)
		if e.Reason != "" {
			fmt.Fprintf(a.out, "    reason: %s\n", e.Reason)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// Overrides prints the case's field override trail.
func (a *CaseAdapter) Overrides(ctx context.Context, caseID string) error {
	events, err := a.service.OverrideHistory(ctx, caseID)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No overrides")
		return nil
	}

	for _, e := range events {
		fmt.Fprintf(a.out, "\n%s by %s\n", e.Timestamp, e.OverrideBy)
		fmt.Fprintf(a.out, "  fields: %s\n", strings.Join(e.FieldsChanged, ", "))
		fmt.Fprintf(a.out, "  reason: %s\n", e.Reason)
		for field, prior := range e.PriorValues {
			if prior == "" {
				prior = "(empty)"
			}
			fmt.Fprintf(a.out, "  prior %s: %s\n", field, prior)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}
