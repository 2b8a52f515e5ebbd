package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/core/template"
	"github.com/example/caseflow/internal/ports/primary"
)

type caseFixture struct {
	svc       *CaseServiceImpl
	caseRepo  *mockCaseRepository
	auditRepo *mockAuditRepository
	users     *mockUserDirectory
	actor     *mockActorProvider
}

func newCaseFixture(t *testing.T, actor *mockActorProvider) *caseFixture {
	t.Helper()

	f := &caseFixture{
		caseRepo:  newMockCaseRepository(),
		auditRepo: newMockAuditRepository(),
		users:     newMockUserDirectory("USR-analyst", "USR-expert", "USR-admin"),
		actor:     actor,
	}
	f.svc = NewCaseService(f.caseRepo, f.auditRepo, &mockTxRunner{}, f.users, f.actor, template.Builtin(), NewCaseLocks())
	return f
}

func (f *caseFixture) createCase(t *testing.T, title, caseType string) string {
	t.Helper()
	resp, err := f.svc.CreateCase(context.Background(), primary.CreateCaseRequest{Title: title, CaseType: caseType})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	return resp.CaseID
}

func TestCreateCase(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())

	resp, err := f.svc.CreateCase(context.Background(), primary.CreateCaseRequest{Title: "Debt enforcement vs Acme"})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if resp.CaseID != "CASE-001" {
		t.Errorf("CaseID = %s, want CASE-001", resp.CaseID)
	}
	if resp.Case.Status != "pending" {
		t.Errorf("status = %s, want pending", resp.Case.Status)
	}
	if resp.Case.CaseType != template.CaseTypeEnforcement {
		t.Errorf("case type = %s, want enforcement default", resp.Case.CaseType)
	}
	if resp.Case.WorkflowStatus != "not_initialized" {
		t.Errorf("workflow status = %s, want not_initialized", resp.Case.WorkflowStatus)
	}

	// Creation writes the opening trail entry with no from-status.
	if len(f.auditRepo.transitions) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(f.auditRepo.transitions))
	}
	entry := f.auditRepo.transitions[0]
	if entry.FromStatus != "" || entry.ToStatus != "pending" {
		t.Errorf("opening entry = %s -> %s, want <empty> -> pending", entry.FromStatus, entry.ToStatus)
	}
}

func TestCreateCaseSequentialIDs(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())

	first := f.createCase(t, "First", "")
	second := f.createCase(t, "Second", "")
	if first != "CASE-001" || second != "CASE-002" {
		t.Errorf("IDs = %s, %s; want CASE-001, CASE-002", first, second)
	}
}

func TestCreateCaseValidation(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())

	_, err := f.svc.CreateCase(context.Background(), primary.CreateCaseRequest{Title: "   "})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for blank title, got %v", err)
	}

	_, err = f.svc.CreateCase(context.Background(), primary.CreateCaseRequest{Title: "x", CaseType: "espionage"})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for unknown case type, got %v", err)
	}
}

func TestTransitionStatus(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	id := f.createCase(t, "Test case", "")

	c, err := f.svc.TransitionStatus(context.Background(), primary.TransitionRequest{
		CaseID: id, ToStatus: "ai_analyzing", Reason: "analysis kicked off",
	})
	if err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}
	if c.Status != "ai_analyzing" {
		t.Errorf("status = %s, want ai_analyzing", c.Status)
	}

	history, err := f.svc.StatusHistory(context.Background(), id)
	if err != nil {
		t.Fatalf("StatusHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history entries, want 2", len(history))
	}
	last := history[1]
	if last.FromStatus != "pending" || last.ToStatus != "ai_analyzing" {
		t.Errorf("entry = %s -> %s", last.FromStatus, last.ToStatus)
	}
	if last.ChangedBy != "USR-analyst" || last.Reason != "analysis kicked off" {
		t.Errorf("entry attribution = %s / %q", last.ChangedBy, last.Reason)
	}
}

func TestTransitionStatusIllegal(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	id := f.createCase(t, "Test case", "")

	_, err := f.svc.TransitionStatus(context.Background(), primary.TransitionRequest{
		CaseID: id, ToStatus: "human_processing",
	})
	var illegal *apperr.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}
	if illegal.From != "pending" || illegal.To != "human_processing" {
		t.Errorf("error = %s -> %s", illegal.From, illegal.To)
	}
	if len(illegal.Allowed) == 0 {
		t.Error("error must carry the allowed targets")
	}

	// A failed transition leaves no trail entry beyond the opening one.
	if len(f.auditRepo.transitions) != 1 {
		t.Errorf("expected 1 audit entry, got %d", len(f.auditRepo.transitions))
	}
}

func TestTransitionStatusReviewTable(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	id := f.createCase(t, "Petition case", template.CaseTypePetition)

	// needs_human -> reviewing exists only in the review table.
	for _, to := range []string{"ai_analyzing", "ai_completed", "needs_human", "reviewing", "submitted", "approved"} {
		if _, err := f.svc.TransitionStatus(context.Background(), primary.TransitionRequest{CaseID: id, ToStatus: to}); err != nil {
			t.Fatalf("transition to %s: %v", to, err)
		}
	}

	// The same target is illegal for the default table.
	other := f.createCase(t, "Enforcement case", template.CaseTypeEnforcement)
	for _, to := range []string{"ai_analyzing", "ai_completed", "needs_human"} {
		if _, err := f.svc.TransitionStatus(context.Background(), primary.TransitionRequest{CaseID: other, ToStatus: to}); err != nil {
			t.Fatalf("transition to %s: %v", to, err)
		}
	}
	_, err := f.svc.TransitionStatus(context.Background(), primary.TransitionRequest{CaseID: other, ToStatus: "reviewing"})
	var illegal *apperr.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}
}

func TestAssignSelf(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	id := f.createCase(t, "Test case", "")

	c, err := f.svc.Assign(context.Background(), primary.AssignRequest{CaseID: id, UserID: "USR-analyst"})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if c.AssignedTo != "USR-analyst" {
		t.Errorf("AssignedTo = %s, want USR-analyst", c.AssignedTo)
	}
}

func TestAssignOtherRequiresElevated(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	id := f.createCase(t, "Test case", "")

	_, err := f.svc.Assign(context.Background(), primary.AssignRequest{CaseID: id, UserID: "USR-expert"})
	var perm *apperr.PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermissionError, got %v", err)
	}

	elevated := newCaseFixture(t, asExpert())
	id = elevated.createCase(t, "Test case", "")
	c, err := elevated.svc.Assign(context.Background(), primary.AssignRequest{CaseID: id, UserID: "USR-analyst"})
	if err != nil {
		t.Fatalf("elevated Assign: %v", err)
	}
	if c.AssignedTo != "USR-analyst" {
		t.Errorf("AssignedTo = %s, want USR-analyst", c.AssignedTo)
	}
}

func TestAssignUnknownUser(t *testing.T) {
	f := newCaseFixture(t, asAdmin())
	id := f.createCase(t, "Test case", "")

	_, err := f.svc.Assign(context.Background(), primary.AssignRequest{CaseID: id, UserID: "USR-ghost"})
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Kind != "user" {
		t.Errorf("Kind = %s, want user", notFound.Kind)
	}
}

func TestApplyOverride(t *testing.T) {
	f := newCaseFixture(t, asExpert())
	id := f.createCase(t, "Test case", "")

	c, err := f.svc.ApplyOverride(context.Background(), primary.ApplyOverrideRequest{
		CaseID: id,
		Fields: map[string]string{"risk_score": "42.5", "risk_analysis": "manual assessment"},
		Reason: "model output implausible",
	})
	if err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}
	if c.RiskScore == nil || *c.RiskScore != 42.5 {
		t.Errorf("RiskScore = %v, want 42.5", c.RiskScore)
	}
	if c.RiskAnalysis != "manual assessment" {
		t.Errorf("RiskAnalysis = %q", c.RiskAnalysis)
	}

	events, err := f.svc.OverrideHistory(context.Background(), id)
	if err != nil {
		t.Fatalf("OverrideHistory: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d override events, want 1", len(events))
	}
	ev := events[0]
	if ev.OverrideBy != "USR-expert" || ev.Reason != "model output implausible" {
		t.Errorf("event attribution = %s / %q", ev.OverrideBy, ev.Reason)
	}
	if !reflect.DeepEqual(ev.FieldsChanged, []string{"risk_analysis", "risk_score"}) {
		t.Errorf("FieldsChanged = %v", ev.FieldsChanged)
	}
	if ev.PriorValues["risk_score"] != "" || ev.PriorValues["risk_analysis"] != "" {
		t.Errorf("PriorValues = %v, want empty priors", ev.PriorValues)
	}
}

func TestApplyOverrideSnapshotsPriorValues(t *testing.T) {
	f := newCaseFixture(t, asExpert())
	id := f.createCase(t, "Test case", "")

	for _, score := range []string{"10", "20"} {
		if _, err := f.svc.ApplyOverride(context.Background(), primary.ApplyOverrideRequest{
			CaseID: id,
			Fields: map[string]string{"risk_score": score},
			Reason: "recalibration",
		}); err != nil {
			t.Fatalf("ApplyOverride(%s): %v", score, err)
		}
	}

	events, _ := f.svc.OverrideHistory(context.Background(), id)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].PriorValues["risk_score"] != "10" {
		t.Errorf("second event prior = %q, want 10", events[1].PriorValues["risk_score"])
	}
}

func TestApplyOverrideEmptyReasonMutatesNothing(t *testing.T) {
	f := newCaseFixture(t, asExpert())
	id := f.createCase(t, "Test case", "")

	_, err := f.svc.ApplyOverride(context.Background(), primary.ApplyOverrideRequest{
		CaseID: id,
		Fields: map[string]string{"risk_score": "42"},
		Reason: "  ",
	})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	c, _ := f.svc.GetCase(context.Background(), id)
	if c.RiskScore != nil {
		t.Error("failed override must not change fields")
	}
	if len(f.auditRepo.overrides) != 0 {
		t.Error("failed override must not append an event")
	}
}

func TestApplyOverrideRejections(t *testing.T) {
	f := newCaseFixture(t, asExpert())
	id := f.createCase(t, "Test case", "")

	var validation *apperr.ValidationError

	_, err := f.svc.ApplyOverride(context.Background(), primary.ApplyOverrideRequest{
		CaseID: id,
		Fields: map[string]string{"title": "new title"},
		Reason: "x",
	})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for non-overridable field, got %v", err)
	}

	_, err = f.svc.ApplyOverride(context.Background(), primary.ApplyOverrideRequest{
		CaseID: id,
		Fields: map[string]string{"risk_score": "high"},
		Reason: "x",
	})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for non-numeric risk_score, got %v", err)
	}
}

func TestApplyOverrideRequiresElevated(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	id := f.createCase(t, "Test case", "")

	_, err := f.svc.ApplyOverride(context.Background(), primary.ApplyOverrideRequest{
		CaseID: id,
		Fields: map[string]string{"risk_score": "42"},
		Reason: "x",
	})
	var perm *apperr.PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
}

func TestListCasesFilters(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())
	a := f.createCase(t, "A", template.CaseTypeEnforcement)
	f.createCase(t, "B", template.CaseTypePetition)

	if _, err := f.svc.TransitionStatus(context.Background(), primary.TransitionRequest{CaseID: a, ToStatus: "ai_analyzing"}); err != nil {
		t.Fatalf("TransitionStatus: %v", err)
	}

	all, err := f.svc.ListCases(context.Background(), primary.CaseFilters{})
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d cases, want 2", len(all))
	}

	analyzing, err := f.svc.ListCases(context.Background(), primary.CaseFilters{Status: "ai_analyzing"})
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(analyzing) != 1 || analyzing[0].ID != a {
		t.Errorf("filtered = %v", analyzing)
	}
}

func TestGetCaseNotFound(t *testing.T) {
	f := newCaseFixture(t, asAnalyst())

	_, err := f.svc.GetCase(context.Background(), "CASE-404")
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
