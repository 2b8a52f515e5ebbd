package override

import (
	"strings"
	"testing"
)

func TestValidateApply(t *testing.T) {
	valid := ApplyContext{
		CaseID: "CASE-001",
		Fields: []string{"risk_analysis", "ai_summary"},
		Reason: "AI analysis missed the amended statute",
	}
	if result := ValidateApply(valid); !result.Allowed {
		t.Errorf("expected valid request to pass: %s", result.Reason)
	}

	tests := []struct {
		name string
		ctx  ApplyContext
	}{
		{"empty reason", ApplyContext{CaseID: "CASE-001", Fields: []string{"risk_score"}, Reason: ""}},
		{"whitespace reason", ApplyContext{CaseID: "CASE-001", Fields: []string{"risk_score"}, Reason: "   "}},
		{"no fields", ApplyContext{CaseID: "CASE-001", Reason: "because"}},
		{"unknown field", ApplyContext{CaseID: "CASE-001", Fields: []string{"status"}, Reason: "because"}},
	}

	for _, tc := range tests {
		result := ValidateApply(tc.ctx)
		if result.Allowed {
			t.Errorf("%s: expected rejection", tc.name)
		}
		if result.Error() == nil {
			t.Errorf("%s: expected non-nil error", tc.name)
		}
	}
}

func TestUnknownFieldReasonListsOverridableSet(t *testing.T) {
	result := ValidateApply(ApplyContext{CaseID: "CASE-001", Fields: []string{"assigned_to"}, Reason: "x"})
	if result.Allowed {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(result.Reason, "petition_draft") {
		t.Errorf("reason should list the overridable fields, got %q", result.Reason)
	}
}

func TestCanApply(t *testing.T) {
	tests := []struct {
		role    Role
		allowed bool
	}{
		{RoleAnalyst, false},
		{RoleExpert, true},
		{RoleAdmin, true},
		{Role("viewer"), false},
	}

	for _, tc := range tests {
		result := CanApply(ActorContext{ActorID: "USR-1", Role: tc.role})
		if result.Allowed != tc.allowed {
			t.Errorf("role %s: Allowed = %v, want %v", tc.role, result.Allowed, tc.allowed)
		}
	}
}

func TestElevated(t *testing.T) {
	if Elevated(RoleAnalyst) {
		t.Error("analyst must not be elevated")
	}
	if !Elevated(RoleExpert) || !Elevated(RoleAdmin) {
		t.Error("expert and admin must be elevated")
	}
}
