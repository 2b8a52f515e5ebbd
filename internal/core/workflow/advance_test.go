package workflow

import (
	"reflect"
	"testing"
)

func TestDecideAdvanceBlocked(t *testing.T) {
	gates := []GateState{
		{Key: "a", Requirement: RequirementRequired, IsMet: true},
		{Key: "b", Requirement: RequirementRequired, IsMet: true},
		{Key: "c", Requirement: RequirementRequired},
	}

	d := DecideAdvance(1, gates)
	if d.Advanced {
		t.Fatal("expected blocked decision")
	}
	if !reflect.DeepEqual(d.UnmetGates, []string{"c"}) {
		t.Errorf("UnmetGates = %v, want [c]", d.UnmetGates)
	}
	if d.WorkflowCompleted {
		t.Error("blocked decision must not complete the workflow")
	}
}

func TestDecideAdvanceSucceeds(t *testing.T) {
	gates := []GateState{
		{Key: "a", Requirement: RequirementRequired, IsMet: true},
		{Key: "b", Requirement: RequirementRequired, IsMet: true},
		{Key: "c", Requirement: RequirementRequired, IsMet: true},
	}

	d := DecideAdvance(1, gates)
	if !d.Advanced {
		t.Fatalf("expected advance, got blocked on %v", d.UnmetGates)
	}
	if d.NewPhase != 2 {
		t.Errorf("NewPhase = %d, want 2", d.NewPhase)
	}
	if d.WorkflowCompleted {
		t.Error("closing phase 1 must not complete the workflow")
	}
}

func TestDecideAdvanceOverriddenGatesPass(t *testing.T) {
	gates := []GateState{
		{Key: "a", Requirement: RequirementRequired, ManuallyOverridden: true},
		{Key: "b", Requirement: RequirementOptional},
	}

	d := DecideAdvance(3, gates)
	if !d.Advanced || d.NewPhase != 4 {
		t.Errorf("decision = %+v, want advance to phase 4", d)
	}
}

func TestDecideAdvanceFinalPhaseCompletesWorkflow(t *testing.T) {
	gates := []GateState{
		{Key: "filed", Requirement: RequirementRequired, IsMet: true},
	}

	d := DecideAdvance(PhaseCount, gates)
	if !d.Advanced {
		t.Fatal("expected advance")
	}
	if !d.WorkflowCompleted {
		t.Error("closing the final phase must complete the workflow")
	}
	if d.NewPhase != PhaseCount {
		t.Errorf("NewPhase = %d, want %d (no phase beyond the last)", d.NewPhase, PhaseCount)
	}
}

func TestDecideAdvanceNoGates(t *testing.T) {
	// A phase with no gates has nothing blocking it.
	d := DecideAdvance(2, nil)
	if !d.Advanced || d.NewPhase != 3 {
		t.Errorf("decision = %+v, want advance to phase 3", d)
	}
}
