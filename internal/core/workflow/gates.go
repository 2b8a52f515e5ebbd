// Package workflow contains the pure business logic for the phase/gate
// machine. This is part of the Functional Core - no I/O, only pure
// functions over gate and phase state.
package workflow

// PhaseCount is the fixed number of phases every case carries.
const PhaseCount = 7

// PhaseStatus represents the state of a single phase.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseBlocked    PhaseStatus = "blocked"
	PhaseSkipped    PhaseStatus = "skipped"
)

// Status represents the case-wide workflow flag, distinct from case status.
type Status string

const (
	StatusNotInitialized Status = "not_initialized"
	StatusActive         Status = "active"
	StatusCompleted      Status = "completed"
)

// Requirement classifies how a gate affects phase advancement.
type Requirement string

const (
	RequirementRequired    Requirement = "required"
	RequirementOptional    Requirement = "optional"
	RequirementConditional Requirement = "conditional"
)

// GateState is the evaluation view of a single gate. Adapters map their
// records into this shape before calling the pure functions below.
type GateState struct {
	Key                string
	Requirement        Requirement
	IsMet              bool
	ManuallyOverridden bool
}

// Satisfied reports whether the gate counts as met. An override counts
// even when is_met is false; toggling a gate off never cancels an override.
func (g GateState) Satisfied() bool {
	return g.IsMet || g.ManuallyOverridden
}

// Blocking reports whether the gate stands in the way of phase advancement.
// Only required gates block; optional and conditional gates count toward
// the displayed ratio but never block.
func (g GateState) Blocking() bool {
	return g.Requirement == RequirementRequired && !g.Satisfied()
}

// Counts holds the derived met/total ratio for a set of gates.
type Counts struct {
	Met   int
	Total int
}

// CountGates derives the met/total counts for a phase's gates.
func CountGates(gates []GateState) Counts {
	c := Counts{Total: len(gates)}
	for _, g := range gates {
		if g.Satisfied() {
			c.Met++
		}
	}
	return c
}

// UnmetRequired returns the keys of required gates that are neither met
// nor overridden, in input order. An empty result means the phase may
// close.
func UnmetRequired(gates []GateState) []string {
	var keys []string
	for _, g := range gates {
		if g.Blocking() {
			keys = append(keys, g.Key)
		}
	}
	return keys
}
