// Package template holds the fixed per-case-type workflow schemas: the
// seven phases and the named gates each phase owns. Templates are loaded
// once at startup into an immutable registry; per-case state never flows
// through this package.
package template

import (
	"fmt"

	"github.com/example/caseflow/internal/core/casestatus"
	"github.com/example/caseflow/internal/core/workflow"
)

// GateSpec describes one named condition within a phase.
type GateSpec struct {
	Key         string
	Label       string
	Requirement workflow.Requirement
}

// PhaseSpec describes one of the seven ordered phases.
type PhaseSpec struct {
	Number int
	Name   string
	Gates  []GateSpec
}

// Template is the complete workflow schema for a case type.
type Template struct {
	CaseType    string
	StatusTable string // "default" or "review"
	Phases      []PhaseSpec
}

// Validate checks the structural invariants of a template: exactly seven
// phases numbered 1..7 in order, unique non-empty gate keys, and known
// requirement classes.
func (t Template) Validate() error {
	if t.CaseType == "" {
		return fmt.Errorf("template has empty case type")
	}
	if len(t.Phases) != workflow.PhaseCount {
		return fmt.Errorf("template %s has %d phases, want %d", t.CaseType, len(t.Phases), workflow.PhaseCount)
	}
	seen := make(map[string]bool)
	for i, p := range t.Phases {
		if p.Number != i+1 {
			return fmt.Errorf("template %s phase at position %d has number %d", t.CaseType, i, p.Number)
		}
		if p.Name == "" {
			return fmt.Errorf("template %s phase %d has empty name", t.CaseType, p.Number)
		}
		for _, g := range p.Gates {
			if g.Key == "" {
				return fmt.Errorf("template %s phase %d has a gate with empty key", t.CaseType, p.Number)
			}
			if seen[g.Key] {
				return fmt.Errorf("template %s has duplicate gate key %s", t.CaseType, g.Key)
			}
			seen[g.Key] = true
			switch g.Requirement {
			case workflow.RequirementRequired, workflow.RequirementOptional, workflow.RequirementConditional:
			default:
				return fmt.Errorf("template %s gate %s has unknown requirement %q", t.CaseType, g.Key, g.Requirement)
			}
		}
	}
	return nil
}

// Registry is the process-wide, read-only set of templates. Build it once
// at startup; lookups after that are pure.
type Registry struct {
	templates map[string]Template
	fallback  string
}

// NewRegistry builds a registry from validated templates. The first
// template is the fallback for unknown case types.
func NewRegistry(templates ...Template) (*Registry, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("registry needs at least one template")
	}
	r := &Registry{templates: make(map[string]Template), fallback: templates[0].CaseType}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.templates[t.CaseType]; dup {
			return nil, fmt.Errorf("duplicate template for case type %s", t.CaseType)
		}
		r.templates[t.CaseType] = t
	}
	return r, nil
}

// Get returns the template for a case type, falling back to the default
// template when the type is unknown.
func (r *Registry) Get(caseType string) Template {
	if t, ok := r.templates[caseType]; ok {
		return t
	}
	return r.templates[r.fallback]
}

// Has reports whether a case type has its own template.
func (r *Registry) Has(caseType string) bool {
	_, ok := r.templates[caseType]
	return ok
}

// CaseTypes returns the registered case types.
func (r *Registry) CaseTypes() []string {
	types := make([]string, 0, len(r.templates))
	for t := range r.templates {
		types = append(types, t)
	}
	return types
}

// StatusTable returns the case status transition table for a case type.
func (r *Registry) StatusTable(caseType string) casestatus.Table {
	if r.Get(caseType).StatusTable == "review" {
		return casestatus.Review
	}
	return casestatus.Default
}
