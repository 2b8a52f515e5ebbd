// Package override contains the pure business logic for human overrides of
// AI-derived case fields, and the actor capability model shared by the
// override paths. This is part of the Functional Core - no I/O.
package override

import (
	"fmt"
	"sort"
	"strings"
)

// Role is the capability class of an actor.
// Defined here to keep the core free of config dependencies.
type Role string

const (
	RoleAnalyst Role = "analyst"
	RoleExpert  Role = "expert"
	RoleAdmin   Role = "admin"
)

// Elevated reports whether the role carries the override capability.
func Elevated(r Role) bool {
	return r == RoleExpert || r == RoleAdmin
}

// OverridableFields is the closed set of AI-derived case fields that may be
// hand-edited, and only through the override path.
var OverridableFields = map[string]bool{
	"risk_score":     true,
	"risk_analysis":  true,
	"petition_draft": true,
	"ai_summary":     true,
	"expert_summary": true,
}

// FieldNames returns the overridable field names in stable order.
func FieldNames() []string {
	names := make([]string, 0, len(OverridableFields))
	for name := range OverridableFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// ApplyContext provides context for field override guards.
type ApplyContext struct {
	CaseID string
	Fields []string
	Reason string
}

// ValidateApply checks the override request shape before any mutation.
// Rules:
// - Reason is mandatory and non-empty
// - At least one field must be named
// - Every named field must be in the overridable set
func ValidateApply(ctx ApplyContext) GuardResult {
	if strings.TrimSpace(ctx.Reason) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("override of case %s requires a non-empty reason", ctx.CaseID),
		}
	}
	if len(ctx.Fields) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("override of case %s names no fields", ctx.CaseID),
		}
	}
	for _, field := range ctx.Fields {
		if !OverridableFields[field] {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("field %s is not overridable (overridable: %s)", field, strings.Join(FieldNames(), ", ")),
			}
		}
	}
	return GuardResult{Allowed: true}
}

// ActorContext provides context for override capability guards.
type ActorContext struct {
	ActorID string
	Role    Role
}

// CanApply evaluates whether the actor holds the override capability.
func CanApply(ctx ActorContext) GuardResult {
	if !Elevated(ctx.Role) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("actor %s (%s) cannot override AI-derived fields: requires expert or admin capability", ctx.ActorID, ctx.Role),
		}
	}
	return GuardResult{Allowed: true}
}
