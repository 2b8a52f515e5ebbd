// Package apperr defines the error taxonomy shared by all caseflow layers.
// Callers distinguish categories with errors.As; a blocked advance is NOT
// an error and never appears here (it is a result variant on the advance
// response).
package apperr

import (
	"fmt"
	"strings"
)

// NotFoundError indicates an unknown case, phase, gate or user.
type NotFoundError struct {
	Kind string // "case", "gate", "user", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and ID.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// AlreadyInitializedError indicates a second workflow initialization for
// the same case. The check is by existence of phases, not by content.
type AlreadyInitializedError struct {
	CaseID string
}

func (e *AlreadyInitializedError) Error() string {
	return fmt.Sprintf("workflow for case %s is already initialized", e.CaseID)
}

// AlreadyInitialized builds an AlreadyInitializedError.
func AlreadyInitialized(caseID string) error {
	return &AlreadyInitializedError{CaseID: caseID}
}

// InvalidStateError indicates an operation that is not legal in the current
// machine state, such as advancing a completed workflow.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidState builds an InvalidStateError with a formatted message.
func InvalidState(format string, args ...any) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// IllegalTransitionError indicates a case status change outside the
// transition table. It carries the allowed set so callers can self-correct.
type IllegalTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *IllegalTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition from %s to %s: no transitions allowed", e.From, e.To)
	}
	return fmt.Sprintf("cannot transition from %s to %s (allowed: %s)", e.From, e.To, strings.Join(e.Allowed, ", "))
}

// IllegalTransition builds an IllegalTransitionError.
func IllegalTransition(from, to string, allowed []string) error {
	return &IllegalTransitionError{From: from, To: to, Allowed: allowed}
}

// PermissionError indicates the actor lacks the capability for an action.
type PermissionError struct {
	Actor  string
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("actor %s lacks permission to %s", e.Actor, e.Action)
}

// Permission builds a PermissionError.
func Permission(actor, action string) error {
	return &PermissionError{Actor: actor, Action: action}
}

// ValidationError indicates malformed input rejected before any mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
