// Package casestatus contains the pure business logic for the coarse case
// lifecycle machine. This is part of the Functional Core - no I/O, only
// pure functions and data tables.
package casestatus

// Status represents the lifecycle state of a case record. It models who is
// working the case (AI vs human handoff), not how complete the workflow is.
type Status string

const (
	StatusPending         Status = "pending"
	StatusAIAnalyzing     Status = "ai_analyzing"
	StatusAICompleted     Status = "ai_completed"
	StatusNeedsHuman      Status = "needs_human"
	StatusHumanProcessing Status = "human_processing"
	StatusClosed          Status = "closed"
)

// Variant statuses used by review-style case types. They ride the same
// transition-table mechanism as the primary six.
const (
	StatusReviewing Status = "reviewing"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusAnalyzed  Status = "analyzed"
)

// Table is a directed transition allow-list: for each source status, the
// set of statuses a case may move to. There is no jump operation; a target
// absent from the source's row is illegal regardless of who asks.
type Table map[Status][]Status

// Default is the transition table for standard case types.
var Default = Table{
	StatusPending:         {StatusAIAnalyzing, StatusNeedsHuman, StatusClosed},
	StatusAIAnalyzing:     {StatusAICompleted, StatusNeedsHuman},
	StatusAICompleted:     {StatusNeedsHuman, StatusClosed},
	StatusNeedsHuman:      {StatusHumanProcessing, StatusClosed},
	StatusHumanProcessing: {StatusNeedsHuman, StatusClosed},
	StatusClosed:          {StatusNeedsHuman},
}

// Review extends Default with the variant states used by case types that
// pass through an external submission/approval loop.
var Review = Table{
	StatusPending:         {StatusAIAnalyzing, StatusNeedsHuman, StatusClosed},
	StatusAIAnalyzing:     {StatusAICompleted, StatusNeedsHuman},
	StatusAICompleted:     {StatusNeedsHuman, StatusAnalyzed, StatusClosed},
	StatusAnalyzed:        {StatusNeedsHuman, StatusClosed},
	StatusNeedsHuman:      {StatusHumanProcessing, StatusReviewing, StatusClosed},
	StatusHumanProcessing: {StatusNeedsHuman, StatusClosed},
	StatusReviewing:       {StatusSubmitted, StatusNeedsHuman},
	StatusSubmitted:       {StatusApproved, StatusRejected},
	StatusApproved:        {StatusClosed},
	StatusRejected:        {StatusReviewing, StatusClosed},
	StatusClosed:          {StatusNeedsHuman},
}

// InitialStatus returns the status assigned to newly created cases.
func InitialStatus() Status {
	return StatusPending
}

// Allowed returns the transition targets for the given source status.
// The returned slice is a copy; callers may not mutate the table through it.
func (t Table) Allowed(from Status) []Status {
	targets, ok := t[from]
	if !ok {
		return nil
	}
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// AllowedStrings returns the transition targets as plain strings, for
// error messages and API responses.
func (t Table) AllowedStrings(from Status) []string {
	targets := t.Allowed(from)
	out := make([]string, len(targets))
	for i, s := range targets {
		out[i] = string(s)
	}
	return out
}

// CanTransition reports whether the table permits moving from one status
// to another.
func (t Table) CanTransition(from, to Status) bool {
	for _, target := range t[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Known reports whether a status appears anywhere in the table, as a
// source or a target.
func (t Table) Known(s Status) bool {
	if _, ok := t[s]; ok {
		return true
	}
	for _, targets := range t {
		for _, target := range targets {
			if target == s {
				return true
			}
		}
	}
	return false
}
