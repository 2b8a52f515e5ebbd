package primary

import "context"

// CaseService defines the primary port for case lifecycle operations:
// creation, the coarse status machine, assignment, and the audited
// override path for AI-derived fields.
type CaseService interface {
	// CreateCase creates a new case in its initial status.
	CreateCase(ctx context.Context, req CreateCaseRequest) (*CreateCaseResponse, error)

	// GetCase retrieves a case by ID.
	GetCase(ctx context.Context, caseID string) (*Case, error)

	// ListCases lists cases with optional filters.
	ListCases(ctx context.Context, filters CaseFilters) ([]*Case, error)

	// TransitionStatus moves the case through the status machine. Targets
	// outside the transition table fail with an IllegalTransitionError
	// carrying the allowed set.
	TransitionStatus(ctx context.Context, req TransitionRequest) (*Case, error)

	// Assign assigns the case to a user.
	Assign(ctx context.Context, req AssignRequest) (*Case, error)

	// ApplyOverride hand-edits AI-derived fields with a mandatory reason,
	// snapshotting prior values into the override trail.
	ApplyOverride(ctx context.Context, req ApplyOverrideRequest) (*Case, error)

	// StatusHistory returns the case's transition trail, oldest first.
	StatusHistory(ctx context.Context, caseID string) ([]*StatusTransition, error)

	// OverrideHistory returns the case's override trail, oldest first.
	OverrideHistory(ctx context.Context, caseID string) ([]*OverrideEvent, error)
}

// CreateCaseRequest contains parameters for creating a case.
type CreateCaseRequest struct {
	Title    string
	CaseType string
}

// CreateCaseResponse contains the result of creating a case.
type CreateCaseResponse struct {
	CaseID string
	Case   *Case
}

// Case represents a case entity at the port boundary.
type Case struct {
	ID             string
	Title          string
	CaseType       string
	Status         string
	WorkflowStatus string
	CurrentPhase   int
	RiskScore      *float64
	RiskAnalysis   string
	PetitionDraft  string
	AISummary      string
	ExpertSummary  string
	AssignedTo     string
	CreatedAt      string
	UpdatedAt      string
}

// CaseFilters contains filter options for listing cases.
type CaseFilters struct {
	Status     string
	CaseType   string
	AssignedTo string
	Limit      int
}

// TransitionRequest contains parameters for a status transition.
type TransitionRequest struct {
	CaseID   string
	ToStatus string
	Reason   string // optional
}

// AssignRequest contains parameters for assigning a case.
type AssignRequest struct {
	CaseID string
	UserID string
	Note   string // optional
}

// ApplyOverrideRequest contains parameters for a field override.
// Fields maps overridable field names to their new values; risk_score is
// passed as its decimal string form.
type ApplyOverrideRequest struct {
	CaseID string
	Fields map[string]string
	Reason string
}

// StatusTransition is an audit trail entry at the port boundary.
type StatusTransition struct {
	FromStatus string
	ToStatus   string
	ChangedBy  string
	Reason     string
	Kind       string
	Timestamp  string
}

// OverrideEvent is an override trail entry at the port boundary.
type OverrideEvent struct {
	OverrideBy    string
	Reason        string
	FieldsChanged []string
	PriorValues   map[string]string
	Timestamp     string
}
