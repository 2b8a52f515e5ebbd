// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// CaseRepository defines the secondary port for case persistence.
type CaseRepository interface {
	// Create persists a new case.
	Create(ctx context.Context, c *CaseRecord) error

	// GetByID retrieves a case by its ID.
	GetByID(ctx context.Context, id string) (*CaseRecord, error)

	// List retrieves cases matching the given filters.
	List(ctx context.Context, filters CaseFilters) ([]*CaseRecord, error)

	// UpdateStatus sets the case status.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdateWorkflow sets the workflow status and current phase together.
	UpdateWorkflow(ctx context.Context, id, workflowStatus string, currentPhase int) error

	// UpdateAssignment sets or clears the assigned user.
	UpdateAssignment(ctx context.Context, id, userID string) error

	// UpdateOverridableFields writes AI-derived field values. Values are
	// keyed by field name; risk_score is parsed to a float by the adapter.
	UpdateOverridableFields(ctx context.Context, id string, values map[string]string) error

	// GetNextID returns the next available case ID.
	GetNextID(ctx context.Context) (string, error)
}

// CaseRecord represents a case as stored in persistence.
type CaseRecord struct {
	ID             string
	CaseType       string
	Title          string
	Status         string
	WorkflowStatus string
	CurrentPhase   int
	RiskScore      *float64 // nil until assigned
	RiskAnalysis   string
	PetitionDraft  string
	AISummary      string
	ExpertSummary  string
	AssignedTo     string // empty when unassigned
	CreatedAt      string
	UpdatedAt      string
}

// CaseFilters contains filter options for querying cases.
type CaseFilters struct {
	Status     string
	CaseType   string
	AssignedTo string
	Limit      int
}

// PhaseRepository defines the secondary port for phase persistence.
// Phases are created once at workflow initialization and never deleted.
type PhaseRepository interface {
	// CreateBatch persists the full phase set for a case.
	CreateBatch(ctx context.Context, phases []*PhaseRecord) error

	// GetByCase retrieves a case's phases ordered by phase number.
	GetByCase(ctx context.Context, caseID string) ([]*PhaseRecord, error)

	// UpdateStatus sets the status of one phase.
	UpdateStatus(ctx context.Context, caseID string, number int, status string) error

	// ExistsForCase reports whether any phases exist for a case.
	ExistsForCase(ctx context.Context, caseID string) (bool, error)
}

// PhaseRecord represents a phase as stored in persistence. Gate counts are
// derived from gate rows, never stored here.
type PhaseRecord struct {
	CaseID string
	Number int
	Name   string
	Status string
}

// GateRepository defines the secondary port for gate persistence.
type GateRepository interface {
	// CreateBatch persists the full gate set for a case.
	CreateBatch(ctx context.Context, gates []*GateRecord) error

	// GetByCase retrieves all gates for a case ordered by phase then key.
	GetByCase(ctx context.Context, caseID string) ([]*GateRecord, error)

	// GetByCaseAndPhase retrieves the gates of one phase.
	GetByCaseAndPhase(ctx context.Context, caseID string, phaseNumber int) ([]*GateRecord, error)

	// GetByKey retrieves a single gate by its key.
	GetByKey(ctx context.Context, caseID, gateKey string) (*GateRecord, error)

	// SetMet sets the is_met flag. metBy records who satisfied the gate
	// and is cleared when isMet is false.
	SetMet(ctx context.Context, caseID, gateKey string, isMet bool, metBy string) error

	// SetOverride sets or clears the manually_overridden flag. It never
	// touches is_met.
	SetOverride(ctx context.Context, caseID, gateKey string, overridden bool) error
}

// GateRecord represents a gate as stored in persistence.
type GateRecord struct {
	ID                 string // uuid
	CaseID             string
	PhaseNumber        int
	GateKey            string
	Label              string
	Requirement        string
	IsMet              bool
	ManuallyOverridden bool
	MetBy              string // empty when never met
	UpdatedAt          string
}

// AuditRepository defines the secondary port for the append-only audit
// trail. There is deliberately no update or delete operation.
type AuditRepository interface {
	// AppendTransition appends a status transition entry.
	AppendTransition(ctx context.Context, entry *StatusTransitionRecord) error

	// AppendOverride appends an override event entry.
	AppendOverride(ctx context.Context, entry *OverrideEventRecord) error

	// ListTransitions retrieves a case's transitions oldest first.
	ListTransitions(ctx context.Context, caseID string) ([]*StatusTransitionRecord, error)

	// ListOverrides retrieves a case's override events oldest first.
	ListOverrides(ctx context.Context, caseID string) ([]*OverrideEventRecord, error)
}

// Audit entry kinds distinguishing what a transition record describes.
const (
	TransitionKindStatus       = "status"
	TransitionKindPhaseAdvance = "phase_advance"
	TransitionKindPhaseSkip    = "phase_skip"
)

// StatusTransitionRecord is an immutable audit entry for a status or
// phase change.
type StatusTransitionRecord struct {
	ID         string // uuid
	CaseID     string
	FromStatus string // empty for the first transition
	ToStatus   string
	ChangedBy  string
	Reason     string // optional
	Kind       string // one of the TransitionKind constants
	CreatedAt  string
}

// OverrideEventRecord is an immutable audit entry for a human override of
// AI-derived fields, carrying the prior values for rollback/audit.
type OverrideEventRecord struct {
	ID            string // uuid
	CaseID        string
	OverrideBy    string
	Reason        string
	FieldsChanged []string
	PriorValues   map[string]string // field -> value before the override
	CreatedAt     string
}

// TxRunner defines the secondary port for running a group of repository
// writes atomically. Repositories called inside fn join the same
// transaction; if fn returns an error every write is rolled back.
type TxRunner interface {
	// InTx runs fn inside one transaction.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserDirectory defines the secondary port for user lookups. The engine
// only needs existence and capability checks; the real directory is an
// external collaborator.
type UserDirectory interface {
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// Exists reports whether a user exists.
	Exists(ctx context.Context, id string) (bool, error)
}

// UserRecord represents a user as seen by the engine.
type UserRecord struct {
	ID   string
	Name string
	Role string // analyst, expert, admin
}

// ActorProvider defines the secondary port for resolving who is performing
// the current operation.
type ActorProvider interface {
	// GetCurrentActor returns the identity of the current actor.
	GetCurrentActor(ctx context.Context) (*ActorIdentity, error)
}

// ActorIdentity represents the acting user and their capability class.
type ActorIdentity struct {
	ID   string
	Role string // analyst, expert, admin
}
