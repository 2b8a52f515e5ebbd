package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/core/casestatus"
	coreoverride "github.com/example/caseflow/internal/core/override"
	"github.com/example/caseflow/internal/core/template"
	"github.com/example/caseflow/internal/core/workflow"
	"github.com/example/caseflow/internal/ports/primary"
	"github.com/example/caseflow/internal/ports/secondary"
)

// CaseServiceImpl implements the CaseService interface: case creation, the
// coarse status machine, assignment, and the audited field override path.
type CaseServiceImpl struct {
	caseRepo      secondary.CaseRepository
	auditRepo     secondary.AuditRepository
	tx            secondary.TxRunner
	users         secondary.UserDirectory
	actorProvider secondary.ActorProvider
	registry      *template.Registry
	locks         *CaseLocks
}

// NewCaseService creates a new CaseService with injected dependencies.
func NewCaseService(
	caseRepo secondary.CaseRepository,
	auditRepo secondary.AuditRepository,
	tx secondary.TxRunner,
	users secondary.UserDirectory,
	actorProvider secondary.ActorProvider,
	registry *template.Registry,
	locks *CaseLocks,
) *CaseServiceImpl {
	return &CaseServiceImpl{
		caseRepo:      caseRepo,
		auditRepo:     auditRepo,
		tx:            tx,
		users:         users,
		actorProvider: actorProvider,
		registry:      registry,
		locks:         locks,
	}
}

// CreateCase creates a new case in the initial status and records the
// opening entry of its status trail.
func (s *CaseServiceImpl) CreateCase(ctx context.Context, req primary.CreateCaseRequest) (*primary.CreateCaseResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperr.Validation("case title must not be empty")
	}
	caseType := req.CaseType
	if caseType == "" {
		caseType = template.CaseTypeEnforcement
	}
	if !s.registry.Has(caseType) {
		return nil, apperr.Validation("unknown case type %s (known: %s)", caseType, strings.Join(s.registry.CaseTypes(), ", "))
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	id, err := s.caseRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate case ID: %w", err)
	}

	record := &secondary.CaseRecord{
		ID:             id,
		Title:          req.Title,
		CaseType:       caseType,
		Status:         string(casestatus.InitialStatus()),
		WorkflowStatus: string(workflow.StatusNotInitialized),
	}
	entry := &secondary.StatusTransitionRecord{
		CaseID:    id,
		ToStatus:  record.Status,
		ChangedBy: actor.ID,
		Kind:      secondary.TransitionKindStatus,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.caseRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}
		if err := s.auditRepo.AppendTransition(ctx, entry); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &primary.CreateCaseResponse{CaseID: id, Case: recordToCase(created)}, nil
}

// GetCase retrieves a case by ID.
func (s *CaseServiceImpl) GetCase(ctx context.Context, caseID string) (*primary.Case, error) {
	record, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return recordToCase(record), nil
}

// ListCases lists cases with optional filters.
func (s *CaseServiceImpl) ListCases(ctx context.Context, filters primary.CaseFilters) ([]*primary.Case, error) {
	records, err := s.caseRepo.List(ctx, secondary.CaseFilters{
		Status:     filters.Status,
		CaseType:   filters.CaseType,
		AssignedTo: filters.AssignedTo,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	cases := make([]*primary.Case, 0, len(records))
	for _, r := range records {
		cases = append(cases, recordToCase(r))
	}
	return cases, nil
}

// TransitionStatus moves a case through its status machine. The machine is
// independent of phase/gate state: it models who is working the case.
func (s *CaseServiceImpl) TransitionStatus(ctx context.Context, req primary.TransitionRequest) (*primary.Case, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	table := s.registry.StatusTable(c.CaseType)
	from := casestatus.Status(c.Status)
	to := casestatus.Status(req.ToStatus)

	if !table.CanTransition(from, to) {
		return nil, apperr.IllegalTransition(c.Status, req.ToStatus, table.AllowedStrings(from))
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	entry := &secondary.StatusTransitionRecord{
		CaseID:     c.ID,
		FromStatus: string(from),
		ToStatus:   string(to),
		ChangedBy:  actor.ID,
		Reason:     req.Reason,
		Kind:       secondary.TransitionKindStatus,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	// The status write and its trail entry commit together or not at all.
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.caseRepo.UpdateStatus(ctx, c.ID, string(to)); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if err := s.auditRepo.AppendTransition(ctx, entry); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.caseRepo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return recordToCase(updated), nil
}

// Assign assigns a case to a user. Actors may always take a case
// themselves; assigning to someone else requires elevated capability.
func (s *CaseServiceImpl) Assign(ctx context.Context, req primary.AssignRequest) (*primary.Case, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	if _, err := s.caseRepo.GetByID(ctx, req.CaseID); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user", req.UserID)
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}
	if actor.ID != req.UserID && !coreoverride.Elevated(coreoverride.Role(actor.Role)) {
		return nil, apperr.Permission(actor.ID, "assign case "+req.CaseID+" to "+req.UserID)
	}

	if err := s.caseRepo.UpdateAssignment(ctx, req.CaseID, req.UserID); err != nil {
		return nil, fmt.Errorf("failed to assign case: %w", err)
	}

	updated, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}
	return recordToCase(updated), nil
}

// ApplyOverride hand-edits AI-derived fields. It is the only write path
// for those fields and never mutates anything before validation passes:
// prior values are snapshotted into the trail in the same exclusive
// section as the write.
func (s *CaseServiceImpl) ApplyOverride(ctx context.Context, req primary.ApplyOverrideRequest) (*primary.Case, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(req.Fields))
	for f := range req.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	if guard := coreoverride.ValidateApply(coreoverride.ApplyContext{
		CaseID: c.ID,
		Fields: fields,
		Reason: req.Reason,
	}); !guard.Allowed {
		return nil, apperr.Validation("%s", guard.Reason)
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}
	if guard := coreoverride.CanApply(coreoverride.ActorContext{
		ActorID: actor.ID,
		Role:    coreoverride.Role(actor.Role),
	}); !guard.Allowed {
		return nil, apperr.Permission(actor.ID, "override fields of case "+c.ID)
	}

	if v, ok := req.Fields["risk_score"]; ok {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return nil, apperr.Validation("risk_score %q is not a number", v)
		}
	}

	priors := make(map[string]string, len(fields))
	for _, f := range fields {
		priors[f] = overridableFieldValue(c, f)
	}

	event := &secondary.OverrideEventRecord{
		CaseID:        c.ID,
		OverrideBy:    actor.ID,
		Reason:        req.Reason,
		FieldsChanged: fields,
		PriorValues:   priors,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.caseRepo.UpdateOverridableFields(ctx, c.ID, req.Fields); err != nil {
			return fmt.Errorf("failed to write override: %w", err)
		}
		if err := s.auditRepo.AppendOverride(ctx, event); err != nil {
			return fmt.Errorf("failed to append override event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.caseRepo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return recordToCase(updated), nil
}

// StatusHistory returns the case's transition trail, oldest first.
func (s *CaseServiceImpl) StatusHistory(ctx context.Context, caseID string) ([]*primary.StatusTransition, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}

	records, err := s.auditRepo.ListTransitions(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transitions: %w", err)
	}

	entries := make([]*primary.StatusTransition, 0, len(records))
	for _, r := range records {
		entries = append(entries, &primary.StatusTransition{
			FromStatus: r.FromStatus,
			ToStatus:   r.ToStatus,
			ChangedBy:  r.ChangedBy,
			Reason:     r.Reason,
			Kind:       r.Kind,
			Timestamp:  r.CreatedAt,
		})
	}
	return entries, nil
}

// OverrideHistory returns the case's override trail, oldest first.
func (s *CaseServiceImpl) OverrideHistory(ctx context.Context, caseID string) ([]*primary.OverrideEvent, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}

	records, err := s.auditRepo.ListOverrides(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}

	entries := make([]*primary.OverrideEvent, 0, len(records))
	for _, r := range records {
		entries = append(entries, &primary.OverrideEvent{
			OverrideBy:    r.OverrideBy,
			Reason:        r.Reason,
			FieldsChanged: r.FieldsChanged,
			PriorValues:   r.PriorValues,
			Timestamp:     r.CreatedAt,
		})
	}
	return entries, nil
}

// overridableFieldValue reads the current value of an overridable field
// for the prior-value snapshot.
func overridableFieldValue(c *secondary.CaseRecord, field string) string {
	switch field {
	case "risk_score":
		if c.RiskScore == nil {
			return ""
		}
		return strconv.FormatFloat(*c.RiskScore, 'f', -1, 64)
	case "risk_analysis":
		return c.RiskAnalysis
	case "petition_draft":
		return c.PetitionDraft
	case "ai_summary":
		return c.AISummary
	case "expert_summary":
		return c.ExpertSummary
	default:
		return ""
	}
}

func recordToCase(r *secondary.CaseRecord) *primary.Case {
	return &primary.Case{
		ID:             r.ID,
		Title:          r.Title,
		CaseType:       r.CaseType,
		Status:         r.Status,
		WorkflowStatus: r.WorkflowStatus,
		CurrentPhase:   r.CurrentPhase,
		RiskScore:      r.RiskScore,
		RiskAnalysis:   r.RiskAnalysis,
		PetitionDraft:  r.PetitionDraft,
		AISummary:      r.AISummary,
		ExpertSummary:  r.ExpertSummary,
		AssignedTo:     r.AssignedTo,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Ensure CaseServiceImpl implements the interface
var _ primary.CaseService = (*CaseServiceImpl)(nil)
