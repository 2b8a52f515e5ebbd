package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/caseflow/internal/apperr"
	coreoverride "github.com/example/caseflow/internal/core/override"
	"github.com/example/caseflow/internal/core/readiness"
	"github.com/example/caseflow/internal/core/template"
	"github.com/example/caseflow/internal/core/workflow"
	"github.com/example/caseflow/internal/ports/primary"
	"github.com/example/caseflow/internal/ports/secondary"
)

// WorkflowServiceImpl implements the WorkflowService interface. It is the
// orchestrator façade: every phase/gate mutation runs inside the case's
// exclusive section and goes through the pure core for its decision.
type WorkflowServiceImpl struct {
	caseRepo      secondary.CaseRepository
	phaseRepo     secondary.PhaseRepository
	gateRepo      secondary.GateRepository
	auditRepo     secondary.AuditRepository
	tx            secondary.TxRunner
	actorProvider secondary.ActorProvider
	registry      *template.Registry
	locks         *CaseLocks
}

// NewWorkflowService creates a new WorkflowService with injected dependencies.
// The lock registry is shared with CaseService so both machines serialize
// against the same per-case section.
func NewWorkflowService(
	caseRepo secondary.CaseRepository,
	phaseRepo secondary.PhaseRepository,
	gateRepo secondary.GateRepository,
	auditRepo secondary.AuditRepository,
	tx secondary.TxRunner,
	actorProvider secondary.ActorProvider,
	registry *template.Registry,
	locks *CaseLocks,
) *WorkflowServiceImpl {
	return &WorkflowServiceImpl{
		caseRepo:      caseRepo,
		phaseRepo:     phaseRepo,
		gateRepo:      gateRepo,
		auditRepo:     auditRepo,
		tx:            tx,
		actorProvider: actorProvider,
		registry:      registry,
		locks:         locks,
	}
}

// Initialize creates the phase and gate set for a case from its case-type
// template. Idempotency is checked by existence of phases, not content.
func (s *WorkflowServiceImpl) Initialize(ctx context.Context, req primary.InitializeRequest) (*primary.InitializeResponse, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.phaseRepo.ExistsForCase(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing workflow: %w", err)
	}
	if exists {
		return nil, apperr.AlreadyInitialized(c.ID)
	}

	tpl := s.registry.Get(c.CaseType)

	phases := make([]*secondary.PhaseRecord, 0, len(tpl.Phases))
	var gates []*secondary.GateRecord
	for _, p := range tpl.Phases {
		status := string(workflow.PhasePending)
		if p.Number == 1 {
			status = string(workflow.PhaseInProgress)
		}
		phases = append(phases, &secondary.PhaseRecord{
			CaseID: c.ID,
			Number: p.Number,
			Name:   p.Name,
			Status: status,
		})
		for _, g := range p.Gates {
			gates = append(gates, &secondary.GateRecord{
				CaseID:      c.ID,
				PhaseNumber: p.Number,
				GateKey:     g.Key,
				Label:       g.Label,
				Requirement: string(g.Requirement),
			})
		}
	}

	// One transaction: a failure part-way through must not leave a
	// half-built workflow behind for the idempotency check to trip on.
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.phaseRepo.CreateBatch(ctx, phases); err != nil {
			return fmt.Errorf("failed to create phases: %w", err)
		}
		if err := s.gateRepo.CreateBatch(ctx, gates); err != nil {
			return fmt.Errorf("failed to create gates: %w", err)
		}
		if err := s.caseRepo.UpdateWorkflow(ctx, c.ID, string(workflow.StatusActive), 1); err != nil {
			return fmt.Errorf("failed to activate workflow: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &primary.InitializeResponse{
		CaseID:      c.ID,
		CaseType:    tpl.CaseType,
		PhasesTotal: len(phases),
		GatesTotal:  len(gates),
	}, nil
}

// GetSummary returns the workflow summary for a case.
func (s *WorkflowServiceImpl) GetSummary(ctx context.Context, caseID string) (*primary.WorkflowSummary, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	gates, err := s.gateRepo.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gates: %w", err)
	}

	counts := workflow.CountGates(gateStates(gates))
	return &primary.WorkflowSummary{
		CaseID:         c.ID,
		CaseType:       c.CaseType,
		WorkflowStatus: c.WorkflowStatus,
		CurrentPhase:   c.CurrentPhase,
		PhasesTotal:    workflow.PhaseCount,
		GatesMet:       counts.Met,
		GatesTotal:     counts.Total,
	}, nil
}

// GetPhases returns the ordered phase list with derived gate counts.
func (s *WorkflowServiceImpl) GetPhases(ctx context.Context, caseID string) ([]*primary.PhaseView, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}

	phases, err := s.phaseRepo.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phases: %w", err)
	}
	gates, err := s.gateRepo.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gates: %w", err)
	}

	byPhase := make(map[int][]workflow.GateState)
	for _, g := range gates {
		byPhase[g.PhaseNumber] = append(byPhase[g.PhaseNumber], gateState(g))
	}

	views := make([]*primary.PhaseView, 0, len(phases))
	for _, p := range phases {
		counts := workflow.CountGates(byPhase[p.Number])
		views = append(views, &primary.PhaseView{
			Number:     p.Number,
			Name:       p.Name,
			Status:     p.Status,
			GatesMet:   counts.Met,
			GatesTotal: counts.Total,
		})
	}
	return views, nil
}

// GetGates returns the gates of one phase.
func (s *WorkflowServiceImpl) GetGates(ctx context.Context, caseID string, phaseNumber int) ([]*primary.GateView, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}
	if phaseNumber < 1 || phaseNumber > workflow.PhaseCount {
		return nil, apperr.NotFound("phase", fmt.Sprintf("%d", phaseNumber))
	}

	gates, err := s.gateRepo.GetByCaseAndPhase(ctx, caseID, phaseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get gates: %w", err)
	}

	views := make([]*primary.GateView, 0, len(gates))
	for _, g := range gates {
		views = append(views, gateView(g))
	}
	return views, nil
}

// ToggleGate sets a gate's is_met flag. Gates in non-current phases are
// read-only; toggling off never clears a manual override.
func (s *WorkflowServiceImpl) ToggleGate(ctx context.Context, req primary.ToggleGateRequest) (*primary.GateView, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}
	gate, err := s.gateRepo.GetByKey(ctx, req.CaseID, req.GateKey)
	if err != nil {
		return nil, err
	}

	guard := workflow.CanToggleGate(workflow.ToggleGateContext{
		CaseID:         c.ID,
		GateKey:        gate.GateKey,
		PhaseNumber:    gate.PhaseNumber,
		CurrentPhase:   c.CurrentPhase,
		WorkflowStatus: workflow.Status(c.WorkflowStatus),
	})
	if !guard.Allowed {
		return nil, apperr.InvalidState("%s", guard.Reason)
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	metBy := ""
	if req.IsMet {
		metBy = actor.ID
	}
	if err := s.gateRepo.SetMet(ctx, req.CaseID, req.GateKey, req.IsMet, metBy); err != nil {
		return nil, fmt.Errorf("failed to set gate: %w", err)
	}

	updated, err := s.gateRepo.GetByKey(ctx, req.CaseID, req.GateKey)
	if err != nil {
		return nil, err
	}
	return gateView(updated), nil
}

// OverrideGate marks a gate manually overridden. Requires elevated
// capability; works on closed phases too, and never touches is_met.
func (s *WorkflowServiceImpl) OverrideGate(ctx context.Context, req primary.OverrideGateRequest) (*primary.GateView, error) {
	return s.setGateOverride(ctx, req, true, "override gate "+req.GateKey)
}

// ClearGateOverride reverses an override. Same capability class as setting
// one; this is the only path that unsets manually_overridden.
func (s *WorkflowServiceImpl) ClearGateOverride(ctx context.Context, req primary.OverrideGateRequest) (*primary.GateView, error) {
	return s.setGateOverride(ctx, req, false, "clear override on gate "+req.GateKey)
}

func (s *WorkflowServiceImpl) setGateOverride(ctx context.Context, req primary.OverrideGateRequest, overridden bool, action string) (*primary.GateView, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	if _, err := s.caseRepo.GetByID(ctx, req.CaseID); err != nil {
		return nil, err
	}
	if _, err := s.gateRepo.GetByKey(ctx, req.CaseID, req.GateKey); err != nil {
		return nil, err
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	guardCtx := workflow.OverrideGateContext{
		CaseID:        req.CaseID,
		GateKey:       req.GateKey,
		ActorID:       actor.ID,
		ActorElevated: coreoverride.Elevated(coreoverride.Role(actor.Role)),
	}
	var guard workflow.GuardResult
	if overridden {
		guard = workflow.CanOverrideGate(guardCtx)
	} else {
		guard = workflow.CanClearGateOverride(guardCtx)
	}
	if !guard.Allowed {
		return nil, apperr.Permission(actor.ID, action)
	}

	if err := s.gateRepo.SetOverride(ctx, req.CaseID, req.GateKey, overridden); err != nil {
		return nil, fmt.Errorf("failed to set gate override: %w", err)
	}

	updated, err := s.gateRepo.GetByKey(ctx, req.CaseID, req.GateKey)
	if err != nil {
		return nil, err
	}
	return gateView(updated), nil
}

// Advance attempts to close the current phase. A blocked outcome performs
// no mutation and reports the exact unmet required gate keys.
func (s *WorkflowServiceImpl) Advance(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	guard := workflow.CanAdvance(workflow.AdvanceContext{
		CaseID:         c.ID,
		WorkflowStatus: workflow.Status(c.WorkflowStatus),
		CurrentPhase:   c.CurrentPhase,
	})
	if !guard.Allowed {
		return nil, apperr.InvalidState("%s", guard.Reason)
	}

	gates, err := s.gateRepo.GetByCaseAndPhase(ctx, c.ID, c.CurrentPhase)
	if err != nil {
		return nil, fmt.Errorf("failed to get gates: %w", err)
	}

	decision := workflow.DecideAdvance(c.CurrentPhase, gateStates(gates))
	if !decision.Advanced {
		return &primary.AdvanceResponse{
			Advanced:   false,
			NewPhase:   c.CurrentPhase,
			UnmetGates: decision.UnmetGates,
		}, nil
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	return s.closeCurrentPhase(ctx, c, actor, decision, workflow.PhaseCompleted, secondary.TransitionKindPhaseAdvance, "")
}

// SkipPhase administratively skips the current phase. This is the only
// path into the skipped phase status.
func (s *WorkflowServiceImpl) SkipPhase(ctx context.Context, req primary.SkipPhaseRequest) (*primary.AdvanceResponse, error) {
	unlock := s.locks.Lock(req.CaseID)
	defer unlock()

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	actor, err := s.actorProvider.GetCurrentActor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	guard := workflow.CanSkipPhase(workflow.SkipContext{
		CaseID:         c.ID,
		PhaseNumber:    c.CurrentPhase,
		CurrentPhase:   c.CurrentPhase,
		WorkflowStatus: workflow.Status(c.WorkflowStatus),
		ActorIsAdmin:   coreoverride.Role(actor.Role) == coreoverride.RoleAdmin,
	})
	if !guard.Allowed {
		if workflow.Status(c.WorkflowStatus) != workflow.StatusActive {
			return nil, apperr.InvalidState("%s", guard.Reason)
		}
		return nil, apperr.Permission(actor.ID, fmt.Sprintf("skip phase %d of case %s", c.CurrentPhase, c.ID))
	}

	decision := workflow.AdvanceDecision{Advanced: true, NewPhase: c.CurrentPhase + 1}
	if c.CurrentPhase == workflow.PhaseCount {
		decision.NewPhase = c.CurrentPhase
		decision.WorkflowCompleted = true
	}
	return s.closeCurrentPhase(ctx, c, actor, decision, workflow.PhaseSkipped, secondary.TransitionKindPhaseSkip, req.Reason)
}

// closeCurrentPhase applies an advance/skip decision: closes the current
// phase, opens the next (or completes the workflow), and appends the
// audit entry, all in one transaction. The actor is resolved by the
// caller before any write so a resolution failure mutates nothing.
// Callers hold the case lock.
func (s *WorkflowServiceImpl) closeCurrentPhase(
	ctx context.Context,
	c *secondary.CaseRecord,
	actor *secondary.ActorIdentity,
	decision workflow.AdvanceDecision,
	closed workflow.PhaseStatus,
	kind string,
	reason string,
) (*primary.AdvanceResponse, error) {
	to := fmt.Sprintf("phase_%d", decision.NewPhase)
	workflowStatus := workflow.StatusActive
	if decision.WorkflowCompleted {
		to = "workflow_completed"
		workflowStatus = workflow.StatusCompleted
	}
	entry := &secondary.StatusTransitionRecord{
		CaseID:     c.ID,
		FromStatus: fmt.Sprintf("phase_%d", c.CurrentPhase),
		ToStatus:   to,
		ChangedBy:  actor.ID,
		Reason:     reason,
		Kind:       kind,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.phaseRepo.UpdateStatus(ctx, c.ID, c.CurrentPhase, string(closed)); err != nil {
			return fmt.Errorf("failed to close phase %d: %w", c.CurrentPhase, err)
		}
		if !decision.WorkflowCompleted {
			if err := s.phaseRepo.UpdateStatus(ctx, c.ID, decision.NewPhase, string(workflow.PhaseInProgress)); err != nil {
				return fmt.Errorf("failed to open phase %d: %w", decision.NewPhase, err)
			}
		}
		if err := s.caseRepo.UpdateWorkflow(ctx, c.ID, string(workflowStatus), decision.NewPhase); err != nil {
			return fmt.Errorf("failed to update workflow state: %w", err)
		}
		if err := s.auditRepo.AppendTransition(ctx, entry); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &primary.AdvanceResponse{
		Advanced:          true,
		NewPhase:          decision.NewPhase,
		WorkflowCompleted: decision.WorkflowCompleted,
	}, nil
}

// GetReadiness computes the derived readiness view. Pure query: readiness
// is recomputed from phase/gate state on demand and never stored.
func (s *WorkflowServiceImpl) GetReadiness(ctx context.Context, caseID string) (*primary.ReadinessView, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if workflow.Status(c.WorkflowStatus) == workflow.StatusNotInitialized {
		// Nothing has happened yet; an uninitialized case is as far from
		// enforcement-ready as a case can be.
		return &primary.ReadinessView{CaseID: caseID, Score: 0, RiskLevel: string(readiness.RiskCritical)}, nil
	}

	phases, err := s.phaseRepo.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phases: %w", err)
	}
	gates, err := s.gateRepo.GetByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gates: %w", err)
	}

	visited := make(map[int]bool)
	remaining := 0
	for _, p := range phases {
		switch workflow.PhaseStatus(p.Status) {
		case workflow.PhaseCompleted, workflow.PhaseInProgress:
			visited[p.Number] = true
		case workflow.PhasePending:
			remaining++
		}
	}
	in := readiness.Input{PhasesRemaining: remaining, RiskScore: c.RiskScore}
	for _, g := range gates {
		if !visited[g.PhaseNumber] || g.Requirement != string(workflow.RequirementRequired) {
			continue
		}
		in.RequiredTotal++
		if gateState(g).Satisfied() {
			in.RequiredMet++
		}
	}

	result := readiness.Compute(in)
	return &primary.ReadinessView{
		CaseID:    caseID,
		Score:     result.Score,
		RiskLevel: string(result.RiskLevel),
	}, nil
}

// gateState maps a persistence record into the core evaluation shape.
func gateState(g *secondary.GateRecord) workflow.GateState {
	return workflow.GateState{
		Key:                g.GateKey,
		Requirement:        workflow.Requirement(g.Requirement),
		IsMet:              g.IsMet,
		ManuallyOverridden: g.ManuallyOverridden,
	}
}

func gateStates(gates []*secondary.GateRecord) []workflow.GateState {
	states := make([]workflow.GateState, len(gates))
	for i, g := range gates {
		states[i] = gateState(g)
	}
	return states
}

func gateView(g *secondary.GateRecord) *primary.GateView {
	return &primary.GateView{
		GateKey:            g.GateKey,
		Label:              g.Label,
		PhaseNumber:        g.PhaseNumber,
		Requirement:        g.Requirement,
		IsMet:              g.IsMet,
		ManuallyOverridden: g.ManuallyOverridden,
		Satisfied:          gateState(g).Satisfied(),
		MetBy:              g.MetBy,
	}
}

// Ensure WorkflowServiceImpl implements the interface
var _ primary.WorkflowService = (*WorkflowServiceImpl)(nil)
