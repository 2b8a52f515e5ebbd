package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockCaseRepository implements secondary.CaseRepository for testing.
type mockCaseRepository struct {
	mu     sync.Mutex
	cases  map[string]*secondary.CaseRecord
	nextID int

	createErr error
	getErr    error
	updateErr error
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{cases: make(map[string]*secondary.CaseRecord)}
}

func (m *mockCaseRepository) Create(ctx context.Context, c *secondary.CaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *c
	m.cases[c.ID] = &cp
	return nil
}

func (m *mockCaseRepository) GetByID(ctx context.Context, id string) (*secondary.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.cases[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperr.NotFound("case", id)
}

func (m *mockCaseRepository) List(ctx context.Context, filters secondary.CaseFilters) ([]*secondary.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.CaseRecord
	for _, c := range m.cases {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.CaseType != "" && c.CaseType != filters.CaseType {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCaseRepository) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if c, ok := m.cases[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *mockCaseRepository) UpdateWorkflow(ctx context.Context, id, workflowStatus string, currentPhase int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if c, ok := m.cases[id]; ok {
		c.WorkflowStatus = workflowStatus
		c.CurrentPhase = currentPhase
	}
	return nil
}

func (m *mockCaseRepository) UpdateAssignment(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cases[id]; ok {
		c.AssignedTo = userID
	}
	return nil
}

func (m *mockCaseRepository) UpdateOverridableFields(ctx context.Context, id string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	c, ok := m.cases[id]
	if !ok {
		return apperr.NotFound("case", id)
	}
	for field, value := range values {
		switch field {
		case "risk_score":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}
			c.RiskScore = &f
		case "risk_analysis":
			c.RiskAnalysis = value
		case "petition_draft":
			c.PetitionDraft = value
		case "ai_summary":
			c.AISummary = value
		case "expert_summary":
			c.ExpertSummary = value
		}
	}
	return nil
}

func (m *mockCaseRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return fmt.Sprintf("CASE-%03d", m.nextID), nil
}

// mockPhaseRepository implements secondary.PhaseRepository for testing.
type mockPhaseRepository struct {
	mu     sync.Mutex
	phases map[string][]*secondary.PhaseRecord // caseID -> phases

	createErr error
}

func newMockPhaseRepository() *mockPhaseRepository {
	return &mockPhaseRepository{phases: make(map[string][]*secondary.PhaseRecord)}
}

func (m *mockPhaseRepository) CreateBatch(ctx context.Context, phases []*secondary.PhaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, p := range phases {
		cp := *p
		m.phases[p.CaseID] = append(m.phases[p.CaseID], &cp)
	}
	return nil
}

func (m *mockPhaseRepository) GetByCase(ctx context.Context, caseID string) ([]*secondary.PhaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.PhaseRecord, 0, len(m.phases[caseID]))
	for _, p := range m.phases[caseID] {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *mockPhaseRepository) UpdateStatus(ctx context.Context, caseID string, number int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.phases[caseID] {
		if p.Number == number {
			p.Status = status
			return nil
		}
	}
	return apperr.NotFound("phase", fmt.Sprintf("%d", number))
}

func (m *mockPhaseRepository) ExistsForCase(ctx context.Context, caseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.phases[caseID]) > 0, nil
}

// mockGateRepository implements secondary.GateRepository for testing.
type mockGateRepository struct {
	mu    sync.Mutex
	gates map[string][]*secondary.GateRecord // caseID -> gates

	setErr error
}

func newMockGateRepository() *mockGateRepository {
	return &mockGateRepository{gates: make(map[string][]*secondary.GateRecord)}
}

func (m *mockGateRepository) CreateBatch(ctx context.Context, gates []*secondary.GateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range gates {
		cp := *g
		m.gates[g.CaseID] = append(m.gates[g.CaseID], &cp)
	}
	return nil
}

func (m *mockGateRepository) GetByCase(ctx context.Context, caseID string) ([]*secondary.GateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.GateRecord, 0, len(m.gates[caseID]))
	for _, g := range m.gates[caseID] {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockGateRepository) GetByCaseAndPhase(ctx context.Context, caseID string, phaseNumber int) ([]*secondary.GateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.GateRecord
	for _, g := range m.gates[caseID] {
		if g.PhaseNumber == phaseNumber {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockGateRepository) GetByKey(ctx context.Context, caseID, gateKey string) (*secondary.GateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.gates[caseID] {
		if g.GateKey == gateKey {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("gate", gateKey)
}

func (m *mockGateRepository) SetMet(ctx context.Context, caseID, gateKey string, isMet bool, metBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	for _, g := range m.gates[caseID] {
		if g.GateKey == gateKey {
			g.IsMet = isMet
			g.MetBy = metBy
			return nil
		}
	}
	return apperr.NotFound("gate", gateKey)
}

func (m *mockGateRepository) SetOverride(ctx context.Context, caseID, gateKey string, overridden bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.gates[caseID] {
		if g.GateKey == gateKey {
			g.ManuallyOverridden = overridden
			return nil
		}
	}
	return apperr.NotFound("gate", gateKey)
}

// mockAuditRepository implements secondary.AuditRepository for testing.
type mockAuditRepository struct {
	mu          sync.Mutex
	transitions []*secondary.StatusTransitionRecord
	overrides   []*secondary.OverrideEventRecord

	appendErr error
}

func newMockAuditRepository() *mockAuditRepository {
	return &mockAuditRepository{}
}

func (m *mockAuditRepository) AppendTransition(ctx context.Context, entry *secondary.StatusTransitionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	cp := *entry
	m.transitions = append(m.transitions, &cp)
	return nil
}

func (m *mockAuditRepository) AppendOverride(ctx context.Context, entry *secondary.OverrideEventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	cp := *entry
	m.overrides = append(m.overrides, &cp)
	return nil
}

func (m *mockAuditRepository) ListTransitions(ctx context.Context, caseID string) ([]*secondary.StatusTransitionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.StatusTransitionRecord
	for _, e := range m.transitions {
		if e.CaseID == caseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockAuditRepository) ListOverrides(ctx context.Context, caseID string) ([]*secondary.OverrideEventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.OverrideEventRecord
	for _, e := range m.overrides {
		if e.CaseID == caseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// mockUserDirectory implements secondary.UserDirectory for testing.
type mockUserDirectory struct {
	users map[string]*secondary.UserRecord
}

func newMockUserDirectory(ids ...string) *mockUserDirectory {
	m := &mockUserDirectory{users: make(map[string]*secondary.UserRecord)}
	for _, id := range ids {
		m.users[id] = &secondary.UserRecord{ID: id, Name: id, Role: "analyst"}
	}
	return m
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", id)
}

func (m *mockUserDirectory) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.users[id]
	return ok, nil
}

// mockTxRunner implements secondary.TxRunner for testing. The map-backed
// mock repositories mutate in place, so it just runs fn; atomicity of the
// real runner is exercised against SQLite in the adapter tests.
type mockTxRunner struct{}

func (m *mockTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockActorProvider implements secondary.ActorProvider for testing.
type mockActorProvider struct {
	identity secondary.ActorIdentity
	err      error
}

func (m *mockActorProvider) GetCurrentActor(ctx context.Context) (*secondary.ActorIdentity, error) {
	if m.err != nil {
		return nil, m.err
	}
	cp := m.identity
	return &cp, nil
}

func asAnalyst() *mockActorProvider {
	return &mockActorProvider{identity: secondary.ActorIdentity{ID: "USR-analyst", Role: "analyst"}}
}

func asExpert() *mockActorProvider {
	return &mockActorProvider{identity: secondary.ActorIdentity{ID: "USR-expert", Role: "expert"}}
}

func asAdmin() *mockActorProvider {
	return &mockActorProvider{identity: secondary.ActorIdentity{ID: "USR-admin", Role: "admin"}}
}

// Ensure mocks implement their interfaces
var (
	_ secondary.CaseRepository  = (*mockCaseRepository)(nil)
	_ secondary.PhaseRepository = (*mockPhaseRepository)(nil)
	_ secondary.GateRepository  = (*mockGateRepository)(nil)
	_ secondary.AuditRepository = (*mockAuditRepository)(nil)
	_ secondary.UserDirectory   = (*mockUserDirectory)(nil)
	_ secondary.ActorProvider   = (*mockActorProvider)(nil)
	_ secondary.TxRunner        = (*mockTxRunner)(nil)
)
