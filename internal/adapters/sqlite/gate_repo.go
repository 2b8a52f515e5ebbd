package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/ports/secondary"
)

// GateRepository implements secondary.GateRepository with SQLite.
type GateRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewGateRepository creates a new SQLite gate repository.
// logWriter is optional - if nil, no change logging is performed.
func NewGateRepository(db *sql.DB, logWriter secondary.LogWriter) *GateRepository {
	return &GateRepository{db: db, logWriter: logWriter}
}

const gateColumns = "id, case_id, phase_number, gate_key, label, requirement, is_met, manually_overridden, met_by, updated_at"

// CreateBatch persists the full gate set for a case in one transaction,
// joining the caller's transaction when one is already open.
func (r *GateRepository) CreateBatch(ctx context.Context, gates []*secondary.GateRecord) error {
	runner := NewTxRunner(r.db)
	return runner.InTx(ctx, func(ctx context.Context) error {
		for _, g := range gates {
			id := g.ID
			if id == "" {
				id = uuid.NewString()
			}
			_, err := conn(ctx, r.db).ExecContext(ctx,
				"INSERT INTO gates (id, case_id, phase_number, gate_key, label, requirement, is_met, manually_overridden) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				id, g.CaseID, g.PhaseNumber, g.GateKey, g.Label, g.Requirement, g.IsMet, g.ManuallyOverridden,
			)
			if err != nil {
				return fmt.Errorf("failed to create gate %s: %w", g.GateKey, err)
			}
		}
		return nil
	})
}

// GetByCase retrieves all gates for a case ordered by phase then key.
func (r *GateRepository) GetByCase(ctx context.Context, caseID string) ([]*secondary.GateRecord, error) {
	return r.query(ctx,
		"SELECT "+gateColumns+" FROM gates WHERE case_id = ? ORDER BY phase_number, gate_key",
		caseID,
	)
}

// GetByCaseAndPhase retrieves the gates of one phase.
func (r *GateRepository) GetByCaseAndPhase(ctx context.Context, caseID string, phaseNumber int) ([]*secondary.GateRecord, error) {
	return r.query(ctx,
		"SELECT "+gateColumns+" FROM gates WHERE case_id = ? AND phase_number = ? ORDER BY gate_key",
		caseID, phaseNumber,
	)
}

// GetByKey retrieves a single gate by its key.
func (r *GateRepository) GetByKey(ctx context.Context, caseID, gateKey string) (*secondary.GateRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+gateColumns+" FROM gates WHERE case_id = ? AND gate_key = ?",
		caseID, gateKey,
	)

	record, err := scanGate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("gate", gateKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gate: %w", err)
	}

	return record, nil
}

// SetMet sets the is_met flag and its attribution.
func (r *GateRepository) SetMet(ctx context.Context, caseID, gateKey string, isMet bool, metBy string) error {
	var attribution sql.NullString
	if metBy != "" {
		attribution = sql.NullString{String: metBy, Valid: true}
	}

	prior, err := r.priorFlag(ctx, caseID, gateKey, "is_met")
	if err != nil {
		return err
	}

	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE gates SET is_met = ?, met_by = ?, updated_at = CURRENT_TIMESTAMP WHERE case_id = ? AND gate_key = ?",
		isMet, attribution, caseID, gateKey,
	)
	if err != nil {
		return fmt.Errorf("failed to set gate: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("gate", gateKey)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "gate", caseID+"/"+gateKey, "is_met", fmt.Sprintf("%t", prior), fmt.Sprintf("%t", isMet))
	}

	return nil
}

// SetOverride sets or clears the manually_overridden flag. It never touches
// is_met.
func (r *GateRepository) SetOverride(ctx context.Context, caseID, gateKey string, overridden bool) error {
	prior, err := r.priorFlag(ctx, caseID, gateKey, "manually_overridden")
	if err != nil {
		return err
	}

	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE gates SET manually_overridden = ?, updated_at = CURRENT_TIMESTAMP WHERE case_id = ? AND gate_key = ?",
		overridden, caseID, gateKey,
	)
	if err != nil {
		return fmt.Errorf("failed to set gate override: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("gate", gateKey)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "gate", caseID+"/"+gateKey, "manually_overridden", fmt.Sprintf("%t", prior), fmt.Sprintf("%t", overridden))
	}

	return nil
}

// priorFlag reads a boolean gate column before a mutation so the change
// log can record both sides of the update.
func (r *GateRepository) priorFlag(ctx context.Context, caseID, gateKey, column string) (bool, error) {
	var value bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+column+" FROM gates WHERE case_id = ? AND gate_key = ?",
		caseID, gateKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return false, apperr.NotFound("gate", gateKey)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read gate: %w", err)
	}
	return value, nil
}

func (r *GateRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.GateRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gates: %w", err)
	}
	defer rows.Close()

	var gates []*secondary.GateRecord
	for rows.Next() {
		record, err := scanGate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gate: %w", err)
		}
		gates = append(gates, record)
	}

	return gates, nil
}

func scanGate(scan func(...any) error) (*secondary.GateRecord, error) {
	var (
		metBy     sql.NullString
		updatedAt time.Time
	)

	record := &secondary.GateRecord{}
	err := scan(
		&record.ID, &record.CaseID, &record.PhaseNumber, &record.GateKey,
		&record.Label, &record.Requirement, &record.IsMet,
		&record.ManuallyOverridden, &metBy, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.MetBy = metBy.String
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure GateRepository implements the interface
var _ secondary.GateRepository = (*GateRepository)(nil)
