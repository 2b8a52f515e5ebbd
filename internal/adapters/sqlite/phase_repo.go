package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/ports/secondary"
)

// PhaseRepository implements secondary.PhaseRepository with SQLite.
type PhaseRepository struct {
	db *sql.DB
}

// NewPhaseRepository creates a new SQLite phase repository.
func NewPhaseRepository(db *sql.DB) *PhaseRepository {
	return &PhaseRepository{db: db}
}

// CreateBatch persists the full phase set for a case in one transaction,
// joining the caller's transaction when one is already open.
func (r *PhaseRepository) CreateBatch(ctx context.Context, phases []*secondary.PhaseRecord) error {
	runner := NewTxRunner(r.db)
	return runner.InTx(ctx, func(ctx context.Context) error {
		for _, p := range phases {
			_, err := conn(ctx, r.db).ExecContext(ctx,
				"INSERT INTO phases (id, case_id, phase_number, name, status) VALUES (?, ?, ?, ?, ?)",
				uuid.NewString(), p.CaseID, p.Number, p.Name, p.Status,
			)
			if err != nil {
				return fmt.Errorf("failed to create phase %d: %w", p.Number, err)
			}
		}
		return nil
	})
}

// GetByCase retrieves a case's phases ordered by phase number.
func (r *PhaseRepository) GetByCase(ctx context.Context, caseID string) ([]*secondary.PhaseRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT case_id, phase_number, name, status FROM phases WHERE case_id = ? ORDER BY phase_number",
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	defer rows.Close()

	var phases []*secondary.PhaseRecord
	for rows.Next() {
		record := &secondary.PhaseRecord{}
		if err := rows.Scan(&record.CaseID, &record.Number, &record.Name, &record.Status); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, record)
	}

	return phases, nil
}

// UpdateStatus sets the status of one phase.
func (r *PhaseRepository) UpdateStatus(ctx context.Context, caseID string, number int, status string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE phases SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE case_id = ? AND phase_number = ?",
		status, caseID, number,
	)
	if err != nil {
		return fmt.Errorf("failed to update phase status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("phase", fmt.Sprintf("%d", number))
	}

	return nil
}

// ExistsForCase reports whether any phases exist for a case.
func (r *PhaseRepository) ExistsForCase(ctx context.Context, caseID string) (bool, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM phases WHERE case_id = ?", caseID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check phase existence: %w", err)
	}
	return count > 0, nil
}

// Ensure PhaseRepository implements the interface
var _ secondary.PhaseRepository = (*PhaseRepository)(nil)
