// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/ports/secondary"
)

// CaseRepository implements secondary.CaseRepository with SQLite.
type CaseRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewCaseRepository creates a new SQLite case repository.
// logWriter is optional - if nil, no change logging is performed.
func NewCaseRepository(db *sql.DB, logWriter secondary.LogWriter) *CaseRepository {
	return &CaseRepository{db: db, logWriter: logWriter}
}

const caseColumns = "id, title, case_type, status, workflow_status, current_phase, risk_score, risk_analysis, petition_draft, ai_summary, expert_summary, assigned_to, created_at, updated_at"

// Create persists a new case.
func (r *CaseRepository) Create(ctx context.Context, c *secondary.CaseRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO cases (id, title, case_type, status, workflow_status, current_phase) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Title, c.CaseType, c.Status, c.WorkflowStatus, c.CurrentPhase,
	)
	if err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}

	// Log create operation
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "case", c.ID)
	}

	return nil
}

// GetByID retrieves a case by its ID.
func (r *CaseRepository) GetByID(ctx context.Context, id string) (*secondary.CaseRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE id = ?", id,
	)

	record, err := scanCase(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("case", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	return record, nil
}

// List retrieves cases matching the given filters.
func (r *CaseRepository) List(ctx context.Context, filters secondary.CaseFilters) ([]*secondary.CaseRecord, error) {
	query := "SELECT " + caseColumns + " FROM cases WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.CaseType != "" {
		query += " AND case_type = ?"
		args = append(args, filters.CaseType)
	}
	if filters.AssignedTo != "" {
		query += " AND assigned_to = ?"
		args = append(args, filters.AssignedTo)
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*secondary.CaseRecord
	for rows.Next() {
		record, err := scanCase(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, record)
	}

	return cases, nil
}

// UpdateStatus sets the case status.
func (r *CaseRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE cases SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update case status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("case", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "case", id, "status", "", status)
	}

	return nil
}

// UpdateWorkflow sets the workflow status and current phase together.
func (r *CaseRepository) UpdateWorkflow(ctx context.Context, id, workflowStatus string, currentPhase int) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE cases SET workflow_status = ?, current_phase = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		workflowStatus, currentPhase, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow state: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("case", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "case", id, "workflow_status", "", workflowStatus)
	}

	return nil
}

// UpdateAssignment sets or clears the assigned user.
func (r *CaseRepository) UpdateAssignment(ctx context.Context, id, userID string) error {
	var assigned sql.NullString
	if userID != "" {
		assigned = sql.NullString{String: userID, Valid: true}
	}

	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE cases SET assigned_to = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		assigned, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("case", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "case", id, "assigned_to", "", userID)
	}

	return nil
}

// UpdateOverridableFields writes AI-derived field values in one statement.
func (r *CaseRepository) UpdateOverridableFields(ctx context.Context, id string, values map[string]string) error {
	query := "UPDATE cases SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	for field, value := range values {
		switch field {
		case "risk_score":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("risk_score %q is not a number: %w", value, err)
			}
			query += ", risk_score = ?"
			args = append(args, f)
		case "risk_analysis":
			query += ", risk_analysis = ?"
			args = append(args, value)
		case "petition_draft":
			query += ", petition_draft = ?"
			args = append(args, value)
		case "ai_summary":
			query += ", ai_summary = ?"
			args = append(args, value)
		case "expert_summary":
			query += ", expert_summary = ?"
			args = append(args, value)
		default:
			return fmt.Errorf("field %s is not overridable", field)
		}
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update overridable fields: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("case", id)
	}

	if r.logWriter != nil {
		for field, value := range values {
			_ = r.logWriter.LogUpdate(ctx, "case", id, field, "", value)
		}
	}

	return nil
}

// GetNextID returns the next available case ID.
func (r *CaseRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM cases",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next case ID: %w", err)
	}

	return fmt.Sprintf("CASE-%03d", maxID+1), nil
}

// scanCase maps one row into a CaseRecord via the given scan function.
func scanCase(scan func(...any) error) (*secondary.CaseRecord, error) {
	var (
		riskScore     sql.NullFloat64
		riskAnalysis  sql.NullString
		petitionDraft sql.NullString
		aiSummary     sql.NullString
		expertSummary sql.NullString
		assignedTo    sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
	)

	record := &secondary.CaseRecord{}
	err := scan(
		&record.ID, &record.Title, &record.CaseType, &record.Status,
		&record.WorkflowStatus, &record.CurrentPhase,
		&riskScore, &riskAnalysis, &petitionDraft, &aiSummary, &expertSummary,
		&assignedTo, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if riskScore.Valid {
		v := riskScore.Float64
		record.RiskScore = &v
	}
	record.RiskAnalysis = riskAnalysis.String
	record.PetitionDraft = petitionDraft.String
	record.AISummary = aiSummary.String
	record.ExpertSummary = expertSummary.String
	record.AssignedTo = assignedTo.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure CaseRepository implements the interface
var _ secondary.CaseRepository = (*CaseRepository)(nil)
