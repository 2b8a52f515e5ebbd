package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/caseflow/internal/ports/secondary"
)

// AuditRepository implements secondary.AuditRepository with SQLite. Both
// trails are append-only: there is no update or delete statement in this
// file, and the port offers none.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new SQLite audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AppendTransition appends a status transition entry.
func (r *AuditRepository) AppendTransition(ctx context.Context, entry *secondary.StatusTransitionRecord) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	var reason sql.NullString
	if entry.Reason != "" {
		reason = sql.NullString{String: entry.Reason, Valid: true}
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO status_transitions (id, case_id, from_status, to_status, changed_by, reason, kind) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, entry.CaseID, entry.FromStatus, entry.ToStatus, entry.ChangedBy, reason, entry.Kind,
	)
	if err != nil {
		return fmt.Errorf("failed to append transition: %w", err)
	}

	return nil
}

// AppendOverride appends an override event entry. Field lists and prior
// values are stored as JSON.
func (r *AuditRepository) AppendOverride(ctx context.Context, entry *secondary.OverrideEventRecord) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	fields, err := json.Marshal(entry.FieldsChanged)
	if err != nil {
		return fmt.Errorf("failed to encode changed fields: %w", err)
	}
	priors, err := json.Marshal(entry.PriorValues)
	if err != nil {
		return fmt.Errorf("failed to encode prior values: %w", err)
	}

	_, err = conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO override_events (id, case_id, override_by, reason, fields_changed, prior_values) VALUES (?, ?, ?, ?, ?, ?)",
		id, entry.CaseID, entry.OverrideBy, entry.Reason, string(fields), string(priors),
	)
	if err != nil {
		return fmt.Errorf("failed to append override event: %w", err)
	}

	return nil
}

// ListTransitions retrieves a case's transitions oldest first.
func (r *AuditRepository) ListTransitions(ctx context.Context, caseID string) ([]*secondary.StatusTransitionRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, case_id, from_status, to_status, changed_by, reason, kind, created_at FROM status_transitions WHERE case_id = ? ORDER BY rowid",
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transitions: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.StatusTransitionRecord
	for rows.Next() {
		var (
			reason    sql.NullString
			createdAt time.Time
		)

		record := &secondary.StatusTransitionRecord{}
		err := rows.Scan(&record.ID, &record.CaseID, &record.FromStatus, &record.ToStatus, &record.ChangedBy, &reason, &record.Kind, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}

		record.Reason = reason.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, nil
}

// ListOverrides retrieves a case's override events oldest first.
func (r *AuditRepository) ListOverrides(ctx context.Context, caseID string) ([]*secondary.OverrideEventRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, case_id, override_by, reason, fields_changed, prior_values, created_at FROM override_events WHERE case_id = ? ORDER BY rowid",
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list override events: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.OverrideEventRecord
	for rows.Next() {
		var (
			fields    string
			priors    sql.NullString
			createdAt time.Time
		)

		record := &secondary.OverrideEventRecord{}
		err := rows.Scan(&record.ID, &record.CaseID, &record.OverrideBy, &record.Reason, &fields, &priors, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override event: %w", err)
		}

		if err := json.Unmarshal([]byte(fields), &record.FieldsChanged); err != nil {
			return nil, fmt.Errorf("failed to decode changed fields: %w", err)
		}
		if priors.Valid {
			if err := json.Unmarshal([]byte(priors.String), &record.PriorValues); err != nil {
				return nil, fmt.Errorf("failed to decode prior values: %w", err)
			}
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, nil
}

// Ensure AuditRepository implements the interface
var _ secondary.AuditRepository = (*AuditRepository)(nil)
