package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/caseflow/internal/ports/secondary"
)

// ChangeLogRepository implements secondary.ChangeLogRepository with SQLite.
type ChangeLogRepository struct {
	db *sql.DB
}

// NewChangeLogRepository creates a new SQLite change log repository.
func NewChangeLogRepository(db *sql.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// Create appends a change log entry.
func (r *ChangeLogRepository) Create(ctx context.Context, entry *secondary.ChangeLogRecord) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	var actor sql.NullString
	if entry.ActorID != "" {
		actor = sql.NullString{String: entry.ActorID, Valid: true}
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO change_log (id, entity_id, entity_type, action, actor, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, entry.EntityID, entry.EntityType, entry.Action, actor, entry.FieldName, entry.OldValue, entry.NewValue,
	)
	if err != nil {
		return fmt.Errorf("failed to create change log entry: %w", err)
	}

	return nil
}

// ListByEntity retrieves entries for an entity, newest first.
func (r *ChangeLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*secondary.ChangeLogRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, entity_id, entity_type, action, actor, field_name, old_value, new_value, created_at FROM change_log WHERE entity_type = ? AND entity_id = ? ORDER BY created_at DESC",
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list change log: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ChangeLogRecord
	for rows.Next() {
		var (
			actor     sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			createdAt time.Time
		)

		record := &secondary.ChangeLogRecord{}
		err := rows.Scan(&record.ID, &record.EntityID, &record.EntityType, &record.Action, &actor, &fieldName, &oldValue, &newValue, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log entry: %w", err)
		}

		record.ActorID = actor.String
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, nil
}

// Ensure ChangeLogRepository implements the interface
var _ secondary.ChangeLogRepository = (*ChangeLogRepository)(nil)
