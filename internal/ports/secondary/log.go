package secondary

import "context"

// LogWriter defines the interface for writing operational audit log
// entries. Implementations extract the actor from context. This log is the
// low-level change feed; the domain-level trail (status transitions and
// override events) lives in AuditRepository.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error
}

// ChangeLogRepository persists low-level change log rows.
type ChangeLogRepository interface {
	// Create appends a change log entry.
	Create(ctx context.Context, entry *ChangeLogRecord) error

	// ListByEntity retrieves entries for an entity, newest first.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*ChangeLogRecord, error)
}

// ChangeLogRecord is one low-level change log row.
type ChangeLogRecord struct {
	ID         string // uuid
	ActorID    string
	EntityType string
	EntityID   string
	Action     string // create, update
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}
