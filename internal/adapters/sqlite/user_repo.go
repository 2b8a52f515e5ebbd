package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/caseflow/internal/apperr"
	"github.com/example/caseflow/internal/ports/secondary"
)

// UserRepository implements secondary.UserDirectory with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	record := &secondary.UserRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, role FROM users WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &record.Role)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return record, nil
}

// Exists reports whether a user exists.
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// Ensure UserRepository implements the interface
var _ secondary.UserDirectory = (*UserRepository)(nil)
