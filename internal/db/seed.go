package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedUsers inserts the default actor directory if it is empty. Every
// install needs at least one admin so overrides are possible from day one.
func SeedUsers(database *sql.DB) error {
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	users := []struct{ id, name, role string }{
		{"USR-001", "Default Analyst", "analyst"},
		{"USR-002", "Default Expert", "expert"},
		{"USR-003", "Default Admin", "admin"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)",
			u.id, u.name, u.role, now,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	return nil
}

// SeedFixtures populates the database with development fixtures: the default
// users plus a handful of cases in different lifecycle states.
func SeedFixtures(database *sql.DB) error {
	if err := SeedUsers(database); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	cases := []struct{ id, title, caseType, status, workflowStatus string }{
		{"CASE-001", "Debt enforcement vs Meridian Trading", "enforcement", "pending", "not_initialized"},
		{"CASE-002", "Contract dispute petition", "petition", "ai_analyzing", "active"},
		{"CASE-003", "Closed collection matter", "enforcement", "closed", "completed"},
	}
	for _, c := range cases {
		if _, err := database.Exec(
			"INSERT INTO cases (id, title, case_type, status, workflow_status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			c.id, c.title, c.caseType, c.status, c.workflowStatus, now,
		); err != nil {
			return fmt.Errorf("seed cases: %w", err)
		}
		if _, err := database.Exec(
			"INSERT INTO status_transitions (id, case_id, from_status, to_status, changed_by, kind, created_at) VALUES (?, ?, '', ?, 'USR-003', 'status', ?)",
			uuid.NewString(), c.id, c.status, now,
		); err != nil {
			return fmt.Errorf("seed transitions: %w", err)
		}
	}

	return nil
}
