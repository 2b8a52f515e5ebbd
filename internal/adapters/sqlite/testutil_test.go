// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/caseflow/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each connection to ":memory:" gets its own database; pin the pool
	// to one so transactions and later statements share it.
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedCase inserts a test case and returns its ID.
func seedCase(t *testing.T, db *sql.DB, id, title string) string {
	t.Helper()
	if id == "" {
		id = "CASE-001"
	}
	if title == "" {
		title = "Test Case"
	}
	_, err := db.Exec(
		"INSERT INTO cases (id, title, case_type, status, workflow_status, current_phase) VALUES (?, ?, 'enforcement', 'pending', 'not_initialized', 0)",
		id, title,
	)
	if err != nil {
		t.Fatalf("failed to seed case: %v", err)
	}
	return id
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, db *sql.DB, id, role string) string {
	t.Helper()
	if id == "" {
		id = "USR-001"
	}
	if role == "" {
		role = "analyst"
	}
	_, err := db.Exec("INSERT INTO users (id, name, role) VALUES (?, ?, ?)", id, "Test User", role)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedPhase inserts a single phase row.
func seedPhase(t *testing.T, db *sql.DB, caseID string, number int, status string) {
	t.Helper()
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(
		"INSERT INTO phases (id, case_id, phase_number, name, status) VALUES (?, ?, ?, ?, ?)",
		caseID+"-phase-"+string(rune('0'+number)), caseID, number, "phase", status,
	)
	if err != nil {
		t.Fatalf("failed to seed phase: %v", err)
	}
}

// seedGate inserts a single gate row and returns the gate key.
func seedGate(t *testing.T, db *sql.DB, caseID string, phase int, key, requirement string) string {
	t.Helper()
	if requirement == "" {
		requirement = "required"
	}
	_, err := db.Exec(
		"INSERT INTO gates (id, case_id, phase_number, gate_key, label, requirement) VALUES (?, ?, ?, ?, ?, ?)",
		caseID+"-"+key, caseID, phase, key, "Test gate", requirement,
	)
	if err != nil {
		t.Fatalf("failed to seed gate: %v", err)
	}
	return key
}
