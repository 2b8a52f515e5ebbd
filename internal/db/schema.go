package db

// SchemaSQL is the complete schema for fresh caseflow installs. It reflects
// the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(), which provides two layers of protection:
//
//  1. No hardcoded schemas: tests must use db.GetSchemaSQL() instead of
//     carrying their own CREATE TABLE statements.
//
//  2. Immediate failure on drift: if repository code references a column that
//     doesn't exist in this schema, tests fail immediately with "no such
//     column". This catches drift at development time, not production.
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
//  3. Run the test suite to verify alignment
const SchemaSQL = `
-- Users (actor directory)
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('analyst', 'expert', 'admin')) DEFAULT 'analyst',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Cases (the central record: coarse status plus workflow head state)
CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	case_type TEXT NOT NULL DEFAULT 'enforcement',
	status TEXT NOT NULL DEFAULT 'pending',
	workflow_status TEXT NOT NULL CHECK(workflow_status IN ('not_initialized', 'active', 'completed')) DEFAULT 'not_initialized',
	current_phase INTEGER NOT NULL DEFAULT 0,
	risk_score REAL,
	risk_analysis TEXT,
	petition_draft TEXT,
	ai_summary TEXT,
	expert_summary TEXT,
	assigned_to TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (assigned_to) REFERENCES users(id)
);

-- Phases (seven rows per initialized case)
CREATE TABLE IF NOT EXISTS phases (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	phase_number INTEGER NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'blocked', 'skipped')) DEFAULT 'pending',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	UNIQUE(case_id, phase_number)
);

-- Gates (checklist items attached to a phase)
CREATE TABLE IF NOT EXISTS gates (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	phase_number INTEGER NOT NULL,
	gate_key TEXT NOT NULL,
	label TEXT NOT NULL,
	requirement TEXT NOT NULL CHECK(requirement IN ('required', 'optional', 'conditional')) DEFAULT 'required',
	is_met INTEGER NOT NULL DEFAULT 0,
	manually_overridden INTEGER NOT NULL DEFAULT 0,
	met_by TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	UNIQUE(case_id, gate_key)
);

-- Status transitions (append-only trail for both state machines)
CREATE TABLE IF NOT EXISTS status_transitions (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	from_status TEXT,
	to_status TEXT NOT NULL,
	changed_by TEXT NOT NULL,
	reason TEXT,
	kind TEXT NOT NULL CHECK(kind IN ('status', 'phase_advance', 'phase_skip')) DEFAULT 'status',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE
);

-- Override events (append-only trail of manual field edits)
CREATE TABLE IF NOT EXISTS override_events (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	override_by TEXT NOT NULL,
	reason TEXT NOT NULL,
	fields_changed TEXT NOT NULL,  -- JSON array of field names
	prior_values TEXT,             -- JSON object of field -> previous value
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE
);

-- Change log (generic entity audit, one row per create/update)
CREATE TABLE IF NOT EXISTS change_log (
	id TEXT PRIMARY KEY,
	entity_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update')),
	actor TEXT,
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Create indexes for common queries
CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_cases_case_type ON cases(case_type);
CREATE INDEX IF NOT EXISTS idx_cases_assigned ON cases(assigned_to);
CREATE INDEX IF NOT EXISTS idx_phases_case ON phases(case_id);
CREATE INDEX IF NOT EXISTS idx_gates_case ON gates(case_id);
CREATE INDEX IF NOT EXISTS idx_gates_case_phase ON gates(case_id, phase_number);
CREATE INDEX IF NOT EXISTS idx_transitions_case ON status_transitions(case_id, created_at);
CREATE INDEX IF NOT EXISTS idx_override_events_case ON override_events(case_id, created_at);
CREATE INDEX IF NOT EXISTS idx_change_log_entity ON change_log(entity_id, entity_type);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the modern schema directly and mark all
		// migrations as applied so the runner never replays them.
		if _, err = db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for i := 1; i <= len(migrations); i++ {
			if _, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", i); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
