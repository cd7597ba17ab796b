package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		code         TEXT PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		section_code TEXT NOT NULL,
		load_order   INTEGER NOT NULL,
		imported_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_section ON tasks(section_code)`,

	`CREATE TABLE IF NOT EXISTS staffing_records (
		date              TEXT NOT NULL,
		section_code      TEXT NOT NULL,
		employees_on_duty REAL NOT NULL CHECK(employees_on_duty >= 0),
		workload          REAL NOT NULL DEFAULT 0,
		workload_source   TEXT NOT NULL
		                  CHECK(workload_source IN ('num_documents','total_task_time_minutes','default')),
		load_order        INTEGER NOT NULL,
		imported_at       TEXT NOT NULL,
		PRIMARY KEY (date, section_code)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_staffing_section ON staffing_records(section_code)`,

	`CREATE TABLE IF NOT EXISTS batch_runs (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL CHECK(kind IN ('completion','staffing')),
		input_path  TEXT NOT NULL,
		output_path TEXT NOT NULL,
		mode        TEXT NOT NULL,
		row_count   INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_batch_runs_started ON batch_runs(started_at)`,

	`CREATE TABLE IF NOT EXISTS staffing_forecasts (
		id             TEXT PRIMARY KEY,
		date           TEXT NOT NULL,
		section_code   TEXT NOT NULL,
		employee_count INTEGER NOT NULL CHECK(employee_count >= 1),
		mode           TEXT NOT NULL,
		generated_at   TEXT NOT NULL,
		UNIQUE (date, section_code)
	)`,
}
