package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"tasks", "staffing_records", "batch_runs", "staffing_forecasts"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	for _, idx := range []string{"idx_tasks_section", "idx_staffing_section", "idx_batch_runs_started"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestOpenDB_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "queuecast.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_StaffingChecks(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO staffing_records
		(date, section_code, employees_on_duty, workload, workload_source, load_order, imported_at)
		VALUES ('2025-08-29', 'SEC-A', -1, 0, 'num_documents', 0, '2025-08-29T00:00:00Z')`)
	assert.Error(t, err, "negative headcount violates CHECK")

	_, err = db.Exec(`INSERT INTO staffing_forecasts (id, date, section_code, employee_count, mode, generated_at)
		VALUES ('f1', '2025-08-29', 'SEC-A', 0, 'rules', '2025-08-29T00:00:00Z')`)
	assert.Error(t, err, "forecast headcount must be >= 1")
}
