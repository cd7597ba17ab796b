package service

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/importer"
	"github.com/alexanderramin/queuecast/internal/repository"
	"github.com/alexanderramin/queuecast/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBatch(t *testing.T) (BatchService, *recordingObserver) {
	t.Helper()
	database := testutil.NewTestDB(t)
	obs := &recordingObserver{}
	return NewBatchService(rulesEngine(t), repository.NewSQLiteBatchRunRepo(database), obs), obs
}

func TestBatchRun_CompletionWritesErrorRows(t *testing.T) {
	svc, obs := setupBatch(t)
	ctx := context.Background()
	dir := t.TempDir()
	in := writeFile(t, dir, "inputs.csv", `row_id,date,time,task_id
r1,2025-08-29,10:30,PASSPORT_RENEWAL
r2,2025-13-40,10:30,PASSPORT_RENEWAL
r3,2025-08-29,09:00,XYZ_UNKNOWN
r4,2025-08-29,,ID_CARD
`)
	out := filepath.Join(dir, "outputs.csv")

	run, err := svc.Run(ctx, domain.BatchCompletion, in, out)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 4, run.RowCount)
	assert.Equal(t, 2, run.ErrorCount)
	assert.Equal(t, domain.ModeRules, run.Mode)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	table, err := importer.ReadTable(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"row_id", "true_processing_time_minutes"}, table.Header)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, "r1", table.Rows[0][0])
	minutes, err := strconv.Atoi(table.Rows[0][1])
	require.NoError(t, err)
	assert.InDelta(t, 72, minutes, 6)
	assert.Equal(t, "ERROR", table.Rows[1][1])
	_, err = strconv.Atoi(table.Rows[2][1])
	assert.NoError(t, err, "unknown task falls back to rules")
	assert.Equal(t, "ERROR", table.Rows[3][1])

	runs, err := svc.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 2, runs[0].ErrorCount)

	ev := obs.last(t)
	assert.Equal(t, "batch-completion", ev.Name)
	assert.Equal(t, 4, ev.Fields["rows"])
}

func TestBatchRun_StaffingXLSX(t *testing.T) {
	svc, _ := setupBatch(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "inputs.xlsx")
	require.NoError(t, importer.WriteTable(in, []string{"row_id", "date", "section_id"}, [][]string{
		{"1", "2025-09-05", "sec-imm"},
		{"2", "2025-09-05", "SEC-REG"},
		{"3", "yesterday", "SEC-IMM"},
	}))
	out := filepath.Join(dir, "outputs.xlsx")

	run, err := svc.Run(context.Background(), domain.BatchStaffing, in, out)
	require.NoError(t, err)
	assert.Equal(t, 3, run.RowCount)
	assert.Equal(t, 1, run.ErrorCount)

	table, err := importer.ReadTable(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"row_id", "true_required_employees"}, table.Header)
	assert.Equal(t, [][]string{{"1", "5"}, {"2", "3"}, {"3", "ERROR"}}, table.Rows)
}

func TestBatchRun_MissingColumnsFailsWholeRun(t *testing.T) {
	svc, _ := setupBatch(t)
	ctx := context.Background()
	dir := t.TempDir()
	in := writeFile(t, dir, "inputs.csv", "row_id,date\n1,2025-08-29\n")

	_, err := svc.Run(ctx, domain.BatchCompletion, in, filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time")

	runs, err := svc.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBatchRun_UnknownKind(t *testing.T) {
	svc, _ := setupBatch(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "inputs.csv", "row_id\n1\n")

	_, err := svc.Run(context.Background(), domain.BatchKind("weekly"), in, filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown batch kind")
}

func TestBatchRun_CancelledContext(t *testing.T) {
	svc, _ := setupBatch(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "inputs.csv", "row_id,date,section_id\n1,2025-09-05,SEC-IMM\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, domain.BatchStaffing, in, filepath.Join(dir, "out.csv"))
	require.ErrorIs(t, err, context.Canceled)
}
