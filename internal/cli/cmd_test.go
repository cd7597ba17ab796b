package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/queuecast/internal/config"
	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/alexanderramin/queuecast/internal/repository"
	"github.com/alexanderramin/queuecast/internal/service"
	"github.com/alexanderramin/queuecast/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tasksCSV = "task_id,task_name,section_id\n" +
		"PASSPORT_RENEWAL,Passport Renewal,SEC-IMM\n" +
		"VISA_APPLICATION,Visa Application,SEC-IMM\n" +
		"ID_CARD,National ID Card,SEC-REG\n"
	staffingCSV = "date,section_id,employees_on_duty,num_documents\n" +
		"2025-08-29,SEC-IMM,4,20\n" +
		"2025-08-22,SEC-IMM,6,10\n" +
		"2025-08-25,SEC-REG,3,12\n"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
// artifactsDir may be empty for a rules-only engine.
func testApp(t *testing.T, artifactsDir string) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.DefaultConfig()
	cfg.Data.ArtifactsDir = artifactsDir
	if artifactsDir == "" {
		cfg.Data.ArtifactsDir = t.TempDir()
	}

	references := service.NewReferenceService(
		repository.NewSQLiteTaskRepo(database),
		repository.NewSQLiteStaffingRepo(database),
		uow,
		service.ReferenceFiles{},
	)
	batchRuns := repository.NewSQLiteBatchRunRepo(database)
	forecasts := repository.NewSQLiteForecastRepo(database)

	return &App{
		Config:     cfg,
		Logger:     logger,
		References: references,
		OpenServices: func(ctx context.Context) (*Services, error) {
			engine, err := service.BuildEngine(ctx, cfg, references, logger)
			if err != nil {
				return nil, err
			}
			return &Services{
				Predictions: service.NewPredictionService(engine),
				Batches:     service.NewBatchService(engine, batchRuns),
				Forecasts:   service.NewForecastService(engine, forecasts, uow),
			}, nil
		},
		IsInteractive: func() bool { return false },
	}
}

// importedApp is a testApp whose reference tables are already loaded.
func importedApp(t *testing.T, artifactsDir string) *App {
	t.Helper()
	app := testApp(t, artifactsDir)
	dir := t.TempDir()
	_, err := executeCmd(t, app, "import",
		"--tasks", writeTestFile(t, dir, "tasks.csv", tasksCSV),
		"--staffing", writeTestFile(t, dir, "staffing.csv", staffingCSV),
	)
	require.NoError(t, err)
	return app
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// --- import ---

func TestImportCmd_ReportsCounts(t *testing.T) {
	app := testApp(t, "")
	dir := t.TempDir()

	out, err := executeCmd(t, app, "import",
		"--tasks", writeTestFile(t, dir, "tasks.csv", tasksCSV),
		"--staffing", writeTestFile(t, dir, "staffing.csv", staffingCSV),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "REFERENCE DATA IMPORTED")
	assert.Contains(t, out, "Staffing rows")
}

func TestImportCmd_RequiresAFile(t *testing.T) {
	app := testApp(t, "")

	_, err := executeCmd(t, app, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--tasks")
}

func TestImportCmd_InvalidRowsRejected(t *testing.T) {
	app := testApp(t, "")
	dir := t.TempDir()

	_, err := executeCmd(t, app, "import",
		"--tasks", writeTestFile(t, dir, "tasks.csv", "task_id,task_name\nA,Alpha\n"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed")
}

// --- tasks / status ---

func TestTasksCmd_ListsImportedTasks(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "PASSPORT_RENEWAL")
	assert.Contains(t, out, "SEC-REG")
	assert.Contains(t, out, "3 tasks")
}

func TestTasksCmd_Tree(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "tasks", "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "SEC-IMM")
	assert.Contains(t, out, "2 tasks")
	assert.Contains(t, out, "└─ ")
}

func TestStatusCmd_RulesWithoutArtifacts(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ENGINE")
	assert.Contains(t, out, "rules")
	assert.Contains(t, out, "SEC-IMM")
}

// --- predict ---

func TestPredictCompletionCmd_Rules(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "predict", "completion",
		"--date", "2025-08-29", "--time", "10:30", "--task", "PASSPORT_RENEWAL")
	require.NoError(t, err)
	assert.Contains(t, out, "COMPLETION ESTIMATE")
	assert.Contains(t, out, "min")
	assert.Contains(t, out, "rules")
	assert.NotContains(t, out, "DIAGNOSTICS")
}

func TestPredictCompletionCmd_DebugShowsRules(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "predict", "completion",
		"--date", "2025-08-29", "--time", "10:30", "--task", "PASSPORT_RENEWAL", "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "DIAGNOSTICS")
	assert.Contains(t, out, "RULE")
}

func TestPredictCompletionCmd_MissingTask(t *testing.T) {
	app := importedApp(t, "")

	_, err := executeCmd(t, app, "predict", "completion", "--date", "2025-08-29", "--time", "10:30")
	require.Error(t, err)
	var pe *predict.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, predict.CodeMissingField, pe.Code)
}

func TestPredictCompletionCmd_ModelArtifacts(t *testing.T) {
	dir := t.TempDir()
	testutil.CompletionBundle(t, filepath.Join(dir, service.CompletionBundleDir),
		[]string{"ID_CARD", "PASSPORT_RENEWAL", "VISA_APPLICATION"}, []string{"SEC-IMM", "SEC-REG"}, 33)
	app := importedApp(t, dir)

	out, err := executeCmd(t, app, "predict", "completion",
		"--date", "2025-08-29", "--time", "10:30", "--task", "ID_CARD")
	require.NoError(t, err)
	assert.Contains(t, out, "33 min")
	assert.Contains(t, out, "model")
}

func TestPredictStaffingCmd(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "predict", "staffing", "--date", "2025-09-05", "--section", "sec-imm")
	require.NoError(t, err)
	assert.Contains(t, out, "STAFFING ESTIMATE")
	assert.Contains(t, out, "SEC-IMM")
}

func TestPredictCmd_InteractiveNeedsTerminal(t *testing.T) {
	app := importedApp(t, "")

	_, err := executeCmd(t, app, "predict", "completion", "-i")
	require.ErrorIs(t, err, errNotInteractive)

	_, err = executeCmd(t, app, "predict", "staffing", "--interactive")
	require.ErrorIs(t, err, errNotInteractive)
}

// --- batch / runs ---

func TestBatchCmd_CompletionWritesOutput(t *testing.T) {
	app := importedApp(t, "")
	dir := t.TempDir()
	in := writeTestFile(t, dir, "in.csv", "row_id,date,time,task_id\n"+
		"r1,2025-08-29,10:30,PASSPORT_RENEWAL\n"+
		"r2,29/08/2025,10:30,ID_CARD\n")
	outPath := filepath.Join(dir, "out.csv")

	out, err := executeCmd(t, app, "batch", "completion", "--in", in, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "BATCH COMPLETE")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "row_id,true_processing_time_minutes")
	assert.Contains(t, string(written), "r2,ERROR")

	out, err = executeCmd(t, app, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "completion")
	assert.Contains(t, out, "in.csv")
}

func TestBatchCmd_UnknownKind(t *testing.T) {
	app := importedApp(t, "")

	_, err := executeCmd(t, app, "batch", "payroll", "--in", "a.csv", "--out", "b.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown batch kind")
}

func TestBatchCmd_RequiresPaths(t *testing.T) {
	app := importedApp(t, "")

	_, err := executeCmd(t, app, "batch", "staffing")
	require.Error(t, err)
}

func TestRunsCmd_RejectsNonPositiveLimit(t *testing.T) {
	app := importedApp(t, "")

	_, err := executeCmd(t, app, "runs", "--limit", "0")
	require.Error(t, err)
}

// --- forecast ---

func TestForecastCmd_RunThenShow(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "forecast", "run", "--date", "2025-09-05")
	require.NoError(t, err)
	assert.Contains(t, out, "STAFFING FORECAST 2025-09-05")
	assert.Contains(t, out, "SEC-IMM")
	assert.Contains(t, out, "SEC-REG")

	out, err = executeCmd(t, app, "forecast", "show", "--date", "2025-09-05")
	require.NoError(t, err)
	assert.Contains(t, out, "SEC-IMM")
}

func TestForecastCmd_ShowEmptyDay(t *testing.T) {
	app := importedApp(t, "")

	out, err := executeCmd(t, app, "forecast", "show", "--date", "2030-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "No staffing forecast stored for 2030-01-01")
}

func TestForecastCmd_InvalidDate(t *testing.T) {
	app := importedApp(t, "")

	_, err := executeCmd(t, app, "forecast", "run", "--date", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

// --- services ---

func TestApp_ServicesOpenedOnce(t *testing.T) {
	calls := 0
	app := &App{OpenServices: func(context.Context) (*Services, error) {
		calls++
		return &Services{}, nil
	}}

	_, err := app.Services(context.Background())
	require.NoError(t, err)
	_, err = app.Services(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestApp_ServicesNotConfigured(t *testing.T) {
	app := &App{}

	_, err := executeCmd(t, app, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
