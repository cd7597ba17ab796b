package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatTasks(t *testing.T) {
	assert.Contains(t, FormatTasks(nil), "No tasks loaded")

	out := FormatTasks([]domain.Task{{Code: "ID_CARD", Name: "National ID Card", SectionCode: "SEC-REG"}})
	assert.Contains(t, out, "ID_CARD")
	assert.Contains(t, out, "National ID Card")
	assert.Contains(t, out, "1 tasks")
}

func TestFormatImportResult_ReportsDuplicates(t *testing.T) {
	out := FormatImportResult(&service.ImportResult{TaskCount: 2, StaffingCount: 5, StaffingDuplicates: 1})
	assert.Contains(t, out, "1 dropped")

	out = FormatImportResult(&service.ImportResult{TaskCount: 2})
	assert.NotContains(t, out, "dropped")
}

func TestFormatBatchRuns(t *testing.T) {
	assert.Contains(t, FormatBatchRuns(nil), "No batch runs")

	runs := []*domain.BatchRun{{
		ID: "a1b2c3d4-0000", Kind: domain.BatchStaffing, Mode: domain.ModeRules,
		RowCount: 10, ErrorCount: 2, InputPath: "inputs.csv",
		StartedAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
	}}
	out := FormatBatchRuns(runs)
	assert.Contains(t, out, "a1b2c3d4")
	assert.NotContains(t, out, "a1b2c3d4-0000")
	assert.Contains(t, out, "staffing")
	assert.Contains(t, out, "inputs.csv")

	single := FormatBatchRun(runs[0])
	assert.Contains(t, single, "a1b2c3d4-0000")
	assert.Contains(t, single, "BATCH COMPLETE")
	assert.Contains(t, single, "80% (8/10)")
}

func TestFormatForecasts(t *testing.T) {
	assert.Contains(t, FormatForecasts("2025-09-05", nil), "No staffing forecast stored for 2025-09-05")

	out := FormatForecasts("2025-09-05", []domain.StaffingForecast{
		{SectionCode: "SEC-IMM", EmployeeCount: 5, Mode: domain.ModeRules},
		{SectionCode: "SEC-REG", EmployeeCount: 3, Mode: domain.ModeRules},
	})
	assert.Contains(t, out, "STAFFING FORECAST 2025-09-05")
	assert.Contains(t, out, "8 employees across 2 sections")
}
