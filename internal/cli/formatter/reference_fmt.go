package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/service"
)

func FormatTasks(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks loaded. Run `queuecast import --tasks <file>` first.") + "\n"
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.Code, t.Name, t.SectionCode})
	}
	return RenderTable([]string{"TASK", "NAME", "SECTION"}, rows) +
		Dim(fmt.Sprintf("%d tasks", len(tasks))) + "\n"
}

func FormatImportResult(r *service.ImportResult) string {
	pairs := [][2]string{
		{"Tasks", strconv.Itoa(r.TaskCount)},
		{"Staffing rows", strconv.Itoa(r.StaffingCount)},
	}
	if r.StaffingDuplicates > 0 {
		pairs = append(pairs, [2]string{"Duplicates", StyleYellow.Render(fmt.Sprintf("%d dropped (first row per date and section kept)", r.StaffingDuplicates))})
	}
	return RenderBox("Reference data imported", KeyValues(pairs))
}

func FormatBatchRun(run *domain.BatchRun) string {
	failed := strconv.Itoa(run.ErrorCount)
	if run.ErrorCount > 0 {
		failed = StyleRed.Render(failed)
	}
	pairs := [][2]string{
		{"Run", run.ID},
		{"Kind", string(run.Kind)},
		{"Source", ModeBadge(run.Mode)},
		{"Rows", strconv.Itoa(run.RowCount)},
		{"Errors", failed},
		{"Scored", RenderScored(run.RowCount-run.ErrorCount, run.RowCount, 20)},
		{"Output", run.OutputPath},
	}
	return RenderBox("Batch complete", KeyValues(pairs))
}

func FormatBatchRuns(runs []*domain.BatchRun) string {
	if len(runs) == 0 {
		return Dim("No batch runs recorded.") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			TruncID(r.ID),
			Timestamp(r.StartedAt),
			string(r.Kind),
			ModeBadge(r.Mode),
			strconv.Itoa(r.RowCount),
			strconv.Itoa(r.ErrorCount),
			r.InputPath,
		})
	}
	return RenderTable([]string{"ID", "STARTED", "KIND", "SOURCE", "ROWS", "ERRORS", "INPUT"}, rows, 4, 5)
}

func FormatForecasts(date string, forecasts []domain.StaffingForecast) string {
	if len(forecasts) == 0 {
		return Dim("No staffing forecast stored for "+date+".") + "\n"
	}
	rows := make([][]string, 0, len(forecasts))
	total := 0
	for _, f := range forecasts {
		rows = append(rows, []string{f.SectionCode, strconv.Itoa(f.EmployeeCount), ModeBadge(f.Mode), Timestamp(f.GeneratedAt)})
		total += f.EmployeeCount
	}
	return Header("Staffing forecast "+date) + "\n" +
		RenderTable([]string{"SECTION", "EMPLOYEES", "SOURCE", "GENERATED"}, rows, 1) +
		Dim(fmt.Sprintf("%d employees across %d sections", total, len(forecasts))) + "\n"
}

func FormatEngineStatus(st service.EngineStatus) string {
	sections := "--"
	if len(st.Sections) > 0 {
		sections = strings.Join(st.Sections, ", ")
	}
	pairs := [][2]string{
		{"Completion", ModeBadge(st.Mode)},
		{"Staffing", ModeBadge(st.StaffingMode)},
		{"Unknown policy", string(st.UnknownPolicy)},
		{"Tasks", strconv.Itoa(st.TaskCount)},
		{"Staffing rows", strconv.Itoa(st.StaffingRows)},
		{"Sections", sections},
	}
	return RenderBox("Engine", KeyValues(pairs))
}
