package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// Batch output columns.
const (
	ColCompletionOutput = "true_processing_time_minutes"
	ColStaffingOutput   = "true_required_employees"
	ErrorMarker         = "ERROR"
)

type CompletionRow struct {
	RowID   string
	Request domain.CompletionRequest
}

type StaffingRow struct {
	RowID   string
	Request domain.StaffingRequest
}

// CompletionRows reads row_id, date, time and task_id. Cell values are passed
// through unvalidated; each row succeeds or fails on its own at prediction.
func CompletionRows(t *Table) ([]CompletionRow, error) {
	if err := t.Require(ColRowID, ColDate, ColTime, ColTaskID); err != nil {
		return nil, fmt.Errorf("completion inputs: %w", err)
	}
	out := make([]CompletionRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, CompletionRow{
			RowID: t.Value(row, ColRowID),
			Request: domain.CompletionRequest{
				Date:   t.Value(row, ColDate),
				Time:   t.Value(row, ColTime),
				TaskID: t.Value(row, ColTaskID),
			},
		})
	}
	return out, nil
}

// StaffingRows reads row_id, date and section_id. Section ids are uppercased.
func StaffingRows(t *Table) ([]StaffingRow, error) {
	if err := t.Require(ColRowID, ColDate, ColSectionID); err != nil {
		return nil, fmt.Errorf("staffing inputs: %w", err)
	}
	out := make([]StaffingRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, StaffingRow{
			RowID: t.Value(row, ColRowID),
			Request: domain.StaffingRequest{
				Date:      t.Value(row, ColDate),
				SectionID: strings.ToUpper(t.Value(row, ColSectionID)),
			},
		})
	}
	return out, nil
}
