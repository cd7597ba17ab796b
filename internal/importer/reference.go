package importer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// Column names of the reference tables.
const (
	ColTaskID         = "task_id"
	ColTaskName       = "task_name"
	ColSectionID      = "section_id"
	ColDate           = "date"
	ColTime           = "time"
	ColRowID          = "row_id"
	ColEmployees      = "employees_on_duty"
	ColNumDocuments   = "num_documents"
	ColTotalTaskTime  = "total_task_time_minutes"
	defaultWorkload   = 5
	timestampDateForm = "2006-01-02 15:04:05"
)

// ParseTasks converts a task table. It returns every row error found rather
// than stopping at the first.
func ParseTasks(t *Table) ([]domain.Task, []error) {
	if err := t.Require(ColTaskID, ColSectionID); err != nil {
		return nil, []error{fmt.Errorf("tasks: %w", err)}
	}

	var (
		tasks []domain.Task
		errs  []error
	)
	for i, row := range t.Rows {
		line := i + 2
		task := domain.Task{
			Code:        t.Value(row, ColTaskID),
			Name:        t.Value(row, ColTaskName),
			SectionCode: domain.NormalizeSectionCode(t.Value(row, ColSectionID)),
		}
		if task.Code == "" {
			errs = append(errs, fmt.Errorf("tasks row %d: task_id is required", line))
			continue
		}
		if task.SectionCode == "" {
			errs = append(errs, fmt.Errorf("tasks row %d: section_id is required for task %s", line, task.Code))
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, errs
}

// ParseStaffing converts a staffing table. Workload comes from num_documents
// when the table has that column, otherwise total_task_time_minutes,
// otherwise a constant.
func ParseStaffing(t *Table) ([]domain.StaffingRecord, []error) {
	if err := t.Require(ColDate, ColSectionID, ColEmployees); err != nil {
		return nil, []error{fmt.Errorf("staffing: %w", err)}
	}

	source := domain.WorkloadDefault
	switch {
	case t.Has(ColNumDocuments):
		source = domain.WorkloadDocuments
	case t.Has(ColTotalTaskTime):
		source = domain.WorkloadTaskTime
	}

	var (
		records []domain.StaffingRecord
		errs    []error
	)
	for i, row := range t.Rows {
		line := i + 2
		date, err := parseTableDate(t.Value(row, ColDate))
		if err != nil {
			errs = append(errs, fmt.Errorf("staffing row %d: %w", line, err))
			continue
		}
		section := domain.NormalizeSectionCode(t.Value(row, ColSectionID))
		if section == "" {
			errs = append(errs, fmt.Errorf("staffing row %d: section_id is required", line))
			continue
		}
		employees, err := parseNonNegative(t.Value(row, ColEmployees))
		if err != nil {
			errs = append(errs, fmt.Errorf("staffing row %d: employees_on_duty: %w", line, err))
			continue
		}

		workload := float64(defaultWorkload)
		if source != domain.WorkloadDefault {
			workload, err = parseNonNegative(t.Value(row, string(source)))
			if err != nil {
				errs = append(errs, fmt.Errorf("staffing row %d: %s: %w", line, source, err))
				continue
			}
		}

		records = append(records, domain.StaffingRecord{
			Date:            date,
			SectionCode:     section,
			EmployeesOnDuty: employees,
			Workload:        workload,
			WorkloadSource:  source,
		})
	}
	return records, errs
}

// parseTableDate accepts a plain date or a midnight timestamp, the two shapes
// spreadsheet exports produce.
func parseTableDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if d, err := time.Parse(domain.DateLayout, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(timestampDateForm, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date format %q (expected YYYY-MM-DD)", s)
}

func parseNonNegative(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("value is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("must be >= 0, got %v", v)
	}
	return v, nil
}
