package testutil

import (
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/google/uuid"
)

// Day parses a YYYY-MM-DD literal and panics on a typo.
func Day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskName(name string) TaskOption {
	return func(t *domain.Task) {
		t.Name = name
	}
}

func NewTestTask(code, section string, opts ...TaskOption) domain.Task {
	t := domain.Task{Code: code, Name: code, SectionCode: section}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// SampleTasks is a small task table covering two sections.
func SampleTasks() []domain.Task {
	return []domain.Task{
		NewTestTask("PASSPORT_RENEWAL", "SEC-IMM", WithTaskName("Passport Renewal")),
		NewTestTask("VISA_APPLICATION", "SEC-IMM", WithTaskName("Visa Application")),
		NewTestTask("ID_CARD", "SEC-REG", WithTaskName("National ID Card")),
		NewTestTask("BIRTH_CERTIFICATE", "SEC-REG", WithTaskName("Birth Certificate")),
	}
}

// Staffing options
type StaffingOption func(*domain.StaffingRecord)

func WithWorkload(v float64, source domain.WorkloadSource) StaffingOption {
	return func(r *domain.StaffingRecord) {
		r.Workload = v
		r.WorkloadSource = source
	}
}

func NewTestStaffing(date, section string, employees float64, opts ...StaffingOption) domain.StaffingRecord {
	r := domain.StaffingRecord{
		Date:            Day(date),
		SectionCode:     section,
		EmployeesOnDuty: employees,
		Workload:        10,
		WorkloadSource:  domain.WorkloadDocuments,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SampleStaffing has two Fridays for SEC-IMM and one Monday for SEC-REG.
func SampleStaffing() []domain.StaffingRecord {
	return []domain.StaffingRecord{
		NewTestStaffing("2025-08-29", "SEC-IMM", 4, WithWorkload(20, domain.WorkloadDocuments)),
		NewTestStaffing("2025-08-22", "SEC-IMM", 6),
		NewTestStaffing("2025-08-25", "SEC-REG", 3, WithWorkload(90, domain.WorkloadTaskTime)),
	}
}

// BatchRun options
type BatchRunOption func(*domain.BatchRun)

func WithBatchKind(k domain.BatchKind) BatchRunOption {
	return func(r *domain.BatchRun) {
		r.Kind = k
	}
}

func WithStartedAt(t time.Time) BatchRunOption {
	return func(r *domain.BatchRun) {
		r.StartedAt = t
		r.FinishedAt = t.Add(time.Second)
	}
}

func WithCounts(rows, errs int) BatchRunOption {
	return func(r *domain.BatchRun) {
		r.RowCount = rows
		r.ErrorCount = errs
	}
}

func NewTestBatchRun(opts ...BatchRunOption) *domain.BatchRun {
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.BatchRun{
		ID:         uuid.New().String(),
		Kind:       domain.BatchCompletion,
		InputPath:  "in.csv",
		OutputPath: "out.csv",
		Mode:       domain.ModeRules,
		RowCount:   1,
		StartedAt:  now,
		FinishedAt: now.Add(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
