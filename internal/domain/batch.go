package domain

import "time"

type BatchRun struct {
	ID         string
	Kind       BatchKind
	InputPath  string
	OutputPath string
	Mode       PredictorMode
	RowCount   int
	ErrorCount int
	StartedAt  time.Time
	FinishedAt time.Time
}

type StaffingForecast struct {
	ID            string
	Date          time.Time
	SectionCode   string
	EmployeeCount int
	Mode          PredictorMode
	GeneratedAt   time.Time
}
