package service

import (
	"context"
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/predict"
)

// ReferenceService owns the task and staffing reference tables.
type ReferenceService interface {
	// Import validates both files and replaces the stored tables in one
	// transaction. Either path may be empty to leave that table untouched.
	Import(ctx context.Context, tasksPath, staffingPath string) (*ImportResult, error)
	// Load returns the reference data an Engine is built from.
	Load(ctx context.Context) (predict.Reference, error)
}

type PredictionService interface {
	PredictCompletion(ctx context.Context, req domain.CompletionRequest) (predict.CompletionResult, error)
	PredictStaffing(ctx context.Context, req domain.StaffingRequest) (predict.StaffingResult, error)
	Status() EngineStatus
	Tasks() []domain.Task
}

type BatchService interface {
	// Run scores every row of inPath and writes row_id plus the prediction
	// to outPath. Rows that fail are written as ERROR and counted.
	Run(ctx context.Context, kind domain.BatchKind, inPath, outPath string) (*domain.BatchRun, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.BatchRun, error)
}

type ForecastService interface {
	// ForecastDay predicts headcount for every known section on date and
	// stores the result, replacing an earlier forecast for the same day.
	ForecastDay(ctx context.Context, date time.Time) ([]domain.StaffingForecast, error)
	Get(ctx context.Context, date time.Time) ([]domain.StaffingForecast, error)
}

type ImportResult struct {
	TaskCount     int
	StaffingCount int
	// StaffingDuplicates counts rows dropped because an earlier row had the
	// same date and section.
	StaffingDuplicates int
}

// EngineStatus summarises how the Engine was built.
type EngineStatus struct {
	Mode          domain.PredictorMode
	StaffingMode  domain.PredictorMode
	UnknownPolicy domain.UnknownPolicy
	TaskCount     int
	StaffingRows  int
	Sections      []string
}
