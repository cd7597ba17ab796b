package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// TaskRepo stores the task reference table.
type TaskRepo interface {
	// ReplaceAll swaps the whole table for tasks, preserving their order.
	ReplaceAll(ctx context.Context, tasks []domain.Task) error
	List(ctx context.Context) ([]domain.Task, error)
	GetByCode(ctx context.Context, code string) (*domain.Task, error)
	Count(ctx context.Context) (int, error)
}

// StaffingRepo stores historical staffing rows keyed by (date, section).
type StaffingRepo interface {
	// ReplaceAll swaps the whole table; the first row for a key wins.
	ReplaceAll(ctx context.Context, records []domain.StaffingRecord) error
	List(ctx context.Context) ([]domain.StaffingRecord, error)
	Get(ctx context.Context, date time.Time, sectionCode string) (*domain.StaffingRecord, error)
	Count(ctx context.Context) (int, error)
}

type BatchRunRepo interface {
	Create(ctx context.Context, run *domain.BatchRun) error
	GetByID(ctx context.Context, id string) (*domain.BatchRun, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.BatchRun, error)
}

type ForecastRepo interface {
	// Upsert stores forecasts, replacing any earlier one for the same date
	// and section.
	Upsert(ctx context.Context, forecasts []domain.StaffingForecast) error
	ListByDate(ctx context.Context, date time.Time) ([]domain.StaffingForecast, error)
}
