package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/queuecast/internal/db"
	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/alexanderramin/queuecast/internal/repository"
)

type forecastService struct {
	engine    *predict.Engine
	forecasts repository.ForecastRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewForecastService(
	engine *predict.Engine,
	forecasts repository.ForecastRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ForecastService {
	return &forecastService{
		engine:    engine,
		forecasts: forecasts,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *forecastService) ForecastDay(ctx context.Context, date time.Time) (out []domain.StaffingForecast, err error) {
	startedAt := time.Now().UTC()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	day := date.Format(domain.DateLayout)
	fields := map[string]any{"date": day}
	defer func() { observe(ctx, s.observer, "forecast-staffing", startedAt, fields, err) }()

	var skipped []string
	for _, section := range s.engine.Sections() {
		res, perr := s.engine.PredictStaffing(ctx, domain.StaffingRequest{Date: day, SectionID: section})
		if perr != nil {
			if isContextErr(perr) {
				return nil, perr
			}
			skipped = append(skipped, section)
			continue
		}
		out = append(out, domain.StaffingForecast{
			ID:            uuid.New().String(),
			Date:          date,
			SectionCode:   section,
			EmployeeCount: res.Employees,
			Mode:          res.Source,
			GeneratedAt:   startedAt,
		})
	}
	fields["sections"] = len(out)
	if len(skipped) > 0 {
		fields["skipped"] = skipped
	}
	if len(out) == 0 {
		return nil, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteForecastRepo(tx).Upsert(ctx, out)
	})
	if err != nil {
		return nil, fmt.Errorf("storing forecast for %s: %w", day, err)
	}
	return out, nil
}

func (s *forecastService) Get(ctx context.Context, date time.Time) ([]domain.StaffingForecast, error) {
	return s.forecasts.ListByDate(ctx, date)
}
