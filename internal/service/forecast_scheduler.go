package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexanderramin/queuecast/internal/config"
)

// ForecastScheduler runs ForecastDay for the following day on a five-field
// cron schedule or descriptor, parsed by config.ScheduleParser.
type ForecastScheduler struct {
	forecasts ForecastService
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

func NewForecastScheduler(forecasts ForecastService, schedule string, logger *slog.Logger) (*ForecastScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ForecastScheduler{
		forecasts: forecasts,
		cron:      cron.New(cron.WithParser(config.ScheduleParser)),
		logger:    logger,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid forecast schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *ForecastScheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("forecast scheduled", "next", e.Next.Format(time.RFC3339))
	}
}

// Stop halts the schedule and waits for a running forecast to finish or ctx
// to expire.
func (s *ForecastScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *ForecastScheduler) runOnce() {
	target := s.now().AddDate(0, 0, 1)
	out, err := s.forecasts.ForecastDay(context.Background(), target)
	if err != nil {
		s.logger.Error("scheduled forecast failed", "date", target.Format("2006-01-02"), "error", err)
		return
	}
	s.logger.Info("scheduled forecast stored", "date", target.Format("2006-01-02"), "sections", len(out))
}
