package service

import (
	"context"
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/predict"
)

type predictionService struct {
	engine   *predict.Engine
	observer UseCaseObserver
}

func NewPredictionService(engine *predict.Engine, observers ...UseCaseObserver) PredictionService {
	return &predictionService{engine: engine, observer: useCaseObserverOrNoop(observers)}
}

func (s *predictionService) PredictCompletion(ctx context.Context, req domain.CompletionRequest) (res predict.CompletionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": req.TaskID, "date": req.Date, "time": req.Time}
	defer func() {
		if err == nil {
			fields["minutes"] = res.Minutes
			fields["source"] = string(res.Source)
			fields["resolution"] = string(res.Diagnostics.Resolution)
		}
		observe(ctx, s.observer, "predict-completion", startedAt, fields, err)
	}()
	return s.engine.PredictCompletion(ctx, req)
}

func (s *predictionService) PredictStaffing(ctx context.Context, req domain.StaffingRequest) (res predict.StaffingResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"section_id": req.SectionID, "date": req.Date}
	defer func() {
		if err == nil {
			fields["employees"] = res.Employees
			fields["source"] = string(res.Source)
		}
		observe(ctx, s.observer, "predict-staffing", startedAt, fields, err)
	}()
	return s.engine.PredictStaffing(ctx, req)
}

func (s *predictionService) Status() EngineStatus {
	return EngineStatus{
		Mode:          s.engine.Mode(),
		StaffingMode:  s.engine.StaffingMode(),
		UnknownPolicy: s.engine.UnknownPolicy(),
		TaskCount:     len(s.engine.Tasks()),
		StaffingRows:  s.engine.StaffingRecordCount(),
		Sections:      s.engine.Sections(),
	}
}

func (s *predictionService) Tasks() []domain.Task {
	return s.engine.Tasks()
}
