package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/importer"
	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/alexanderramin/queuecast/internal/repository"
)

type batchService struct {
	engine   *predict.Engine
	runs     repository.BatchRunRepo
	observer UseCaseObserver
}

func NewBatchService(engine *predict.Engine, runs repository.BatchRunRepo, observers ...UseCaseObserver) BatchService {
	return &batchService{engine: engine, runs: runs, observer: useCaseObserverOrNoop(observers)}
}

func (s *batchService) Run(ctx context.Context, kind domain.BatchKind, inPath, outPath string) (run *domain.BatchRun, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"kind": string(kind), "in": inPath, "out": outPath}
	defer func() { observe(ctx, s.observer, "batch-"+string(kind), startedAt, fields, err) }()

	table, err := importer.ReadTable(inPath)
	if err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}

	run = &domain.BatchRun{
		ID:         uuid.New().String(),
		Kind:       kind,
		InputPath:  inPath,
		OutputPath: outPath,
		StartedAt:  startedAt,
	}

	var (
		header []string
		rows   [][]string
	)
	switch kind {
	case domain.BatchCompletion:
		run.Mode = s.engine.Mode()
		header = []string{importer.ColRowID, importer.ColCompletionOutput}
		rows, run.ErrorCount, err = s.scoreCompletion(ctx, table)
	case domain.BatchStaffing:
		run.Mode = s.engine.StaffingMode()
		header = []string{importer.ColRowID, importer.ColStaffingOutput}
		rows, run.ErrorCount, err = s.scoreStaffing(ctx, table)
	default:
		return nil, fmt.Errorf("unknown batch kind %q (expected completion or staffing)", kind)
	}
	if err != nil {
		return nil, err
	}
	run.RowCount = len(rows)

	if err := importer.WriteTable(outPath, header, rows); err != nil {
		return nil, fmt.Errorf("writing batch output: %w", err)
	}
	run.FinishedAt = time.Now().UTC()
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("recording batch run: %w", err)
	}

	fields["run_id"] = run.ID
	fields["rows"] = run.RowCount
	fields["errors"] = run.ErrorCount
	return run, nil
}

func (s *batchService) scoreCompletion(ctx context.Context, table *importer.Table) ([][]string, int, error) {
	inputs, err := importer.CompletionRows(table)
	if err != nil {
		return nil, 0, err
	}
	out := make([][]string, 0, len(inputs))
	failed := 0
	for _, in := range inputs {
		res, err := s.engine.PredictCompletion(ctx, in.Request)
		if err != nil {
			if isContextErr(err) {
				return nil, 0, err
			}
			failed++
			out = append(out, []string{in.RowID, importer.ErrorMarker})
			continue
		}
		out = append(out, []string{in.RowID, strconv.Itoa(res.Minutes)})
	}
	return out, failed, nil
}

func (s *batchService) scoreStaffing(ctx context.Context, table *importer.Table) ([][]string, int, error) {
	inputs, err := importer.StaffingRows(table)
	if err != nil {
		return nil, 0, err
	}
	out := make([][]string, 0, len(inputs))
	failed := 0
	for _, in := range inputs {
		res, err := s.engine.PredictStaffing(ctx, in.Request)
		if err != nil {
			if isContextErr(err) {
				return nil, 0, err
			}
			failed++
			out = append(out, []string{in.RowID, importer.ErrorMarker})
			continue
		}
		out = append(out, []string{in.RowID, strconv.Itoa(res.Employees)})
	}
	return out, failed, nil
}

func (s *batchService) ListRuns(ctx context.Context, limit int) ([]*domain.BatchRun, error) {
	return s.runs.ListRecent(ctx, limit)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
