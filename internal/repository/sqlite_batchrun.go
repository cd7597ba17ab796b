package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/queuecast/internal/db"
	"github.com/alexanderramin/queuecast/internal/domain"
)

type SQLiteBatchRunRepo struct {
	db db.DBTX
}

func NewSQLiteBatchRunRepo(conn db.DBTX) *SQLiteBatchRunRepo {
	return &SQLiteBatchRunRepo{db: conn}
}

const batchRunColumns = `id, kind, input_path, output_path, mode, row_count, error_count, started_at, finished_at`

func (r *SQLiteBatchRunRepo) Create(ctx context.Context, run *domain.BatchRun) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO batch_runs (`+batchRunColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Kind),
		run.InputPath,
		run.OutputPath,
		string(run.Mode),
		run.RowCount,
		run.ErrorCount,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting batch run: %w", err)
	}
	return nil
}

func (r *SQLiteBatchRunRepo) GetByID(ctx context.Context, id string) (*domain.BatchRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+batchRunColumns+` FROM batch_runs WHERE id = ?`, id)
	run, err := scanBatchRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch run %s: %w", id, ErrNotFound)
	}
	return run, err
}

func (r *SQLiteBatchRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.BatchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+batchRunColumns+` FROM batch_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing batch runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.BatchRun
	for rows.Next() {
		run, err := scanBatchRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanBatchRun(s scanner) (*domain.BatchRun, error) {
	var (
		run               domain.BatchRun
		kind, mode        string
		started, finished string
	)
	err := s.Scan(&run.ID, &kind, &run.InputPath, &run.OutputPath, &mode,
		&run.RowCount, &run.ErrorCount, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning batch run: %w", err)
	}
	run.Kind = domain.BatchKind(kind)
	run.Mode = domain.PredictorMode(mode)
	if run.StartedAt, err = parseTimestamp(started); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTimestamp(finished); err != nil {
		return nil, err
	}
	return &run, nil
}
