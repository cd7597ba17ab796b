package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/queuecast/internal/db"
	"github.com/alexanderramin/queuecast/internal/domain"
)

type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

// ReplaceAll should run inside a unit of work so readers never see a
// half-loaded table.
func (r *SQLiteTaskRepo) ReplaceAll(ctx context.Context, tasks []domain.Task) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	now := nowUTC()
	for i, t := range tasks {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO tasks (code, name, section_code, load_order, imported_at)
			VALUES (?, ?, ?, ?, ?)`,
			t.Code, t.Name, t.SectionCode, i, now)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.Code, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, name, section_code FROM tasks ORDER BY load_order`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.Code, &t.Name, &t.SectionCode); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteTaskRepo) GetByCode(ctx context.Context, code string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRowContext(ctx,
		`SELECT code, name, section_code FROM tasks WHERE code = ?`, code).
		Scan(&t.Code, &t.Name, &t.SectionCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTaskRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}
