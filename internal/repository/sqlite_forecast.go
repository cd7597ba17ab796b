package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/queuecast/internal/db"
	"github.com/alexanderramin/queuecast/internal/domain"
)

type SQLiteForecastRepo struct {
	db db.DBTX
}

func NewSQLiteForecastRepo(conn db.DBTX) *SQLiteForecastRepo {
	return &SQLiteForecastRepo{db: conn}
}

func (r *SQLiteForecastRepo) Upsert(ctx context.Context, forecasts []domain.StaffingForecast) error {
	for _, f := range forecasts {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO staffing_forecasts (id, date, section_code, employee_count, mode, generated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (date, section_code) DO UPDATE SET
				id = excluded.id,
				employee_count = excluded.employee_count,
				mode = excluded.mode,
				generated_at = excluded.generated_at`,
			f.ID, formatDate(f.Date), f.SectionCode, f.EmployeeCount, string(f.Mode),
			f.GeneratedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("upserting forecast %s/%s: %w", formatDate(f.Date), f.SectionCode, err)
		}
	}
	return nil
}

func (r *SQLiteForecastRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.StaffingForecast, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, section_code, employee_count, mode, generated_at
		FROM staffing_forecasts WHERE date = ? ORDER BY section_code`, formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("listing forecasts: %w", err)
	}
	defer rows.Close()

	var out []domain.StaffingForecast
	for rows.Next() {
		var (
			f              domain.StaffingForecast
			day, mode, gen string
		)
		if err := rows.Scan(&f.ID, &day, &f.SectionCode, &f.EmployeeCount, &mode, &gen); err != nil {
			return nil, fmt.Errorf("scanning forecast: %w", err)
		}
		if f.Date, err = parseDate(day); err != nil {
			return nil, err
		}
		if f.GeneratedAt, err = parseTimestamp(gen); err != nil {
			return nil, err
		}
		f.Mode = domain.PredictorMode(mode)
		out = append(out, f)
	}
	return out, rows.Err()
}
