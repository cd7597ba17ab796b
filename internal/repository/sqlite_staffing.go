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

type SQLiteStaffingRepo struct {
	db db.DBTX
}

func NewSQLiteStaffingRepo(conn db.DBTX) *SQLiteStaffingRepo {
	return &SQLiteStaffingRepo{db: conn}
}

const staffingColumns = `date, section_code, employees_on_duty, workload, workload_source`

func (r *SQLiteStaffingRepo) ReplaceAll(ctx context.Context, records []domain.StaffingRecord) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM staffing_records`); err != nil {
		return fmt.Errorf("clearing staffing records: %w", err)
	}
	now := nowUTC()
	for i, rec := range records {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO staffing_records (`+staffingColumns+`, load_order, imported_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			formatDate(rec.Date), rec.SectionCode, rec.EmployeesOnDuty, rec.Workload,
			string(rec.WorkloadSource), i, now)
		if err != nil {
			return fmt.Errorf("inserting staffing record %s/%s: %w", formatDate(rec.Date), rec.SectionCode, err)
		}
	}
	return nil
}

func (r *SQLiteStaffingRepo) List(ctx context.Context) ([]domain.StaffingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+staffingColumns+` FROM staffing_records ORDER BY load_order`)
	if err != nil {
		return nil, fmt.Errorf("listing staffing records: %w", err)
	}
	defer rows.Close()

	var out []domain.StaffingRecord
	for rows.Next() {
		rec, err := scanStaffing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *SQLiteStaffingRepo) Get(ctx context.Context, date time.Time, sectionCode string) (*domain.StaffingRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+staffingColumns+` FROM staffing_records WHERE date = ? AND section_code = ?`,
		formatDate(date), sectionCode)
	rec, err := scanStaffing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("staffing record %s/%s: %w", formatDate(date), sectionCode, ErrNotFound)
	}
	return rec, err
}

func (r *SQLiteStaffingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staffing_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting staffing records: %w", err)
	}
	return n, nil
}

func scanStaffing(s scanner) (*domain.StaffingRecord, error) {
	var (
		rec    domain.StaffingRecord
		date   string
		source string
	)
	if err := s.Scan(&date, &rec.SectionCode, &rec.EmployeesOnDuty, &rec.Workload, &source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning staffing record: %w", err)
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	rec.Date = d
	rec.WorkloadSource = domain.WorkloadSource(source)
	return &rec, nil
}
