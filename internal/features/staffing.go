package features

import (
	"sort"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// StaffingTable is the read-only (date, section) → staffing lookup.
// Matching is exact; missing days are never interpolated.
type StaffingTable struct {
	rows map[domain.StaffingKey]domain.StaffingRecord
	all  []domain.StaffingRecord
}

// NewStaffingTable indexes records under normalized section codes; the first
// row for a key wins.
func NewStaffingTable(records []domain.StaffingRecord) *StaffingTable {
	t := &StaffingTable{
		rows: make(map[domain.StaffingKey]domain.StaffingRecord, len(records)),
		all:  make([]domain.StaffingRecord, len(records)),
	}
	for i, r := range records {
		r.SectionCode = domain.NormalizeSectionCode(r.SectionCode)
		t.all[i] = r
		k := r.Key()
		if _, ok := t.rows[k]; !ok {
			t.rows[k] = r
		}
	}
	return t
}

func (t *StaffingTable) Lookup(date, section string) (domain.StaffingRecord, bool) {
	if t == nil {
		return domain.StaffingRecord{}, false
	}
	r, ok := t.rows[domain.StaffingKey{Date: date, SectionCode: domain.NormalizeSectionCode(section)}]
	return r, ok
}

func (t *StaffingTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.all)
}

// Records returns a copy of the rows in load order.
func (t *StaffingTable) Records() []domain.StaffingRecord {
	if t == nil {
		return nil
	}
	return append([]domain.StaffingRecord(nil), t.all...)
}

// SectionCodes lists distinct section codes seen in staffing rows, sorted.
func (t *StaffingTable) SectionCodes() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var codes []string
	for _, r := range t.all {
		if !seen[r.SectionCode] {
			seen[r.SectionCode] = true
			codes = append(codes, r.SectionCode)
		}
	}
	sort.Strings(codes)
	return codes
}

// MeanEmployees averages employees_on_duty for a section, optionally limited
// to one weekday (0=Monday). ok is false when no rows match.
func (t *StaffingTable) MeanEmployees(section string, weekday *int) (float64, bool) {
	if t == nil {
		return 0, false
	}
	section = domain.NormalizeSectionCode(section)
	var sum float64
	var n int
	for _, r := range t.all {
		if r.SectionCode != section {
			continue
		}
		if weekday != nil && MondayWeekday(r.Date) != *weekday {
			continue
		}
		sum += r.EmployeesOnDuty
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
