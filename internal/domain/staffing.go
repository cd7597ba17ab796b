package domain

import "time"

// StaffingRecord is one (date, section) row of historical staffing.
// Workload is num_documents when the source has it, otherwise
// total_task_time_minutes.
type StaffingRecord struct {
	Date            time.Time
	SectionCode     string
	EmployeesOnDuty float64
	Workload        float64
	WorkloadSource  WorkloadSource
}

// StaffingKey identifies a staffing row. Date is formatted YYYY-MM-DD.
type StaffingKey struct {
	Date        string
	SectionCode string
}

func (r StaffingRecord) Key() StaffingKey {
	return StaffingKey{Date: r.Date.Format(DateLayout), SectionCode: r.SectionCode}
}
