package features

import "github.com/alexanderramin/queuecast/internal/domain"

// StaffingDefaults are substituted when no staffing row matches the request's
// date and section.
type StaffingDefaults struct {
	EmployeesOnDuty float64
	StaffLoadRatio  float64
}

// DefaultStaffingDefaults returns employees_on_duty=5, staff_load_ratio=1.0.
func DefaultStaffingDefaults() StaffingDefaults {
	return StaffingDefaults{EmployeesOnDuty: 5, StaffLoadRatio: 1.0}
}

// StaffingContext is the staffing side of a feature vector plus where it
// came from.
type StaffingContext struct {
	Found           bool
	EmployeesOnDuty float64
	Workload        float64
	WorkloadSource  domain.WorkloadSource
	StaffLoadRatio  float64
}

// Assembler builds completion feature vectors from calendar fields, encoded
// categories and the staffing table.
type Assembler struct {
	staffing *StaffingTable
	defaults StaffingDefaults
}

func NewAssembler(staffing *StaffingTable, defaults StaffingDefaults) *Assembler {
	return &Assembler{staffing: staffing, defaults: defaults}
}

// Staffing looks up the staffing context for a date and section.
// The load ratio divides by employees+1 so an empty roster never divides
// by zero.
func (a *Assembler) Staffing(cal Calendar, sectionCode string) StaffingContext {
	row, ok := a.staffing.Lookup(cal.Date.Format(domain.DateLayout), sectionCode)
	if !ok {
		return StaffingContext{
			EmployeesOnDuty: a.defaults.EmployeesOnDuty,
			StaffLoadRatio:  a.defaults.StaffLoadRatio,
			WorkloadSource:  domain.WorkloadDefault,
		}
	}
	return StaffingContext{
		Found:           true,
		EmployeesOnDuty: row.EmployeesOnDuty,
		Workload:        row.Workload,
		WorkloadSource:  row.WorkloadSource,
		StaffLoadRatio:  row.Workload / (row.EmployeesOnDuty + 1),
	}
}

// Completion emits the completion vector in CompletionFeatureOrder.
func (a *Assembler) Completion(cal Calendar, taskEncoded, sectionEncoded int, sc StaffingContext) Vector {
	return Vector{
		Names: append([]string(nil), CompletionFeatureOrder...),
		Values: []float64{
			float64(cal.Hour),
			float64(cal.Weekday),
			float64(cal.Month),
			float64(taskEncoded),
			float64(sectionEncoded),
			sc.StaffLoadRatio,
			sc.EmployeesOnDuty,
		},
	}
}

// StaffingVector emits the staffing-model vector in StaffingFeatureOrder.
func StaffingVector(cal Calendar, sectionEncoded int) Vector {
	return Vector{
		Names: append([]string(nil), StaffingFeatureOrder...),
		Values: []float64{
			float64(cal.Month),
			float64(cal.Weekday),
			float64(sectionEncoded),
		},
	}
}
