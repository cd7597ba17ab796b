package features

import (
	"fmt"
	"strings"
)

// Feature names, in the order the completion model was trained with.
const (
	FeatureHour            = "appointment_hour"
	FeatureWeekday         = "appointment_weekday"
	FeatureMonth           = "month"
	FeatureTaskEncoded     = "task_id_encoded"
	FeatureSectionEncoded  = "section_id_encoded"
	FeatureStaffLoadRatio  = "staff_load_ratio"
	FeatureEmployeesOnDuty = "employees_on_duty"

	// Staffing model features.
	FeatureStaffingWeekday = "weekday"
)

// CompletionFeatureOrder is the column contract of the completion model.
var CompletionFeatureOrder = []string{
	FeatureHour,
	FeatureWeekday,
	FeatureMonth,
	FeatureTaskEncoded,
	FeatureSectionEncoded,
	FeatureStaffLoadRatio,
	FeatureEmployeesOnDuty,
}

// StaffingFeatureOrder is the column contract of the staffing model.
var StaffingFeatureOrder = []string{
	FeatureMonth,
	FeatureStaffingWeekday,
	FeatureSectionEncoded,
}

// Vector is an ordered, named numeric feature tuple.
type Vector struct {
	Names  []string
	Values []float64
}

func (v Vector) Len() int { return len(v.Values) }

// Get returns the value of a named feature.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Clone returns a deep copy so scaling never mutates the caller's vector.
func (v Vector) Clone() Vector {
	return Vector{
		Names:  append([]string(nil), v.Names...),
		Values: append([]float64(nil), v.Values...),
	}
}

// Map returns the vector as name → value, for diagnostics.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		m[n] = v.Values[i]
	}
	return m
}

// CheckOrder verifies the vector's columns match want exactly.
func (v Vector) CheckOrder(want []string) error {
	if len(v.Names) != len(want) || len(v.Values) != len(want) {
		return fmt.Errorf("feature shape mismatch: got %d columns, want %d", len(v.Values), len(want))
	}
	for i := range want {
		if v.Names[i] != want[i] {
			return fmt.Errorf("feature order mismatch at %d: got %s, want %s (%s)",
				i, v.Names[i], want[i], strings.Join(want, ","))
		}
	}
	return nil
}
