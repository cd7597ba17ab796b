package features

import (
	"fmt"
	"time"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// Calendar holds the fields derived from an appointment date and time.
// Weekday is 0=Monday..6=Sunday.
type Calendar struct {
	Date      time.Time
	Hour      int
	Minute    int
	Weekday   int
	IsWeekend bool
	Month     int
}

// ParseCalendar validates date (YYYY-MM-DD) and clock (HH:MM, 24-hour) under
// their exact layouts and derives the calendar features.
func ParseCalendar(date, clock string) (Calendar, error) {
	day, err := ParseDate(date)
	if err != nil {
		return Calendar{}, err
	}
	t, err := time.Parse(domain.TimeLayout, clock)
	if err != nil {
		return Calendar{}, &FormatError{Field: "time", Value: clock, Layout: "HH:MM"}
	}
	weekday := MondayWeekday(day)
	return Calendar{
		Date:      day,
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Weekday:   weekday,
		IsWeekend: weekday >= 5,
		Month:     int(day.Month()),
	}, nil
}

// ParseDate parses a YYYY-MM-DD calendar day in UTC.
func ParseDate(date string) (time.Time, error) {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return time.Time{}, &FormatError{Field: "date", Value: date, Layout: "YYYY-MM-DD"}
	}
	return day, nil
}

// MondayWeekday maps Go's Sunday-first weekday onto 0=Monday..6=Sunday.
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FormatError reports a date or time string that does not match its layout.
type FormatError struct {
	Field  string
	Value  string
	Layout string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s format %q: use %s", e.Field, e.Value, e.Layout)
}
