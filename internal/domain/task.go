package domain

import "strings"

// Task is a row of the static task reference table.
type Task struct {
	Code        string
	Name        string
	SectionCode string
}

// NormalizeSectionCode is the canonical form of a section id: trimmed and
// uppercased. Stored rows and requests both go through it.
func NormalizeSectionCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Section is implied by the tasks and staffing rows that reference it.
type Section struct {
	Code      string
	TaskCount int
}
