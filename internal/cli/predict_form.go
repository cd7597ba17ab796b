package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/queuecast/internal/cli/formatter"
	"github.com/alexanderramin/queuecast/internal/domain"
)

func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func dateInput(value *string) *huh.Input {
	if *value == "" {
		*value = time.Now().Format(domain.DateLayout)
	}
	return huh.NewInput().
		Title("Date").
		Placeholder("2025-08-29").
		Value(value).
		Validate(validateDate)
}

// completionForm asks for the date, time and task. Known tasks are offered
// in a select; with an empty table the task is typed.
func completionForm(req *domain.CompletionRequest, tasks []domain.Task) *huh.Form {
	taskField := huh.Field(huh.NewInput().Title("Task").Placeholder("PASSPORT_RENEWAL").Value(&req.TaskID).Validate(validateRequired))
	if len(tasks) > 0 {
		opts := make([]huh.Option[string], 0, len(tasks))
		for _, t := range tasks {
			label := t.Code
			if t.Name != "" {
				label = fmt.Sprintf("%s (%s)", t.Name, t.Code)
			}
			opts = append(opts, huh.NewOption(label, t.Code))
		}
		taskField = huh.NewSelect[string]().Title("Task").Options(opts...).Value(&req.TaskID).Height(10)
	}

	return huh.NewForm(
		huh.NewGroup(
			dateInput(&req.Date),
			huh.NewInput().Title("Time").Placeholder("10:30").Value(&req.Time).Validate(validateClock),
			taskField,
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func staffingForm(req *domain.StaffingRequest, sections []string) *huh.Form {
	sectionField := huh.Field(huh.NewInput().Title("Section").Placeholder("SEC-IMM").Value(&req.SectionID).Validate(validateRequired))
	if len(sections) > 0 {
		sectionField = huh.NewSelect[string]().Title("Section").Options(huh.NewOptions(sections...)...).Value(&req.SectionID)
	}
	return huh.NewForm(
		huh.NewGroup(dateInput(&req.Date), sectionField),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD format")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := time.Parse(domain.TimeLayout, s); err != nil {
		return errors.New("use HH:MM format")
	}
	return nil
}
