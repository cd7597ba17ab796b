package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// Resolution is the outcome of matching a task identifier against the
// task table.
type Resolution struct {
	Input       string
	TaskCode    string
	SectionCode string
	Method      domain.ResolutionMethod
}

// UnknownTaskError reports a task identifier that matched no task code
// or display name.
type UnknownTaskError struct {
	TaskID string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q", e.TaskID)
}

// Catalog is the read-only task table plus the lookup indexes built from it
// at load time.
type Catalog struct {
	tasks    []domain.Task
	byCode   map[string]domain.Task
	byName   map[string]string
	byNormal map[string]string
}

// NewCatalog indexes tasks. The first row wins when two rows share a code or
// a normalized name, matching a first-match table scan.
func NewCatalog(tasks []domain.Task) *Catalog {
	c := &Catalog{
		tasks:    make([]domain.Task, len(tasks)),
		byCode:   make(map[string]domain.Task, len(tasks)),
		byName:   make(map[string]string, len(tasks)),
		byNormal: make(map[string]string, len(tasks)),
	}
	for i, t := range tasks {
		t.SectionCode = domain.NormalizeSectionCode(t.SectionCode)
		c.tasks[i] = t
		if _, ok := c.byCode[t.Code]; !ok {
			c.byCode[t.Code] = t
		}
		if key := NormalizeKey(t.Name); key != "" && key != "NAN" {
			if _, ok := c.byName[key]; !ok {
				c.byName[key] = t.Code
			}
		}
		if key := NormalizeKey(t.Code); key != "" {
			if _, ok := c.byNormal[key]; !ok {
				c.byNormal[key] = t.Code
			}
		}
	}
	return c
}

// NormalizeKey trims, uppercases and strips spaces and underscores.
func NormalizeKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "").Replace(s)
}

// Resolve maps a human-entered task identifier to its canonical code and
// owning section: exact code first, then normalized display name, then
// normalized code.
func (c *Catalog) Resolve(taskID string) (Resolution, error) {
	res := Resolution{Input: taskID, Method: domain.ResolvedUnknown}

	if t, ok := c.byCode[taskID]; ok {
		res.TaskCode, res.SectionCode, res.Method = t.Code, t.SectionCode, domain.ResolvedExact
		return res, nil
	}

	key := NormalizeKey(taskID)
	if key == "" {
		return res, &UnknownTaskError{TaskID: taskID}
	}
	if code, ok := c.byName[key]; ok {
		t := c.byCode[code]
		res.TaskCode, res.SectionCode, res.Method = t.Code, t.SectionCode, domain.ResolvedName
		return res, nil
	}
	if code, ok := c.byNormal[key]; ok {
		t := c.byCode[code]
		res.TaskCode, res.SectionCode, res.Method = t.Code, t.SectionCode, domain.ResolvedNormalizedCode
		return res, nil
	}
	return res, &UnknownTaskError{TaskID: taskID}
}

func (c *Catalog) Len() int { return len(c.tasks) }

// Tasks returns a copy of the task table in load order.
func (c *Catalog) Tasks() []domain.Task {
	return append([]domain.Task(nil), c.tasks...)
}

// Sections lists the distinct section codes referenced by tasks, sorted.
func (c *Catalog) Sections() []domain.Section {
	counts := make(map[string]int)
	for _, t := range c.tasks {
		if t.SectionCode != "" {
			counts[t.SectionCode]++
		}
	}
	sections := make([]domain.Section, 0, len(counts))
	for code, n := range counts {
		sections = append(sections, domain.Section{Code: code, TaskCount: n})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Code < sections[j].Code })
	return sections
}
