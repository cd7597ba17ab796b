package formatter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// TreeItem is one line of a rendered tree. Level 0 is a root.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree draws items with box-drawing connectors and right-aligns their
// details in one column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	width := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		title := item.Title
		if item.Level == 0 {
			title = StyleBold.Render(title)
		}
		contents[i] = StyleDim.Render(prefix) + title
		width = max(width, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(contents[i])+2))
			b.WriteString(StyleDim.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTaskTree groups tasks under their sections, both sorted by code.
func FormatTaskTree(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return FormatTasks(tasks)
	}
	bySection := make(map[string][]domain.Task)
	for _, t := range tasks {
		bySection[t.SectionCode] = append(bySection[t.SectionCode], t)
	}

	var items []TreeItem
	for _, section := range sortedKeys(bySection) {
		group := bySection[section]
		sort.Slice(group, func(i, j int) bool { return group[i].Code < group[j].Code })
		items = append(items, TreeItem{Title: section, Detail: pluralTasks(len(group))})
		for i, t := range group {
			items = append(items, TreeItem{Title: t.Code, Level: 1, IsLast: i == len(group)-1, Detail: t.Name})
		}
	}
	return RenderTree(items)
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return strconv.Itoa(n) + " tasks"
}
