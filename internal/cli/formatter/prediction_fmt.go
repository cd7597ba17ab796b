package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/predict"
)

// FormatCompletion renders a completion estimate. Diagnostics are appended
// when debug is set.
func FormatCompletion(req domain.CompletionRequest, res predict.CompletionResult, debug bool) string {
	pairs := [][2]string{
		{"Task", req.TaskID},
		{"When", req.Date + " " + req.Time},
		{"Estimate", Bold(fmt.Sprintf("%d min", res.Minutes)) + Dim(" ("+FormatMinutes(res.Minutes)+")")},
		{"Source", ModeBadge(res.Source)},
	}
	if res.Diagnostics.TaskCode != "" && res.Diagnostics.TaskCode != req.TaskID {
		pairs = append(pairs, [2]string{"Matched", res.Diagnostics.TaskCode + Dim(" via "+string(res.Diagnostics.Resolution))})
	}
	out := RenderBox("Completion estimate", KeyValues(pairs))
	if debug {
		out += "\n" + FormatDiagnostics(res.Diagnostics)
	}
	return out
}

func FormatStaffing(req domain.StaffingRequest, res predict.StaffingResult, debug bool) string {
	pairs := [][2]string{
		{"Section", strings.ToUpper(req.SectionID)},
		{"Date", req.Date},
		{"Headcount", Bold(strconv.Itoa(res.Employees))},
		{"Source", ModeBadge(res.Source)},
	}
	out := RenderBox("Staffing estimate", KeyValues(pairs))
	if debug {
		out += "\n" + FormatDiagnostics(res.Diagnostics)
	}
	return out
}

// FormatDiagnostics lists the intermediate values behind a prediction.
func FormatDiagnostics(d predict.Diagnostics) string {
	var b strings.Builder
	b.WriteString(Header("Diagnostics") + "\n")

	pairs := [][2]string{
		{"hour", strconv.Itoa(d.Hour)},
		{"weekday", strconv.Itoa(d.Weekday)},
		{"weekend", strconv.FormatBool(d.IsWeekend)},
		{"month", strconv.Itoa(d.Month)},
	}
	if d.Resolution != "" {
		pairs = append(pairs, [2]string{"resolution", string(d.Resolution)})
	}
	if d.TaskEncoded != nil {
		pairs = append(pairs, [2]string{"task_encoded", strconv.Itoa(*d.TaskEncoded)})
	}
	if d.SectionEncoded != nil {
		pairs = append(pairs, [2]string{"section_encoded", strconv.Itoa(*d.SectionEncoded)})
	}
	if d.MissingStaffingContext {
		pairs = append(pairs, [2]string{"staffing", StyleYellow.Render("no row for date and section, defaults used")})
	}
	if d.RawOutput != nil {
		pairs = append(pairs, [2]string{"raw_output", strconv.FormatFloat(*d.RawOutput, 'f', 3, 64)})
	}
	if d.FallbackReason != "" {
		pairs = append(pairs, [2]string{"fallback", d.FallbackReason})
	}
	b.WriteString(KeyValues(pairs) + "\n")

	if len(d.Features) > 0 {
		rows := make([][]string, 0, len(d.Features))
		for _, name := range sortedKeys(d.Features) {
			scaled := "--"
			if v, ok := d.Scaled[name]; ok {
				scaled = strconv.FormatFloat(v, 'f', 3, 64)
			}
			rows = append(rows, []string{name, strconv.FormatFloat(d.Features[name], 'f', 3, 64), scaled})
		}
		b.WriteString("\n" + RenderTable([]string{"FEATURE", "VALUE", "SCALED"}, rows, 1, 2))
	}

	if d.Rules != nil {
		key := d.Rules.BaseKey
		if key == "" {
			key = "default"
		}
		rows := [][]string{{"base (" + key + ")", strconv.Itoa(d.Rules.BaseMinutes)}}
		for _, adj := range d.Rules.Adjustments {
			rows = append(rows, []string{adj.Rule, fmt.Sprintf("%+.1f", adj.Minutes)})
		}
		rows = append(rows, []string{Bold("total"), strconv.FormatFloat(d.Rules.Total, 'f', 1, 64)})
		b.WriteString("\n" + RenderTable([]string{"RULE", "MINUTES"}, rows, 1))
	}
	return b.String()
}
