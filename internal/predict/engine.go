package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/features"
	"github.com/alexanderramin/queuecast/internal/model"
)

// Reference is the static reference data an Engine is built from.
type Reference struct {
	Tasks    []domain.Task
	Staffing []domain.StaffingRecord
}

// Artifacts are the trained bundles. Either may be nil, in which case the
// matching prediction kind runs on rules.
type Artifacts struct {
	Completion *model.Bundle
	Staffing   *model.Bundle
}

// Options carries the tunables the Engine is built with.
type Options struct {
	UnknownPolicy     domain.UnknownPolicy
	LastResortMinutes int
	StaffingFallback  int
	StaffingDefaults  features.StaffingDefaults
	Rules             RuleConfig
}

func DefaultOptions() Options {
	return Options{
		UnknownPolicy:     domain.UnknownRules,
		LastResortMinutes: 60,
		StaffingFallback:  3,
		StaffingDefaults:  features.DefaultStaffingDefaults(),
		Rules:             DefaultRuleConfig(),
	}
}

// Engine resolves completion-time and staffing predictions. It is built once
// from reference data and artifacts and is safe for concurrent use; nothing
// in it changes after NewEngine returns.
type Engine struct {
	opts       Options
	catalog    *features.Catalog
	staffing   *features.StaffingTable
	assembler  *features.Assembler
	rules      *RuleEstimator
	completion completionStrategy
	headcount  staffingStrategy
}

// NewEngine validates the artifacts against the feature contracts and picks
// the strategy for each prediction kind.
func NewEngine(ref Reference, art Artifacts, opts Options) (*Engine, error) {
	if !domain.ValidUnknownPolicies[string(opts.UnknownPolicy)] {
		return nil, fmt.Errorf("invalid unknown policy %q", opts.UnknownPolicy)
	}
	if opts.LastResortMinutes < 1 {
		return nil, fmt.Errorf("last-resort minutes must be >= 1, got %d", opts.LastResortMinutes)
	}
	if opts.StaffingFallback < 1 {
		return nil, fmt.Errorf("staffing fallback must be >= 1, got %d", opts.StaffingFallback)
	}

	e := &Engine{
		opts:     opts,
		catalog:  features.NewCatalog(ref.Tasks),
		staffing: features.NewStaffingTable(ref.Staffing),
		rules:    NewRuleEstimator(opts.Rules),
	}
	e.assembler = features.NewAssembler(e.staffing, opts.StaffingDefaults)

	if art.Completion != nil {
		s, err := newModelCompletion(art.Completion)
		if err != nil {
			return nil, err
		}
		e.completion = s
	} else {
		e.completion = ruleCompletion{}
	}

	if art.Staffing != nil {
		s, err := newModelStaffing(art.Staffing)
		if err != nil {
			return nil, err
		}
		e.headcount = s
	} else {
		e.headcount = ruleStaffing{}
	}
	return e, nil
}

// Mode reports the completion strategy the Engine was built with.
func (e *Engine) Mode() domain.PredictorMode { return e.completion.mode() }

// StaffingMode reports the staffing strategy the Engine was built with.
func (e *Engine) StaffingMode() domain.PredictorMode { return e.headcount.mode() }

func (e *Engine) UnknownPolicy() domain.UnknownPolicy { return e.opts.UnknownPolicy }

// Tasks returns the task table in load order.
func (e *Engine) Tasks() []domain.Task { return e.catalog.Tasks() }

func (e *Engine) StaffingRecordCount() int { return e.staffing.Len() }

// Sections lists every section code the Engine knows about, from tasks,
// staffing rows and the staffing vocabulary.
func (e *Engine) Sections() []string {
	seen := make(map[string]bool)
	for _, s := range e.catalog.Sections() {
		seen[s.Code] = true
	}
	for _, code := range e.staffing.SectionCodes() {
		seen[code] = true
	}
	if m, ok := e.headcount.(*modelStaffing); ok {
		for _, code := range m.sections.Classes() {
			seen[code] = true
		}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// CompletionResult is a completion-time prediction.
type CompletionResult struct {
	Minutes     int
	Source      domain.PredictorMode
	Diagnostics Diagnostics
}

// StaffingResult is a headcount prediction.
type StaffingResult struct {
	Employees   int
	Source      domain.PredictorMode
	Diagnostics Diagnostics
}

// Diagnostics records the intermediate values behind a prediction.
type Diagnostics struct {
	Hour                   int                     `json:"hour"`
	Weekday                int                     `json:"weekday"`
	IsWeekend              bool                    `json:"is_weekend"`
	Month                  int                     `json:"month"`
	TaskCode               string                  `json:"task_code,omitempty"`
	SectionCode            string                  `json:"section_code,omitempty"`
	Resolution             domain.ResolutionMethod `json:"resolution,omitempty"`
	TaskEncoded            *int                    `json:"task_encoded,omitempty"`
	SectionEncoded         *int                    `json:"section_encoded,omitempty"`
	MissingStaffingContext bool                    `json:"missing_staffing_context"`
	EmployeesOnDuty        float64                 `json:"employees_on_duty,omitempty"`
	StaffLoadRatio         float64                 `json:"staff_load_ratio,omitempty"`
	Features               map[string]float64      `json:"features,omitempty"`
	Scaled                 map[string]float64      `json:"scaled,omitempty"`
	RawOutput              *float64                `json:"raw_output,omitempty"`
	Rules                  *RuleEstimate           `json:"rules,omitempty"`
	FallbackReason         string                  `json:"fallback_reason,omitempty"`
}

func (d *Diagnostics) setCalendar(cal features.Calendar) {
	d.Hour, d.Weekday, d.IsWeekend, d.Month = cal.Hour, cal.Weekday, cal.IsWeekend, cal.Month
}

// PredictCompletion estimates how many minutes an appointment takes.
func (e *Engine) PredictCompletion(ctx context.Context, req domain.CompletionRequest) (CompletionResult, error) {
	if err := ctx.Err(); err != nil {
		return CompletionResult{}, err
	}
	if err := requireFields(map[string]string{"date": req.Date, "time": req.Time, "task_id": req.TaskID}); err != nil {
		return CompletionResult{}, err
	}
	cal, err := features.ParseCalendar(req.Date, req.Time)
	if err != nil {
		return CompletionResult{}, newError(CodeInvalidFormat, StageValidate, err, "completion request")
	}

	in := completionInput{req: req, cal: cal}
	in.diag.setCalendar(cal)

	res, rerr := e.catalog.Resolve(req.TaskID)
	in.res = res
	in.diag.Resolution = res.Method
	in.diag.TaskCode, in.diag.SectionCode = res.TaskCode, res.SectionCode

	var minutes float64
	var source domain.PredictorMode
	if rerr != nil {
		minutes, source, err = e.unknownCompletion(&in, newError(CodeUnknownTask, StageResolve, rerr, "task lookup"))
	} else {
		minutes, source, err = e.completion.complete(e, &in)
	}
	if err != nil {
		return CompletionResult{}, err
	}
	return CompletionResult{Minutes: clampRound(minutes), Source: source, Diagnostics: in.diag}, nil
}

// unknownCompletion applies the unknown policy. Rule mode always estimates
// by rules since there is no model to defer to.
func (e *Engine) unknownCompletion(in *completionInput, cause *Error) (float64, domain.PredictorMode, error) {
	in.diag.FallbackReason = cause.Error()
	if e.completion.mode() == domain.ModeRules {
		return e.ruleMinutes(in), domain.ModeRules, nil
	}
	switch e.opts.UnknownPolicy {
	case domain.UnknownReject:
		return 0, "", cause
	case domain.UnknownDefault:
		return float64(e.opts.LastResortMinutes), domain.ModeDefault, nil
	default:
		return e.ruleMinutes(in), domain.ModeRules, nil
	}
}

func (e *Engine) ruleMinutes(in *completionInput) float64 {
	candidates := []string{in.res.TaskCode, in.req.TaskID}
	if in.res.TaskCode == "" {
		candidates = candidates[1:]
	}
	est := e.rules.Estimate(in.cal, in.req.Time, in.req.TaskID, candidates...)
	in.diag.Rules = &est
	return est.Total
}

// PredictStaffing estimates how many employees a section needs on a day.
func (e *Engine) PredictStaffing(ctx context.Context, req domain.StaffingRequest) (StaffingResult, error) {
	if err := ctx.Err(); err != nil {
		return StaffingResult{}, err
	}
	if err := requireFields(map[string]string{"date": req.Date, "section_id": req.SectionID}); err != nil {
		return StaffingResult{}, err
	}
	day, err := features.ParseDate(req.Date)
	if err != nil {
		return StaffingResult{}, newError(CodeInvalidFormat, StageValidate, err, "staffing request")
	}
	weekday := features.MondayWeekday(day)
	cal := features.Calendar{Date: day, Weekday: weekday, IsWeekend: weekday >= 5, Month: int(day.Month())}

	in := staffingInput{cal: cal, section: domain.NormalizeSectionCode(req.SectionID)}
	in.diag.setCalendar(cal)
	in.diag.SectionCode = in.section

	employees, source, err := e.headcount.staff(e, &in)
	if err != nil {
		return StaffingResult{}, err
	}
	return StaffingResult{Employees: clampRound(employees), Source: source, Diagnostics: in.diag}, nil
}

// ruleHeadcount averages historical headcount for the section on the same
// weekday, then across all days, then uses the configured fallback.
func (e *Engine) ruleHeadcount(in *staffingInput) float64 {
	if mean, ok := e.staffing.MeanEmployees(in.section, &in.cal.Weekday); ok {
		return mean
	}
	if mean, ok := e.staffing.MeanEmployees(in.section, nil); ok {
		in.diag.FallbackReason = "no history for weekday"
		return mean
	}
	in.diag.FallbackReason = "no history for section"
	return float64(e.opts.StaffingFallback)
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return newError(CodeMissingField, StageValidate, nil, "missing required fields: %s", strings.Join(missing, ", "))
}

// clampRound rounds half to even and enforces the >= 1 floor.
func clampRound(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return 1
	}
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	r := math.RoundToEven(v)
	if r < 1 {
		return 1
	}
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(r)
}

// IsClientError reports whether err stems from the request rather than the
// Engine.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrUnknownTask) || errors.Is(err, ErrUnknownCategory)
}
