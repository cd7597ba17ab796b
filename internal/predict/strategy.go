package predict

import (
	"fmt"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/features"
	"github.com/alexanderramin/queuecast/internal/model"
)

type completionInput struct {
	req  domain.CompletionRequest
	cal  features.Calendar
	res  features.Resolution
	diag Diagnostics
}

type staffingInput struct {
	cal     features.Calendar
	section string
	diag    Diagnostics
}

// completionStrategy produces an unrounded minute estimate for a resolved
// task.
type completionStrategy interface {
	mode() domain.PredictorMode
	complete(e *Engine, in *completionInput) (float64, domain.PredictorMode, error)
}

// staffingStrategy produces an unrounded headcount estimate.
type staffingStrategy interface {
	mode() domain.PredictorMode
	staff(e *Engine, in *staffingInput) (float64, domain.PredictorMode, error)
}

type modelCompletion struct {
	bundle   *model.Bundle
	tasks    *features.Vocabulary
	sections *features.Vocabulary
}

func newModelCompletion(b *model.Bundle) (*modelCompletion, error) {
	if err := checkContract(b, features.CompletionFeatureOrder); err != nil {
		return nil, err
	}
	tasks, err := b.RequireVocabulary(model.VocabTask)
	if err != nil {
		return nil, err
	}
	sections, err := b.RequireVocabulary(model.VocabSection)
	if err != nil {
		return nil, err
	}
	return &modelCompletion{bundle: b, tasks: tasks, sections: sections}, nil
}

func (m *modelCompletion) mode() domain.PredictorMode { return domain.ModeModel }

func (m *modelCompletion) complete(e *Engine, in *completionInput) (float64, domain.PredictorMode, error) {
	taskCode, err := m.tasks.Encode(in.res.TaskCode)
	if err != nil {
		return e.unknownCompletion(in, newError(CodeUnknownCategory, StageEncode, err, "task vocabulary"))
	}
	sectionCode, err := m.sections.Encode(in.res.SectionCode)
	if err != nil {
		return e.unknownCompletion(in, newError(CodeUnknownCategory, StageEncode, err, "section vocabulary"))
	}
	in.diag.TaskEncoded, in.diag.SectionEncoded = &taskCode, &sectionCode

	sc := e.assembler.Staffing(in.cal, in.res.SectionCode)
	in.diag.MissingStaffingContext = !sc.Found
	in.diag.EmployeesOnDuty, in.diag.StaffLoadRatio = sc.EmployeesOnDuty, sc.StaffLoadRatio

	v := e.assembler.Completion(in.cal, taskCode, sectionCode, sc)
	in.diag.Features = v.Map()

	raw, scaled, err := m.bundle.Score(v)
	if err != nil {
		return 0, "", newError(CodePredictionFailed, StageScore, err, "completion model")
	}
	in.diag.Scaled = scaled.Map()
	in.diag.RawOutput = &raw
	return raw, domain.ModeModel, nil
}

type ruleCompletion struct{}

func (ruleCompletion) mode() domain.PredictorMode { return domain.ModeRules }

func (ruleCompletion) complete(e *Engine, in *completionInput) (float64, domain.PredictorMode, error) {
	return e.ruleMinutes(in), domain.ModeRules, nil
}

type modelStaffing struct {
	bundle   *model.Bundle
	sections *features.Vocabulary
}

func newModelStaffing(b *model.Bundle) (*modelStaffing, error) {
	if err := checkContract(b, features.StaffingFeatureOrder); err != nil {
		return nil, err
	}
	sections, err := b.RequireVocabulary(model.VocabSection)
	if err != nil {
		return nil, err
	}
	return &modelStaffing{bundle: b, sections: sections}, nil
}

func (m *modelStaffing) mode() domain.PredictorMode { return domain.ModeModel }

func (m *modelStaffing) staff(e *Engine, in *staffingInput) (float64, domain.PredictorMode, error) {
	code, err := m.sections.Encode(in.section)
	if err != nil {
		cause := newError(CodeUnknownCategory, StageEncode, err, "section vocabulary")
		in.diag.FallbackReason = cause.Error()
		switch e.opts.UnknownPolicy {
		case domain.UnknownReject:
			return 0, "", cause
		case domain.UnknownDefault:
			return float64(e.opts.StaffingFallback), domain.ModeDefault, nil
		default:
			return e.ruleHeadcount(in), domain.ModeRules, nil
		}
	}
	in.diag.SectionEncoded = &code

	v := features.StaffingVector(in.cal, code)
	in.diag.Features = v.Map()

	raw, scaled, err := m.bundle.Score(v)
	if err != nil {
		return 0, "", newError(CodePredictionFailed, StageScore, err, "staffing model")
	}
	in.diag.Scaled = scaled.Map()
	in.diag.RawOutput = &raw
	return raw, domain.ModeModel, nil
}

type ruleStaffing struct{}

func (ruleStaffing) mode() domain.PredictorMode { return domain.ModeRules }

func (ruleStaffing) staff(e *Engine, in *staffingInput) (float64, domain.PredictorMode, error) {
	return e.ruleHeadcount(in), domain.ModeRules, nil
}

func checkContract(b *model.Bundle, want []string) error {
	got := features.Vector{Names: b.Features, Values: make([]float64, len(b.Features))}
	if err := got.CheckOrder(want); err != nil {
		return fmt.Errorf("bundle %s: %w", b.Name, err)
	}
	return nil
}
