package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionService_CompletionEmitsUseCase(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewPredictionService(rulesEngine(t), obs)

	res, err := svc.PredictCompletion(context.Background(), domain.CompletionRequest{
		Date: "2025-08-29", Time: "10:30", TaskID: "PASSPORT_RENEWAL",
	})
	require.NoError(t, err)
	assert.InDelta(t, 72, res.Minutes, 6)
	assert.Equal(t, domain.ModeRules, res.Source)

	ev := obs.last(t)
	assert.Equal(t, "predict-completion", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, res.Minutes, ev.Fields["minutes"])
	assert.Equal(t, "exact", ev.Fields["resolution"])
}

func TestPredictionService_FailureIsObserved(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewPredictionService(rulesEngine(t), obs)

	_, err := svc.PredictCompletion(context.Background(), domain.CompletionRequest{
		Date: "2025-13-40", Time: "10:30", TaskID: "PASSPORT_RENEWAL",
	})
	require.ErrorIs(t, err, predict.ErrInvalidFormat)

	ev := obs.last(t)
	assert.False(t, ev.Success)
	assert.Equal(t, err, ev.Err)
	assert.NotContains(t, ev.Fields, "minutes")
}

func TestPredictionService_Staffing(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewPredictionService(rulesEngine(t), obs)

	// Two Fridays of SEC-IMM history: 4 and 6 employees.
	res, err := svc.PredictStaffing(context.Background(), domain.StaffingRequest{Date: "2025-09-05", SectionID: "sec-imm"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Employees)
	assert.Equal(t, "predict-staffing", obs.last(t).Name)
}

func TestPredictionService_Status(t *testing.T) {
	svc := NewPredictionService(rulesEngine(t))

	st := svc.Status()
	assert.Equal(t, domain.ModeRules, st.Mode)
	assert.Equal(t, domain.ModeRules, st.StaffingMode)
	assert.Equal(t, domain.UnknownRules, st.UnknownPolicy)
	assert.Equal(t, 4, st.TaskCount)
	assert.Equal(t, 3, st.StaffingRows)
	assert.Equal(t, []string{"SEC-IMM", "SEC-REG"}, st.Sections)
	assert.Len(t, svc.Tasks(), 4)
}
