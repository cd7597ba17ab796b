package model_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/queuecast/internal/features"
	"github.com/alexanderramin/queuecast/internal/model"
	"github.com/alexanderramin/queuecast/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundle(t *testing.T) {
	dir := testutil.CompletionBundle(t, filepath.Join(t.TempDir(), "completion"),
		[]string{"ID_CARD", "PASSPORT_RENEWAL"}, []string{"SEC-IMM", "SEC-REG"}, 42)

	b, err := model.LoadBundle(dir)
	require.NoError(t, err)
	assert.Equal(t, "completion", b.Name)
	assert.Equal(t, features.CompletionFeatureOrder, b.Features)

	v, err := b.RequireVocabulary(model.VocabTask)
	require.NoError(t, err)
	code, err := v.Encode("PASSPORT_RENEWAL")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	_, ok := b.Vocabulary("missing")
	assert.False(t, ok)
	_, err = b.RequireVocabulary("missing")
	assert.Error(t, err)
}

func TestBundle_ScoreScalesOnlyListedFeatures(t *testing.T) {
	dir := testutil.WriteBundle(t, t.TempDir(), testutil.BundleSpec{
		Name:     "probe",
		Features: []string{"a", "b"},
		Scaler:   []testutil.ScaleSpec{{Feature: "a", Mean: 10, Scale: 2}},
		Trees: []testutil.TreeSpec{
			testutil.StumpTree(0, 0, -1, 1, false),
			testutil.StumpTree(1, 3, 10, 20, false),
		},
	})
	b, err := model.LoadBundle(dir)
	require.NoError(t, err)

	v := features.Vector{Names: []string{"a", "b"}, Values: []float64{12, 2}}
	raw, scaled, err := b.Score(v)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, scaled.Values)
	assert.InDelta(t, 1+10, raw, 1e-9)
	assert.Equal(t, []float64{12, 2}, v.Values, "input vector must not be mutated")
}

func TestBundle_ScoreRejectsWrongOrder(t *testing.T) {
	dir := testutil.StaffingBundle(t, t.TempDir(), []string{"SEC-A"}, 3)
	b, err := model.LoadBundle(dir)
	require.NoError(t, err)

	v := features.Vector{Names: []string{"weekday", "month", "section_id_encoded"}, Values: []float64{1, 2, 0}}
	_, _, err = b.Score(v)
	assert.True(t, errors.Is(err, model.ErrShapeMismatch))
}

func TestLoadBundle_Errors(t *testing.T) {
	_, err := model.LoadBundle(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	dir := testutil.WriteBundle(t, t.TempDir(), testutil.BundleSpec{
		Name:     "bad-scaler",
		Features: []string{"a"},
		Scaler:   []testutil.ScaleSpec{{Feature: "zzz", Mean: 0, Scale: 1}},
	})
	_, err = model.LoadBundle(dir)
	assert.Error(t, err)

	dir = testutil.WriteBundle(t, t.TempDir(), testutil.BundleSpec{
		Name:         "dup-vocab",
		Features:     []string{"a"},
		Vocabularies: map[string][]string{"task_id": {"X", "X"}},
	})
	_, err = model.LoadBundle(dir)
	assert.Error(t, err)
}

type fixedRegressor struct{ n int }

func (f fixedRegressor) Predict([]float64) (float64, error) { return 0, nil }
func (f fixedRegressor) NumFeatures() int { return f.n }

func TestNewBundle_FeatureCountMustMatchModel(t *testing.T) {
	_, err := model.NewBundle(model.Manifest{Name: "x", Features: []string{"a", "b"}}, fixedRegressor{n: 3})
	assert.True(t, errors.Is(err, model.ErrShapeMismatch))
}
