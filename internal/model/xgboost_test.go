package model_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/alexanderramin/queuecast/internal/model"
	"github.com/alexanderramin/queuecast/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeEnsemble_SumsLeavesOverBaseScore(t *testing.T) {
	raw := testutil.XGBoostJSON(t, 2, 10,
		testutil.LeafTree(1.5),
		testutil.StumpTree(0, 5, -2, 3, true),
		testutil.StumpTree(1, 0, 100, 200, false),
	)
	e, err := model.LoadTreeEnsemble(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 2, e.NumFeatures())
	assert.Equal(t, 3, e.NumTrees())

	got, err := e.Predict([]float64{4, 1})
	require.NoError(t, err)
	assert.InDelta(t, 10+1.5-2+200, got, 1e-9)

	got, err = e.Predict([]float64{5, -1})
	require.NoError(t, err)
	assert.InDelta(t, 10+1.5+3+100, got, 1e-9, "equal to threshold goes right")
}

func TestTreeEnsemble_MissingValueFollowsDefault(t *testing.T) {
	raw := testutil.XGBoostJSON(t, 2, 0,
		testutil.StumpTree(0, 5, -2, 3, true),
		testutil.StumpTree(1, 0, 100, 200, false),
	)
	e, err := model.LoadTreeEnsemble(bytes.NewReader(raw))
	require.NoError(t, err)

	got, err := e.Predict([]float64{math.NaN(), math.NaN()})
	require.NoError(t, err)
	assert.InDelta(t, -2+200, got, 1e-9)
}

func TestTreeEnsemble_ComparesInFloat32(t *testing.T) {
	// XGBoost stores 0.1 as float32(0.1) = 0.10000000149011612. The float64
	// feature 0.1 is below that, but equal to it once narrowed to float32.
	threshold := float64(float32(0.1))
	raw := testutil.XGBoostJSON(t, 1, 0, testutil.StumpTree(0, threshold, -100, 100, true))
	e, err := model.LoadTreeEnsemble(bytes.NewReader(raw))
	require.NoError(t, err)

	got, err := e.Predict([]float64{0.1})
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	got, err = e.Predict([]float64{0.0999999})
	require.NoError(t, err)
	assert.Equal(t, -100.0, got)
}

func TestTreeEnsemble_AccumulatesInFloat32(t *testing.T) {
	raw := testutil.XGBoostJSON(t, 1, 0.1, testutil.LeafTree(0.2))
	e, err := model.LoadTreeEnsemble(bytes.NewReader(raw))
	require.NoError(t, err)

	base, leaf := float32(0.1), float32(0.2)
	got, err := e.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, float64(base+leaf), got)
}

func TestTreeEnsemble_ShapeMismatch(t *testing.T) {
	raw := testutil.XGBoostJSON(t, 3, 0, testutil.LeafTree(1))
	e, err := model.LoadTreeEnsemble(bytes.NewReader(raw))
	require.NoError(t, err)

	_, err = e.Predict([]float64{1, 2})
	assert.True(t, errors.Is(err, model.ErrShapeMismatch))
}

func TestLoadTreeEnsemble_BooleanDefaultLeftAndPlainBaseScore(t *testing.T) {
	doc := `{"learner":{
		"learner_model_param":{"base_score":"5E-1","num_feature":"1"},
		"gradient_booster":{"name":"gbtree","model":{"trees":[
			{"left_children":[1,-1,-1],"right_children":[2,-1,-1],
			 "split_indices":[0,0,0],"split_conditions":[1.0,4.0,8.0],
			 "default_left":[false,false,false]}]}},
		"objective":{"name":"reg:squarederror"}}}`
	e, err := model.LoadTreeEnsemble(strings.NewReader(doc))
	require.NoError(t, err)

	got, err := e.Predict([]float64{math.NaN()})
	require.NoError(t, err)
	assert.InDelta(t, 8.5, got, 1e-9)
}

func TestLoadTreeEnsemble_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "linear booster",
			doc:  `{"learner":{"learner_model_param":{"base_score":"0","num_feature":"1"},"gradient_booster":{"name":"gblinear"},"objective":{"name":"reg:squarederror"}}}`,
			want: model.ErrUnsupportedModel,
		},
		{
			name: "logistic objective",
			doc:  `{"learner":{"learner_model_param":{"base_score":"0","num_feature":"1"},"gradient_booster":{"name":"gbtree","model":{"trees":[{"left_children":[-1],"right_children":[-1],"split_indices":[0],"split_conditions":[1],"default_left":[0]}]}},"objective":{"name":"binary:logistic"}}}`,
			want: model.ErrUnsupportedModel,
		},
		{
			name: "no trees",
			doc:  `{"learner":{"learner_model_param":{"base_score":"0","num_feature":"1"},"gradient_booster":{"name":"gbtree","model":{"trees":[]}},"objective":{"name":"reg:squarederror"}}}`,
			want: model.ErrUnsupportedModel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.LoadTreeEnsemble(strings.NewReader(tt.doc))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadTreeEnsemble_RejectsBrokenTrees(t *testing.T) {
	badFeature := testutil.StumpTree(4, 1, 0, 0, false)
	_, err := model.LoadTreeEnsemble(bytes.NewReader(testutil.XGBoostJSON(t, 2, 0, badFeature)))
	assert.Error(t, err)

	cyclic := testutil.TreeSpec{
		Left:            []int{0},
		Right:           []int{0},
		SplitIndices:    []int{0},
		SplitConditions: []float64{1},
		DefaultLeft:     []int{0},
	}
	_, err = model.LoadTreeEnsemble(bytes.NewReader(testutil.XGBoostJSON(t, 1, 0, cyclic)))
	assert.Error(t, err)

	_, err = model.LoadTreeEnsemble(strings.NewReader("not json"))
	assert.Error(t, err)
}
