package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TreeSpec is one tree in XGBoost's JSON node-array layout.
type TreeSpec struct {
	Left            []int     `json:"left_children"`
	Right           []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     []int     `json:"default_left"`
}

// LeafTree is a single-node tree that always contributes value.
func LeafTree(value float64) TreeSpec {
	return TreeSpec{
		Left:            []int{-1},
		Right:           []int{-1},
		SplitIndices:    []int{0},
		SplitConditions: []float64{value},
		DefaultLeft:     []int{0},
	}
}

// StumpTree splits once on feature: values below threshold take left.
// Missing values go left when defaultLeft is set.
func StumpTree(feature int, threshold, left, right float64, defaultLeft bool) TreeSpec {
	dl := 0
	if defaultLeft {
		dl = 1
	}
	return TreeSpec{
		Left:            []int{1, -1, -1},
		Right:           []int{2, -1, -1},
		SplitIndices:    []int{feature, 0, 0},
		SplitConditions: []float64{threshold, left, right},
		DefaultLeft:     []int{dl, 0, 0},
	}
}

// XGBoostJSON renders a regression model the way Booster.save_model writes it.
func XGBoostJSON(t testing.TB, numFeatures int, baseScore float64, trees ...TreeSpec) []byte {
	t.Helper()
	doc := map[string]any{
		"learner": map[string]any{
			"learner_model_param": map[string]any{
				"base_score":  "[" + strconv.FormatFloat(baseScore, 'E', -1, 64) + "]",
				"num_feature": strconv.Itoa(numFeatures),
			},
			"gradient_booster": map[string]any{
				"name":  "gbtree",
				"model": map[string]any{"trees": trees},
			},
			"objective": map[string]any{"name": "reg:squarederror"},
		},
		"version": []int{2, 0, 3},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

// BundleSpec describes an artifact bundle to write for a test.
type BundleSpec struct {
	Name         string
	Features     []string
	Scaler       []ScaleSpec
	Vocabularies map[string][]string
	BaseScore    float64
	Trees        []TreeSpec
}

type ScaleSpec struct {
	Feature string  `yaml:"feature"`
	Mean    float64 `yaml:"mean"`
	Scale   float64 `yaml:"scale"`
}

// WriteBundle writes bundle.yaml and model.json under dir and returns dir.
func WriteBundle(t testing.TB, dir string, spec BundleSpec) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	trees := spec.Trees
	if len(trees) == 0 {
		trees = []TreeSpec{LeafTree(0)}
	}
	model := XGBoostJSON(t, len(spec.Features), spec.BaseScore, trees...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), model, 0o644))

	manifest := map[string]any{
		"name":         spec.Name,
		"model":        "model.json",
		"features":     spec.Features,
		"scaler":       spec.Scaler,
		"vocabularies": spec.Vocabularies,
	}
	raw, err := yaml.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bundle.yaml"), raw, 0o644))
	return dir
}

// CompletionBundle is a completion bundle whose model predicts a constant.
func CompletionBundle(t testing.TB, dir string, tasks, sections []string, constant float64) string {
	t.Helper()
	return WriteBundle(t, dir, BundleSpec{
		Name: "completion",
		Features: []string{
			"appointment_hour", "appointment_weekday", "month",
			"task_id_encoded", "section_id_encoded",
			"staff_load_ratio", "employees_on_duty",
		},
		Scaler: []ScaleSpec{
			{Feature: "appointment_hour", Mean: 12, Scale: 3},
			{Feature: "appointment_weekday", Mean: 3, Scale: 2},
			{Feature: "month", Mean: 6.5, Scale: 3.5},
			{Feature: "staff_load_ratio", Mean: 1, Scale: 1},
			{Feature: "employees_on_duty", Mean: 5, Scale: 2},
		},
		Vocabularies: map[string][]string{"task_id": tasks, "section_id": sections},
		BaseScore:    constant,
	})
}

// StaffingBundle is a staffing bundle whose model predicts a constant.
func StaffingBundle(t testing.TB, dir string, sections []string, constant float64) string {
	t.Helper()
	return WriteBundle(t, dir, BundleSpec{
		Name:         "staffing",
		Features:     []string{"month", "weekday", "section_id_encoded"},
		Scaler:       []ScaleSpec{{Feature: "month", Mean: 6.5, Scale: 3.5}, {Feature: "weekday", Mean: 3, Scale: 2}},
		Vocabularies: map[string][]string{"section_id": sections},
		BaseScore:    constant,
	})
}
