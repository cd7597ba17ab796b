package model

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// TreeEnsemble scores a gradient-boosted tree ensemble saved with XGBoost's
// JSON model format (Booster.save_model("model.json")). Features, thresholds
// and the margin are float32, as in XGBoost itself.
type TreeEnsemble struct {
	trees       []tree
	baseScore   float32
	numFeatures int
	objective   string
}

type tree struct {
	left        []int
	right       []int
	splitIndex  []int
	splitCond   []float32
	defaultLeft []bool
}

// identityObjectives produce a raw margin that is already the prediction.
var identityObjectives = map[string]bool{
	"reg:squarederror":     true,
	"reg:linear":           true,
	"reg:absoluteerror":    true,
	"reg:pseudohubererror": true,
	"reg:quantileerror":    true,
}

type xgbDocument struct {
	Learner struct {
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     []flag    `json:"default_left"`
}

// flag accepts both the 0/1 integers newer XGBoost writes and JSON booleans.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "1", "true":
		*f = true
	case "0", "false":
		*f = false
	default:
		return fmt.Errorf("invalid default_left value %s", b)
	}
	return nil
}

// LoadTreeEnsembleFile reads an XGBoost JSON model from path.
func LoadTreeEnsembleFile(path string) (*TreeEnsemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()
	return LoadTreeEnsemble(f)
}

// LoadTreeEnsemble parses an XGBoost JSON model.
func LoadTreeEnsemble(r io.Reader) (*TreeEnsemble, error) {
	var doc xgbDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding xgboost model: %w", err)
	}
	l := doc.Learner

	if name := l.GradientBooster.Name; name != "gbtree" {
		return nil, fmt.Errorf("%w: booster %q", ErrUnsupportedModel, name)
	}
	objective := l.Objective.Name
	if objective == "" {
		objective = "reg:squarederror"
	}
	if !identityObjectives[objective] {
		return nil, fmt.Errorf("%w: objective %q", ErrUnsupportedModel, objective)
	}

	base, err := parseBaseScore(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}
	numFeatures, err := strconv.Atoi(strings.TrimSpace(l.LearnerModelParam.NumFeature))
	if err != nil || numFeatures <= 0 {
		return nil, fmt.Errorf("invalid num_feature %q", l.LearnerModelParam.NumFeature)
	}

	e := &TreeEnsemble{baseScore: float32(base), numFeatures: numFeatures, objective: objective}
	for i, t := range l.GradientBooster.Model.Trees {
		built, err := buildTree(t, numFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, built)
	}
	if len(e.trees) == 0 {
		return nil, fmt.Errorf("%w: model has no trees", ErrUnsupportedModel)
	}
	return e, nil
}

// parseBaseScore accepts "5E-1" as well as the bracketed "[5E-1]" newer
// releases write.
func parseBaseScore(s string) (float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", s, err)
	}
	return v, nil
}

func buildTree(t xgbTree, numFeatures int) (tree, error) {
	n := len(t.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("empty tree")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return tree{}, fmt.Errorf("node arrays have inconsistent lengths")
	}
	out := tree{
		left:        t.LeftChildren,
		right:       t.RightChildren,
		splitIndex:  t.SplitIndices,
		splitCond:   make([]float32, n),
		defaultLeft: make([]bool, n),
	}
	for i, c := range t.SplitConditions {
		out.splitCond[i] = float32(c)
	}
	for i := range t.DefaultLeft {
		if i < n {
			out.defaultLeft[i] = bool(t.DefaultLeft[i])
		}
	}
	for i := 0; i < n; i++ {
		if out.left[i] == -1 {
			continue
		}
		if out.left[i] <= i || out.left[i] >= n || out.right[i] <= i || out.right[i] >= n {
			return tree{}, fmt.Errorf("node %d has invalid children", i)
		}
		if out.splitIndex[i] < 0 || out.splitIndex[i] >= numFeatures {
			return tree{}, fmt.Errorf("node %d splits on feature %d of %d", i, out.splitIndex[i], numFeatures)
		}
	}
	return out, nil
}

// leaf walks one tree. Leaves store their value in split_conditions;
// NaN follows the node's default direction.
func (t tree) leaf(row []float32) float32 {
	node := 0
	for t.left[node] != -1 {
		v := row[t.splitIndex[node]]
		switch {
		case math.IsNaN(float64(v)):
			if t.defaultLeft[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		case v < t.splitCond[node]:
			node = t.left[node]
		default:
			node = t.right[node]
		}
	}
	return t.splitCond[node]
}

func (e *TreeEnsemble) Predict(row []float64) (float64, error) {
	if len(row) != e.numFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrShapeMismatch, len(row), e.numFeatures)
	}
	fv := make([]float32, len(row))
	for i, v := range row {
		fv[i] = float32(v)
	}
	sum := e.baseScore
	for _, t := range e.trees {
		sum += t.leaf(fv)
	}
	return float64(sum), nil
}

func (e *TreeEnsemble) NumFeatures() int { return e.numFeatures }

func (e *TreeEnsemble) NumTrees() int { return len(e.trees) }
