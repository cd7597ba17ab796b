package model

import "errors"

// Regressor is an opaque trained model mapping a feature row to one value.
type Regressor interface {
	Predict(row []float64) (float64, error)
	NumFeatures() int
}

var (
	// ErrShapeMismatch indicates a feature row whose width differs from the
	// model's training width.
	ErrShapeMismatch = errors.New("feature row shape mismatch")

	// ErrUnsupportedModel indicates a model file this evaluator cannot score.
	ErrUnsupportedModel = errors.New("unsupported model")
)
