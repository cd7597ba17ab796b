package predict

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat indicates a missing field or a date/time that does not
	// match its layout.
	ErrInvalidFormat = errors.New("invalid input format")

	// ErrUnknownTask indicates a task identifier absent from the task table.
	ErrUnknownTask = errors.New("unknown task")

	// ErrUnknownCategory indicates a task or section code absent from a
	// fitted vocabulary.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrPredictionFailed indicates the regressor or a pipeline stage failed
	// unexpectedly.
	ErrPredictionFailed = errors.New("prediction failed")
)

type ErrorCode string

const (
	CodeMissingField     ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	CodeUnknownTask      ErrorCode = "UNKNOWN_TASK"
	CodeUnknownCategory  ErrorCode = "UNKNOWN_CATEGORY"
	CodePredictionFailed ErrorCode = "PREDICTION_FAILED"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageValidate Stage = "validate"
	StageResolve  Stage = "resolve"
	StageEncode   Stage = "encode"
	StageAssemble Stage = "assemble"
	StageScore    Stage = "score"
)

// Error is the typed failure returned by Engine operations.
type Error struct {
	Code    ErrorCode
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Stage, e.Detail())
}

// Detail is the message followed by the wrapped cause, each at most once.
func (e *Error) Detail() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's code so callers can use errors.Is
// without knowing the concrete type.
func (e *Error) Is(target error) bool {
	return sentinelFor(e.Code) == target
}

func sentinelFor(code ErrorCode) error {
	switch code {
	case CodeMissingField, CodeInvalidFormat:
		return ErrInvalidFormat
	case CodeUnknownTask:
		return ErrUnknownTask
	case CodeUnknownCategory:
		return ErrUnknownCategory
	default:
		return ErrPredictionFailed
	}
}

func newError(code ErrorCode, stage Stage, err error, format string, args ...any) *Error {
	return &Error{Code: code, Stage: stage, Message: fmt.Sprintf(format, args...), Err: err}
}
