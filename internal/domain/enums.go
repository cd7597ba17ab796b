package domain

// PredictorMode tags which strategy an Engine was built with, or which one
// produced a given prediction. ModeDefault marks the last-resort constant.
type PredictorMode string

const (
	ModeModel   PredictorMode = "model"
	ModeRules   PredictorMode = "rules"
	ModeDefault PredictorMode = "default"
)

// ResolutionMethod records how a task identifier was matched.
type ResolutionMethod string

const (
	ResolvedExact          ResolutionMethod = "exact"
	ResolvedName           ResolutionMethod = "name"
	ResolvedNormalizedCode ResolutionMethod = "normalized_code"
	ResolvedUnknown        ResolutionMethod = "unknown"
)

// UnknownPolicy decides what the model strategy does with a task or
// category it cannot encode.
type UnknownPolicy string

const (
	UnknownReject  UnknownPolicy = "reject"
	UnknownDefault UnknownPolicy = "default"
	UnknownRules   UnknownPolicy = "rules"
)

// ValidUnknownPolicies is the canonical set of accepted policy strings.
var ValidUnknownPolicies = map[string]bool{
	"reject": true, "default": true, "rules": true,
}

type WorkloadSource string

const (
	WorkloadDocuments WorkloadSource = "num_documents"
	WorkloadTaskTime  WorkloadSource = "total_task_time_minutes"
	WorkloadDefault   WorkloadSource = "default"
)

type BatchKind string

const (
	BatchCompletion BatchKind = "completion"
	BatchStaffing   BatchKind = "staffing"
)
