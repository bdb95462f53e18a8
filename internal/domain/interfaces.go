package domain

import (
	"context"
)

// Normalizer converts a raw untyped record into a schema-ordered
// numeric candidate, rejecting missing, empty, and non-numeric values.
type Normalizer interface {
	Normalize(raw RawRecord) (Candidate, []*FieldError)
}

// Validator applies the feature schema's inclusive bounds to a
// candidate, collecting all violations before returning.
type Validator interface {
	Validate(candidate Candidate) (ValidatedRecord, []*FieldError)
}

// Classifier is the minimal capability of a loaded model artifact:
// batch label prediction with output order matching input order.
type Classifier interface {
	ModelName() string
	Classes() []Label
	Predict(vectors [][]float64) ([]Label, error)
}

// ProbabilisticClassifier is a Classifier that can also produce
// per-class probability vectors. Capability is determined once at
// artifact load time, never re-probed per call.
type ProbabilisticClassifier interface {
	Classifier
	PredictProbabilities(vectors [][]float64) ([][]float64, error)
}

// ModelGateway owns the lifecycle of the trained artifact: guarded
// lazy load, single cached instance, batch invocation.
type ModelGateway interface {
	// Load reads and caches the artifact. Idempotent; concurrent first
	// callers block on a single in-flight load.
	Load(ctx context.Context) error

	// Probabilistic reports whether the loaded artifact supports
	// probability output. Loads the artifact if needed.
	Probabilistic(ctx context.Context) (bool, error)

	// ModelName returns the loaded artifact's model identifier.
	ModelName(ctx context.Context) (string, error)

	// Predict classifies a batch of validated records. Output order
	// matches input order exactly.
	Predict(ctx context.Context, records []ValidatedRecord) ([]Label, error)

	// PredictProbabilities returns one probability vector per record,
	// class 0 first. Returns ErrProbabilitiesUnsupported when the
	// artifact lacks the capability.
	PredictProbabilities(ctx context.Context, records []ValidatedRecord) ([][]float64, error)
}

// Orchestrator composes normalization, validation and prediction for
// one or many independent records.
type Orchestrator interface {
	Handle(ctx context.Context, raws []RawRecord) (*BatchResult, error)
}
