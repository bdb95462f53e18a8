// Package model owns the trained prediction artifact: its on-disk
// format, the classifier implementations, and the gateway that guards
// artifact lifecycle and invocation.
//
// The artifact is produced by the offline training pipeline, which
// exports the fitted preprocessing transform and linear classifier as
// a JSON document fit against exactly the feature schema's column
// order.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/heart-risk-server/internal/domain"
)

// Artifact model kinds. A logistic regression exposes calibrated
// probabilities; a linear SVC only exposes labels.
const (
	ModelLogisticRegression = "logistic_regression"
	ModelLinearSVC          = "linear_svc"
)

// artifactSchemaVersion is the supported on-disk format version.
const artifactSchemaVersion = 1

// ArtifactFile is the serialized trained pipeline: a standard scaler
// and a fitted linear decision function.
type ArtifactFile struct {
	SchemaVersion int       `json:"schema_version"`
	Model         string    `json:"model"`
	Features      []string  `json:"features"`
	Scaler        Scaler    `json:"scaler"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
	Classes       []int     `json:"classes"`
}

// Scaler holds the fitted standardization parameters, one entry per
// feature in schema order.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// linearModel evaluates the fitted pipeline: standardize, then apply
// the linear decision function. Immutable after construction.
type linearModel struct {
	name         string
	scaler       Scaler
	coefficients []float64
	intercept    float64
	classes      []domain.Label
}

// ModelName returns the artifact's model identifier.
func (m *linearModel) ModelName() string {
	return m.name
}

// Classes returns the class ordering used by probability output.
func (m *linearModel) Classes() []domain.Label {
	out := make([]domain.Label, len(m.classes))
	copy(out, m.classes)
	return out
}

// decision computes the decision value for one standardized vector.
func (m *linearModel) decision(vector []float64) (float64, error) {
	if len(vector) != len(m.coefficients) {
		return 0, fmt.Errorf("vector has %d features, model expects %d", len(vector), len(m.coefficients))
	}
	z := m.intercept
	for i, v := range vector {
		scaled := (v - m.scaler.Mean[i]) / m.scaler.Scale[i]
		z += m.coefficients[i] * scaled
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, fmt.Errorf("decision value is not finite")
	}
	return z, nil
}

// Predict classifies a batch of vectors. Output order matches input
// order; no reordering, no deduplication.
func (m *linearModel) Predict(vectors [][]float64) ([]domain.Label, error) {
	labels := make([]domain.Label, len(vectors))
	for i, vec := range vectors {
		z, err := m.decision(vec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if z > 0 {
			labels[i] = m.classes[1]
		} else {
			labels[i] = m.classes[0]
		}
	}
	return labels, nil
}

// logisticModel is a linearModel with calibrated probability output.
type logisticModel struct {
	linearModel
}

// PredictProbabilities returns one probability vector per input,
// ordered by class (class 0 first), summing to 1 within floating
// tolerance.
func (m *logisticModel) PredictProbabilities(vectors [][]float64) ([][]float64, error) {
	probs := make([][]float64, len(vectors))
	for i, vec := range vectors {
		z, err := m.decision(vec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		p1 := 1.0 / (1.0 + math.Exp(-z))
		probs[i] = []float64{1.0 - p1, p1}
	}
	return probs, nil
}

// LoadArtifact reads and verifies an artifact file, returning the
// classifier it describes. The artifact's recorded feature order must
// exactly match the authoritative schema; a mismatch would silently
// misalign every prediction, so it is rejected at load time.
func LoadArtifact(path string) (domain.Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	var file ArtifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}

	if err := verifyArtifact(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}

	classes := make([]domain.Label, len(file.Classes))
	for i, c := range file.Classes {
		classes[i] = domain.Label(c)
	}

	base := linearModel{
		name:         file.Model,
		scaler:       file.Scaler,
		coefficients: file.Coefficients,
		intercept:    file.Intercept,
		classes:      classes,
	}

	switch file.Model {
	case ModelLogisticRegression:
		return &logisticModel{linearModel: base}, nil
	case ModelLinearSVC:
		return &base, nil
	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", domain.ErrArtifactCorrupt, file.Model)
	}
}

// verifyArtifact checks structural consistency against the feature
// schema before any prediction is possible.
func verifyArtifact(file *ArtifactFile) error {
	if file.SchemaVersion != artifactSchemaVersion {
		return fmt.Errorf("unsupported schema version %d", file.SchemaVersion)
	}

	want := domain.FeatureNames()
	if len(file.Features) != len(want) {
		return fmt.Errorf("artifact has %d features, schema has %d", len(file.Features), len(want))
	}
	for i, name := range want {
		if file.Features[i] != name {
			return fmt.Errorf("feature order mismatch at position %d: artifact %q, schema %q", i, file.Features[i], name)
		}
	}

	n := len(want)
	if len(file.Scaler.Mean) != n || len(file.Scaler.Scale) != n {
		return fmt.Errorf("scaler parameters do not cover all %d features", n)
	}
	for i, s := range file.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler scale is zero for feature %q", want[i])
		}
	}
	if len(file.Coefficients) != n {
		return fmt.Errorf("model has %d coefficients, schema has %d features", len(file.Coefficients), n)
	}

	if len(file.Classes) != 2 || file.Classes[0] != 0 || file.Classes[1] != 1 {
		return fmt.Errorf("unexpected class set %v, want [0 1]", file.Classes)
	}

	return nil
}
