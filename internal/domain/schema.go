// Package domain contains the core business entities for heart disease
// risk prediction against the UCI Heart Disease dataset.
//
// The feature schema defined here is the single authoritative source of
// feature order and bounds. The trained model artifact was fit against
// exactly this column order; every consumer (normalizer, validator,
// gateway, presentation) must derive order from Fields() and never keep
// a second copy.
package domain

// FeatureKind describes the numeric representation of a feature.
type FeatureKind string

const (
	KindInteger FeatureKind = "integer"
	KindFloat   FeatureKind = "float"
)

// FeatureRole describes how a feature was treated during training.
// Informational only: both roles are numeric-encoded before reaching
// the model.
type FeatureRole string

const (
	RoleNumeric     FeatureRole = "numeric"
	RoleCategorical FeatureRole = "categorical"
)

// FeatureSpec declares one clinical input field with its inclusive bounds.
type FeatureSpec struct {
	Name string      `json:"name"`
	Kind FeatureKind `json:"kind"`
	Min  float64     `json:"min"`
	Max  float64     `json:"max"`
	Role FeatureRole `json:"role"`
}

// featureSchema is the fixed ordered column set the artifact was fit
// against. Reordering silently corrupts predictions with no runtime
// error, so this list is never rebuilt elsewhere.
var featureSchema = []FeatureSpec{
	{Name: "age", Kind: KindInteger, Min: 18, Max: 100, Role: RoleNumeric},
	{Name: "sex", Kind: KindInteger, Min: 0, Max: 1, Role: RoleCategorical},
	{Name: "cp", Kind: KindInteger, Min: 0, Max: 3, Role: RoleCategorical},
	{Name: "trestbps", Kind: KindInteger, Min: 80, Max: 200, Role: RoleNumeric},
	{Name: "chol", Kind: KindInteger, Min: 100, Max: 600, Role: RoleNumeric},
	{Name: "fbs", Kind: KindInteger, Min: 0, Max: 1, Role: RoleCategorical},
	{Name: "restecg", Kind: KindInteger, Min: 0, Max: 2, Role: RoleCategorical},
	{Name: "thalch", Kind: KindInteger, Min: 60, Max: 220, Role: RoleNumeric},
	{Name: "exang", Kind: KindInteger, Min: 0, Max: 1, Role: RoleCategorical},
	{Name: "oldpeak", Kind: KindFloat, Min: 0, Max: 6, Role: RoleNumeric},
	{Name: "slope", Kind: KindInteger, Min: 0, Max: 2, Role: RoleCategorical},
	{Name: "ca", Kind: KindInteger, Min: 0, Max: 4, Role: RoleCategorical},
	{Name: "thal", Kind: KindInteger, Min: 0, Max: 3, Role: RoleCategorical},
}

// Fields returns the ordered feature schema. The returned slice is a
// copy; callers may not mutate the authoritative order.
func Fields() []FeatureSpec {
	out := make([]FeatureSpec, len(featureSchema))
	copy(out, featureSchema)
	return out
}

// FeatureNames returns the feature names in schema order.
func FeatureNames() []string {
	names := make([]string, len(featureSchema))
	for i, f := range featureSchema {
		names[i] = f.Name
	}
	return names
}

// FeatureCount returns the number of features in the schema.
func FeatureCount() int {
	return len(featureSchema)
}

// CategoryLabels maps categorical feature codes to human-readable
// labels for presentation layers. Static lookup data, never computed.
func CategoryLabels() map[string]map[int]string {
	return map[string]map[int]string{
		"sex": {
			0: "Female",
			1: "Male",
		},
		"cp": {
			0: "Typical Angina",
			1: "Atypical Angina",
			2: "Non-anginal Pain",
			3: "Asymptomatic",
		},
		"fbs": {
			0: "Fasting blood sugar <= 120 mg/dl",
			1: "Fasting blood sugar > 120 mg/dl",
		},
		"restecg": {
			0: "Normal",
			1: "ST-T wave abnormality",
			2: "Left ventricular hypertrophy",
		},
		"exang": {
			0: "No exercise-induced angina",
			1: "Exercise-induced angina",
		},
		"slope": {
			0: "Upsloping",
			1: "Flat",
			2: "Downsloping",
		},
		"thal": {
			0: "Unknown",
			1: "Normal",
			2: "Fixed defect",
			3: "Reversible defect",
		},
	}
}
