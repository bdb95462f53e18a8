package domain

// Label is the binary class produced by the trained model.
// 0 = no significant disease, 1 = disease detected.
type Label int

const (
	LabelNoDisease Label = 0
	LabelDisease   Label = 1
)

// IsValid reports whether the label is one of the known classes.
func (l Label) IsValid() bool {
	return l == LabelNoDisease || l == LabelDisease
}

// Diagnosis is the human-readable reading of a label, derived by
// static lookup for clinical presentation.
type Diagnosis struct {
	Diagnosis string `json:"diagnosis"`
	RiskLevel string `json:"risk_level"`
	Notes     string `json:"notes"`
}

// diagnosisLabels maps each class to its clinical reading.
var diagnosisLabels = map[Label]Diagnosis{
	LabelNoDisease: {
		Diagnosis: "No Significant Coronary Artery Disease",
		RiskLevel: "Low Risk",
		Notes:     "Consult with a cardiologist for complete evaluation",
	},
	LabelDisease: {
		Diagnosis: "Coronary Artery Disease Detected",
		RiskLevel: "High Risk",
		Notes:     "Consult with a cardiologist for complete evaluation",
	},
}

// DiagnosisFor returns the static clinical reading of a label.
func DiagnosisFor(label Label) Diagnosis {
	return diagnosisLabels[label]
}

// PredictionResult is the typed outcome for one completed record.
// Probabilities are present only when the loaded artifact supports
// probability output; they are ordered by class (class 0 first) and
// sum to 1.0 within floating tolerance.
type PredictionResult struct {
	Label         Label     `json:"label"`
	Probabilities []float64 `json:"probabilities,omitempty"`
	Diagnosis     Diagnosis `json:"diagnosis"`
}

// RecordStatus is the terminal state of one record in the orchestrator
// state machine.
type RecordStatus string

const (
	StatusCompleted           RecordStatus = "completed"
	StatusNormalizationFailed RecordStatus = "normalization_failed"
	StatusValidationFailed    RecordStatus = "validation_failed"
	StatusPredictionFailed    RecordStatus = "prediction_failed"
)

// RecordResult is the per-record outcome within a batch. A failed
// record never aborts its siblings.
type RecordResult struct {
	Index      int               `json:"index"`
	Status     RecordStatus      `json:"status"`
	Prediction *PredictionResult `json:"prediction,omitempty"`
	Errors     []*FieldError     `json:"errors,omitempty"`
	Failure    *ServiceError     `json:"failure,omitempty"`
}

// Completed reports whether the record reached a prediction.
func (r *RecordResult) Completed() bool {
	return r.Status == StatusCompleted
}

// BatchResult is the orchestrator output for one request: one
// RecordResult per input record, in input order.
type BatchResult struct {
	Results []*RecordResult `json:"results"`
}

// AllCompleted reports whether every record in the batch produced a
// prediction.
func (b *BatchResult) AllCompleted() bool {
	for _, r := range b.Results {
		if !r.Completed() {
			return false
		}
	}
	return true
}

// Labels returns the predicted labels of completed records in input
// order. Failed records are skipped.
func (b *BatchResult) Labels() []Label {
	labels := make([]Label, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Completed() {
			labels = append(labels, r.Prediction.Label)
		}
	}
	return labels
}
