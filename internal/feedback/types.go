// Package feedback provides clinician feedback storage for served
// predictions. It records agreement or disagreement with the model's
// output to support offline model review. No clinical feature values
// are ever accepted or stored here.
package feedback

import (
	"context"
	"io"
	"time"

	"github.com/heart-risk-server/internal/domain"
)

// Feedback represents a clinician's feedback on a served prediction.
type Feedback struct {
	ID             int64        `json:"id,omitempty"`
	RequestID      string       `json:"request_id"`               // Correlation ID of the prediction request
	Model          string       `json:"model"`                    // Model identifier that produced the prediction
	PredictedLabel domain.Label `json:"predicted_label"`          // System's prediction
	ClinicianLabel domain.Label `json:"clinician_label"`          // Clinician's assessment
	Agreed         bool         `json:"agreed"`                   // Did the clinician agree with the prediction?
	Notes          string       `json:"notes,omitempty"`          // Free-text clinical notes
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates feedback for a prediction.
	// If feedback for the same request ID exists, it will be updated.
	Save(ctx context.Context, feedback *Feedback) error

	// Get retrieves feedback by the prediction's request ID.
	Get(ctx context.Context, requestID string) (*Feedback, error)

	// List returns all feedback entries with pagination.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}
