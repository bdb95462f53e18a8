package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error codes for the failure taxonomy. Schema and range violations are
// client errors recovered into structured responses; artifact and
// prediction errors are service errors surfaced to the boundary.
const (
	ErrCodeSchemaViolation     = "SCHEMA_VIOLATION"
	ErrCodeRangeViolation      = "RANGE_VIOLATION"
	ErrCodeArtifactUnavailable = "ARTIFACT_UNAVAILABLE"
	ErrCodePredictionFailure   = "PREDICTION_FAILURE"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeInternalServer      = "INTERNAL_SERVER_ERROR"
)

// Field error reasons within the schema-violation taxonomy.
const (
	ReasonMissingFeature = "missing_feature"
	ReasonEmptyValue     = "empty_value"
	ReasonNotNumeric     = "not_numeric"
	ReasonOutOfRange     = "out_of_range"
)

// Sentinel errors for the model gateway.
var (
	ErrArtifactNotFound         = errors.New("model artifact not found")
	ErrArtifactCorrupt          = errors.New("model artifact corrupt")
	ErrProbabilitiesUnsupported = errors.New("loaded model does not support probability output")
)

// FieldError reports one per-field violation. Validation collects all
// violations before returning rather than stopping at the first.
// Min and Max never carry omitempty: many fields have a legitimate
// lower bound of 0 and the violated bound must survive serialization.
type FieldError struct {
	Field   string  `json:"field"`
	Reason  string  `json:"reason"`
	Message string  `json:"message"`
	Value   any     `json:"value,omitempty"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
}

// NewMissingFeatureError reports a required feature absent from the input.
func NewMissingFeatureError(field string) *FieldError {
	return &FieldError{
		Field:   field,
		Reason:  ReasonMissingFeature,
		Message: "required feature is missing",
	}
}

// NewEmptyValueError reports a feature present but blank.
func NewEmptyValueError(field string) *FieldError {
	return &FieldError{
		Field:   field,
		Reason:  ReasonEmptyValue,
		Message: "feature value is empty",
	}
}

// NewNotNumericError reports a feature value that could not be coerced
// to a number.
func NewNotNumericError(field string, value any) *FieldError {
	return &FieldError{
		Field:   field,
		Reason:  ReasonNotNumeric,
		Message: fmt.Sprintf("feature value %v is not numeric", value),
		Value:   value,
	}
}

// NewOutOfRangeError reports a value outside its declared inclusive bounds.
func NewOutOfRangeError(field string, value, min, max float64) *FieldError {
	return &FieldError{
		Field:   field,
		Reason:  ReasonOutOfRange,
		Message: fmt.Sprintf("value %v outside allowed range [%v, %v]", value, min, max),
		Value:   value,
		Min:     min,
		Max:     max,
	}
}

// ServiceError is a standardized error response for failures that are
// not attributable to a single input field.
type ServiceError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewServiceError creates a ServiceError with timestamp.
func NewServiceError(code, message, details, requestID string) *ServiceError {
	return &ServiceError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
