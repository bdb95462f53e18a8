// Package service implements the prediction workflow: input
// normalization, bounds validation, and the orchestrator that composes
// them with the model gateway.
package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/heart-risk-server/internal/domain"
)

// NormalizerService converts raw untyped records into schema-ordered
// numeric candidates. Pure: no state, no side effects.
type NormalizerService struct{}

// NewNormalizerService creates a new normalizer.
func NewNormalizerService() *NormalizerService {
	return &NormalizerService{}
}

// Normalize walks the feature schema in order and coerces each raw
// value to a number. Missing keys, blank values and non-numeric values
// are collected as field errors; coercion is otherwise lenient, with
// bounds strictness left to the validator. The resulting candidate
// preserves schema order regardless of input key order.
func (n *NormalizerService) Normalize(raw domain.RawRecord) (domain.Candidate, []*domain.FieldError) {
	fields := domain.Fields()
	values := make([]float64, 0, len(fields))
	var errs []*domain.FieldError

	for _, spec := range fields {
		rawValue, ok := raw[spec.Name]
		if !ok {
			errs = append(errs, domain.NewMissingFeatureError(spec.Name))
			continue
		}

		value, fieldErr := coerce(spec, rawValue)
		if fieldErr != nil {
			errs = append(errs, fieldErr)
			continue
		}
		values = append(values, value)
	}

	if len(errs) > 0 {
		return domain.Candidate{}, errs
	}
	return domain.NewCandidate(values), nil
}

// coerce converts one raw scalar to float64. Integer-kind features
// with an integral value are narrowed; a fractional value for an
// integer-kind feature is not an error here.
func coerce(spec domain.FeatureSpec, rawValue any) (float64, *domain.FieldError) {
	switch v := rawValue.(type) {
	case nil:
		return 0, domain.NewEmptyValueError(spec.Name)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, domain.NewEmptyValueError(spec.Name)
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, domain.NewNotNumericError(spec.Name, v)
		}
		return narrow(spec, parsed), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, domain.NewNotNumericError(spec.Name, v)
		}
		return narrow(spec, v), nil
	case float32:
		return narrow(spec, float64(v)), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, domain.NewNotNumericError(spec.Name, v.String())
		}
		return narrow(spec, parsed), nil
	case bool:
		return 0, domain.NewNotNumericError(spec.Name, v)
	default:
		return 0, domain.NewNotNumericError(spec.Name, fmt.Sprintf("%v", rawValue))
	}
}

// narrow truncates nothing: it only snaps integral floats for
// integer-kind features so 54.0 and 54 encode identically.
func narrow(spec domain.FeatureSpec, value float64) float64 {
	if spec.Kind == domain.KindInteger && value == math.Trunc(value) {
		return math.Trunc(value)
	}
	return value
}
