package service

import (
	"github.com/heart-risk-server/internal/domain"
)

// ValidatorService applies the feature schema's inclusive bounds to a
// normalized candidate. Pure: no state, no side effects.
type ValidatorService struct{}

// NewValidatorService creates a new validator.
func NewValidatorService() *ValidatorService {
	return &ValidatorService{}
}

// Validate checks min <= value <= max for every feature in schema
// order. All violations are collected before returning so callers can
// report every problem in one response; supplying N out-of-range
// fields yields exactly N errors. The ValidatedRecord is constructed
// only when there are zero errors.
func (v *ValidatorService) Validate(candidate domain.Candidate) (domain.ValidatedRecord, []*domain.FieldError) {
	fields := domain.Fields()
	var errs []*domain.FieldError

	for i, spec := range fields {
		value := candidate.At(i)
		if value < spec.Min || value > spec.Max {
			errs = append(errs, domain.NewOutOfRangeError(spec.Name, value, spec.Min, spec.Max))
		}
	}

	if len(errs) > 0 {
		return domain.ValidatedRecord{}, errs
	}
	return domain.NewValidatedRecord(candidate), nil
}
