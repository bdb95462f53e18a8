package domain

// RawRecord is an untyped clinical record as received at the boundary.
// Values may be numbers, numeric strings, or absent. Never persisted.
type RawRecord map[string]any

// Candidate is a schema-ordered numeric vector produced by the
// normalizer. It has passed type coercion but not bounds checking.
type Candidate struct {
	values []float64
}

// NewCandidate wraps a schema-ordered vector. The caller hands over
// ownership of the slice.
func NewCandidate(values []float64) Candidate {
	return Candidate{values: values}
}

// Values returns a copy of the schema-ordered vector.
func (c Candidate) Values() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// At returns the value at schema position i.
func (c Candidate) At(i int) float64 {
	return c.values[i]
}

// Len returns the number of values in the candidate.
func (c Candidate) Len() int {
	return len(c.values)
}

// ValidatedRecord is a schema-ordered numeric vector where every value
// passed type coercion and bounds checking. Immutable once constructed;
// built per request and discarded after prediction. Never cached or
// stored (no patient data retention).
type ValidatedRecord struct {
	values []float64
}

// NewValidatedRecord constructs a ValidatedRecord from a bounds-checked
// candidate. Only the validator should call this.
func NewValidatedRecord(c Candidate) ValidatedRecord {
	return ValidatedRecord{values: c.Values()}
}

// Vector returns a copy of the schema-ordered feature vector.
func (r ValidatedRecord) Vector() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of features in the record.
func (r ValidatedRecord) Len() int {
	return len(r.values)
}
