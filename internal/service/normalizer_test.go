package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

// validRaw returns a complete in-range record.
func validRaw() domain.RawRecord {
	return domain.RawRecord{
		"age": 55, "sex": 1, "cp": 0, "trestbps": 140, "chol": 250,
		"fbs": 0, "restecg": 1, "thalch": 150, "exang": 0,
		"oldpeak": 1.2, "slope": 1, "ca": 0, "thal": 2,
	}
}

func TestNormalize_SchemaOrderIndependentOfInput(t *testing.T) {
	normalizer := NewNormalizerService()

	// Same record, keys supplied as strings in no particular order.
	raw := domain.RawRecord{
		"thal": "2", "ca": "0", "slope": "1", "oldpeak": "1.2",
		"exang": "0", "thalch": "150", "restecg": "1", "fbs": "0",
		"chol": "250", "trestbps": "140", "cp": "0", "sex": "1",
		"age": "55",
	}

	candidate, errs := normalizer.Normalize(raw)
	require.Empty(t, errs)

	expected := []float64{55, 1, 0, 140, 250, 0, 1, 150, 0, 1.2, 1, 0, 2}
	assert.Equal(t, expected, candidate.Values())
}

func TestNormalize_MissingFeature(t *testing.T) {
	normalizer := NewNormalizerService()

	raw := validRaw()
	delete(raw, "thalch")

	_, errs := normalizer.Normalize(raw)
	require.Len(t, errs, 1)
	assert.Equal(t, "thalch", errs[0].Field)
	assert.Equal(t, domain.ReasonMissingFeature, errs[0].Reason)
}

func TestNormalize_EmptyValue(t *testing.T) {
	normalizer := NewNormalizerService()

	raw := validRaw()
	raw["chol"] = ""

	_, errs := normalizer.Normalize(raw)
	require.Len(t, errs, 1)
	assert.Equal(t, "chol", errs[0].Field)
	assert.Equal(t, domain.ReasonEmptyValue, errs[0].Reason)
}

func TestNormalize_BlankStringIsEmpty(t *testing.T) {
	normalizer := NewNormalizerService()

	raw := validRaw()
	raw["chol"] = "   "

	_, errs := normalizer.Normalize(raw)
	require.Len(t, errs, 1)
	assert.Equal(t, domain.ReasonEmptyValue, errs[0].Reason)
}

func TestNormalize_NotNumeric(t *testing.T) {
	normalizer := NewNormalizerService()

	tests := []struct {
		name  string
		value any
	}{
		{"word", "high"},
		{"bool", true},
		{"object", map[string]any{"v": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw["trestbps"] = tt.value

			_, errs := normalizer.Normalize(raw)
			require.Len(t, errs, 1)
			assert.Equal(t, "trestbps", errs[0].Field)
			assert.Equal(t, domain.ReasonNotNumeric, errs[0].Reason)
		})
	}
}

func TestNormalize_CollectsAllErrors(t *testing.T) {
	normalizer := NewNormalizerService()

	raw := validRaw()
	delete(raw, "age")
	raw["chol"] = ""
	raw["oldpeak"] = "much"

	_, errs := normalizer.Normalize(raw)
	assert.Len(t, errs, 3, "every schema violation is reported, not just the first")
}

func TestNormalize_IntegerNarrowing(t *testing.T) {
	normalizer := NewNormalizerService()

	raw := validRaw()
	raw["age"] = 55.0          // integral float for integer-kind
	raw["oldpeak"] = "1.50"    // float-kind stays fractional
	raw["trestbps"] = 140.5    // fractional for integer-kind: lenient here

	candidate, errs := normalizer.Normalize(raw)
	require.Empty(t, errs, "coercion is lenient; bounds strictness is the validator's job")

	assert.Equal(t, 55.0, candidate.At(0))
	assert.Equal(t, 140.5, candidate.At(3))
	assert.Equal(t, 1.5, candidate.At(9))
}

func TestNormalize_JSONNumber(t *testing.T) {
	normalizer := NewNormalizerService()

	raw := validRaw()
	raw["chol"] = json.Number("250")

	candidate, errs := normalizer.Normalize(raw)
	require.Empty(t, errs)
	assert.Equal(t, 250.0, candidate.At(4))
}

func TestNormalize_Pure(t *testing.T) {
	normalizer := NewNormalizerService()
	raw := validRaw()

	first, errs := normalizer.Normalize(raw)
	require.Empty(t, errs)
	second, errs := normalizer.Normalize(raw)
	require.Empty(t, errs)

	assert.Equal(t, first.Values(), second.Values())
}
