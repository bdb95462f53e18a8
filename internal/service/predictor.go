package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
	"github.com/heart-risk-server/internal/model"
)

// PredictorService composes normalization, validation and the model
// gateway into the full prediction workflow. Stateless per request:
// the only shared resource is the gateway's artifact cache.
type PredictorService struct {
	logger     *logrus.Logger
	normalizer domain.Normalizer
	validator  domain.Validator
	gateway    domain.ModelGateway
}

// NewPredictorService creates the prediction orchestrator.
func NewPredictorService(logger *logrus.Logger, normalizer domain.Normalizer, validator domain.Validator, gateway domain.ModelGateway) *PredictorService {
	return &PredictorService{
		logger:     logger,
		normalizer: normalizer,
		validator:  validator,
		gateway:    gateway,
	}
}

// pendingRecord tracks a validated record awaiting prediction and its
// position in the input batch.
type pendingRecord struct {
	index  int
	record domain.ValidatedRecord
}

// Handle runs the per-record workflow over a batch of independent
// records. Normalization and validation failures are collected per
// record and never abort siblings; no model invocation happens for
// rejected records. An unavailable artifact fails the whole call,
// since no record can proceed without it.
func (p *PredictorService) Handle(ctx context.Context, raws []domain.RawRecord) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		Results: make([]*domain.RecordResult, len(raws)),
	}

	var pending []pendingRecord
	for i, raw := range raws {
		result.Results[i] = p.prepare(i, raw, &pending)
	}

	if len(pending) == 0 {
		p.logger.WithField("records", len(raws)).Info("All records rejected before prediction")
		return result, nil
	}

	probabilistic, err := p.gateway.Probabilistic(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.predictBatch(ctx, pending, probabilistic, result); err != nil {
		if model.IsUnavailable(err) {
			return nil, err
		}
		// One poisoned vector must not fail its siblings: retry each
		// pending record on its own and record individual failures.
		p.logger.WithError(err).Warn("Batch prediction failed, retrying records individually")
		p.predictEach(ctx, pending, probabilistic, result)
	}

	p.logger.WithFields(logrus.Fields{
		"records":       len(raws),
		"completed":     completedCount(result),
		"probabilistic": probabilistic,
	}).Info("Prediction batch handled")

	return result, nil
}

// prepare normalizes and validates one record, returning its result
// shell. Validated records are appended to pending for prediction.
func (p *PredictorService) prepare(index int, raw domain.RawRecord, pending *[]pendingRecord) *domain.RecordResult {
	candidate, normErrs := p.normalizer.Normalize(raw)
	if len(normErrs) > 0 {
		return &domain.RecordResult{
			Index:  index,
			Status: domain.StatusNormalizationFailed,
			Errors: normErrs,
		}
	}

	record, valErrs := p.validator.Validate(candidate)
	if len(valErrs) > 0 {
		return &domain.RecordResult{
			Index:  index,
			Status: domain.StatusValidationFailed,
			Errors: valErrs,
		}
	}

	*pending = append(*pending, pendingRecord{index: index, record: record})
	return &domain.RecordResult{
		Index:  index,
		Status: domain.StatusCompleted,
	}
}

// predictBatch classifies all pending records in one gateway call and
// fills in the corresponding results.
func (p *PredictorService) predictBatch(ctx context.Context, pending []pendingRecord, probabilistic bool, result *domain.BatchResult) error {
	records := make([]domain.ValidatedRecord, len(pending))
	for i, pr := range pending {
		records[i] = pr.record
	}

	labels, err := p.gateway.Predict(ctx, records)
	if err != nil {
		return err
	}

	var probs [][]float64
	if probabilistic {
		probs, err = p.gateway.PredictProbabilities(ctx, records)
		if err != nil {
			return err
		}
	}

	for i, pr := range pending {
		prediction := &domain.PredictionResult{
			Label:     labels[i],
			Diagnosis: domain.DiagnosisFor(labels[i]),
		}
		if probs != nil {
			prediction.Probabilities = probs[i]
		}
		result.Results[pr.index].Prediction = prediction
	}
	return nil
}

// predictEach classifies pending records one at a time, marking
// individual prediction failures as terminal for that record only.
func (p *PredictorService) predictEach(ctx context.Context, pending []pendingRecord, probabilistic bool, result *domain.BatchResult) {
	for _, pr := range pending {
		single := []pendingRecord{pr}
		if err := p.predictBatch(ctx, single, probabilistic, result); err != nil {
			p.logger.WithError(err).WithField("index", pr.index).Error("Prediction failed for record")
			result.Results[pr.index].Status = domain.StatusPredictionFailed
			result.Results[pr.index].Failure = domain.NewServiceError(
				domain.ErrCodePredictionFailure,
				"prediction failed for record",
				err.Error(),
				"",
			)
		}
	}
}

func completedCount(result *domain.BatchResult) int {
	n := 0
	for _, r := range result.Results {
		if r.Completed() {
			n++
		}
	}
	return n
}
