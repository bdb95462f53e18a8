package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
)

// Gateway owns the artifact lifecycle: guarded lazy load, a single
// cached immutable instance, and batch invocation. It is the only
// component allowed to hold a reference to the loaded classifier.
type Gateway struct {
	logger *logrus.Logger
	path   string

	mu         sync.Mutex
	classifier domain.Classifier
}

// NewGateway creates a gateway for the artifact at path. The artifact
// is not read until first use; call Load at startup for eager loading.
func NewGateway(logger *logrus.Logger, path string) *Gateway {
	return &Gateway{
		logger: logger,
		path:   path,
	}
}

// Load reads and caches the artifact. Idempotent: the first caller
// performs the file read while concurrent callers block on the same
// in-flight load; later calls return immediately. A failed load is not
// cached, so the service recovers once the artifact appears.
func (g *Gateway) Load(ctx context.Context) error {
	_, err := g.load(ctx)
	return err
}

func (g *Gateway) load(ctx context.Context) (domain.Classifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.classifier != nil {
		return g.classifier, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classifier, err := LoadArtifact(g.path)
	if err != nil {
		g.logger.WithError(err).WithField("path", g.path).Error("Failed to load model artifact")
		return nil, err
	}

	_, probabilistic := classifier.(domain.ProbabilisticClassifier)
	g.logger.WithFields(logrus.Fields{
		"path":          g.path,
		"model":         classifier.ModelName(),
		"probabilistic": probabilistic,
	}).Info("Model artifact loaded")

	g.classifier = classifier
	return classifier, nil
}

// Probabilistic reports whether the loaded artifact supports
// probability output. The capability is a property of the artifact
// kind, fixed at load time.
func (g *Gateway) Probabilistic(ctx context.Context) (bool, error) {
	classifier, err := g.load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := classifier.(domain.ProbabilisticClassifier)
	return ok, nil
}

// ModelName returns the loaded artifact's model identifier.
func (g *Gateway) ModelName(ctx context.Context) (string, error) {
	classifier, err := g.load(ctx)
	if err != nil {
		return "", err
	}
	return classifier.ModelName(), nil
}

// Predict classifies a batch of validated records. Output order
// matches input order exactly.
func (g *Gateway) Predict(ctx context.Context, records []domain.ValidatedRecord) ([]domain.Label, error) {
	classifier, err := g.load(ctx)
	if err != nil {
		return nil, err
	}

	labels, err := classifier.Predict(vectors(records))
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}
	return labels, nil
}

// PredictProbabilities returns one probability vector per record,
// class 0 first. Callers that did not check Probabilistic receive
// domain.ErrProbabilitiesUnsupported for label-only artifacts.
func (g *Gateway) PredictProbabilities(ctx context.Context, records []domain.ValidatedRecord) ([][]float64, error) {
	classifier, err := g.load(ctx)
	if err != nil {
		return nil, err
	}

	probabilistic, ok := classifier.(domain.ProbabilisticClassifier)
	if !ok {
		return nil, domain.ErrProbabilitiesUnsupported
	}

	probs, err := probabilistic.PredictProbabilities(vectors(records))
	if err != nil {
		return nil, fmt.Errorf("probability prediction failed: %w", err)
	}
	return probs, nil
}

// Available reports whether the artifact can currently be loaded.
// Used by health and metadata surfaces that must not fail hard.
func (g *Gateway) Available(ctx context.Context) bool {
	_, err := g.load(ctx)
	return err == nil
}

// IsUnavailable reports whether err is an artifact availability
// failure rather than a prediction failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrArtifactNotFound) || errors.Is(err, domain.ErrArtifactCorrupt)
}

func vectors(records []domain.ValidatedRecord) [][]float64 {
	out := make([][]float64, len(records))
	for i, r := range records {
		out[i] = r.Vector()
	}
	return out
}
