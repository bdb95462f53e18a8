package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heart-risk-server/internal/domain"
	"github.com/heart-risk-server/internal/feedback"
	"github.com/heart-risk-server/internal/model"
)

// predictResponse is the flat response shape returned when every
// record in the request completed. Probabilities are omitted entirely
// when the loaded artifact lacks the capability, distinguishing
// "capability absent" from "computed zero".
type predictResponse struct {
	Predictions   []domain.Label `json:"predictions"`
	Probabilities [][]float64    `json:"probabilities,omitempty"`
}

// handleHealth handles health check requests. It never touches the
// artifact: a missing model degrades prediction, not liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// handleMetadata returns the feature schema and, when the artifact is
// loadable, the model identity and capability.
func (s *Server) handleMetadata(c *gin.Context) {
	resp := gin.H{
		"features":        domain.FeatureNames(),
		"fields":          domain.Fields(),
		"category_labels": domain.CategoryLabels(),
	}

	ctx := c.Request.Context()
	if name, err := s.gateway.ModelName(ctx); err == nil {
		probabilistic, _ := s.gateway.Probabilistic(ctx)
		resp["model"] = name
		resp["classes"] = []int{0, 1}
		resp["probabilistic"] = probabilistic
	} else {
		resp["model"] = nil
	}

	c.JSON(http.StatusOK, resp)
}

// handlePredict accepts a single record or an array of records and
// returns predictions. A rejected single record yields 400 with the
// full per-field error list; a batch yields per-record results so one
// bad record never discards its siblings.
func (s *Server) handlePredict(c *gin.Context) {
	records, isBatch, ok := s.bindRecords(c)
	if !ok {
		return
	}

	result, err := s.orchestrator.Handle(c.Request.Context(), records)
	if err != nil {
		s.renderPredictionError(c, err)
		return
	}

	if !isBatch {
		single := result.Results[0]
		if !single.Completed() {
			s.renderRecordFailure(c, single)
			return
		}
		resp := predictResponse{Predictions: []domain.Label{single.Prediction.Label}}
		if single.Prediction.Probabilities != nil {
			resp.Probabilities = [][]float64{single.Prediction.Probabilities}
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	if result.AllCompleted() {
		resp := predictResponse{Predictions: result.Labels()}
		for _, r := range result.Results {
			if r.Prediction.Probabilities != nil {
				resp.Probabilities = append(resp.Probabilities, r.Prediction.Probabilities)
			}
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleDiagnose accepts a single record and returns the clinical
// reading of the predicted label.
func (s *Server) handleDiagnose(c *gin.Context) {
	var raw domain.RawRecord
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing JSON body"})
		return
	}

	result, err := s.orchestrator.Handle(c.Request.Context(), []domain.RawRecord{raw})
	if err != nil {
		s.renderPredictionError(c, err)
		return
	}

	single := result.Results[0]
	if !single.Completed() {
		s.renderRecordFailure(c, single)
		return
	}

	c.JSON(http.StatusOK, single.Prediction.Diagnosis)
}

// renderRecordFailure maps a failed single-record result to HTTP
// status. Normalization and validation failures are client errors;
// a prediction failure is a service error and carries its cause.
func (s *Server) renderRecordFailure(c *gin.Context, single *domain.RecordResult) {
	if single.Status == domain.StatusPredictionFailed {
		failure := single.Failure
		if failure.RequestID == "" {
			failure.RequestID = c.GetString("correlation_id")
		}
		s.logger.WithField("details", failure.Details).Error("Prediction failed for record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"errors": single.Errors})
}

// bindRecords decodes the request body as either one record or an
// array of records. Returns ok=false after writing an error response.
func (s *Server) bindRecords(c *gin.Context) (records []domain.RawRecord, isBatch bool, ok bool) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing JSON body"})
		return nil, false, false
	}

	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		if err := json.Unmarshal(body, &records); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record array"})
			return nil, false, false
		}
		if len(records) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empty record array"})
			return nil, false, false
		}
		if max := s.config.Model.MaxBatch; len(records) > max {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Batch too large",
				"limit": max,
			})
			return nil, false, false
		}
		return records, true, true
	}

	var single domain.RawRecord
	if err := json.Unmarshal(body, &single); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record object"})
		return nil, false, false
	}
	return []domain.RawRecord{single}, false, true
}

// renderPredictionError maps service-level failures to HTTP status.
// Schema and range violations never reach here; they are recovered
// into structured responses before any model invocation.
func (s *Server) renderPredictionError(c *gin.Context, err error) {
	requestID := c.GetString("correlation_id")

	if model.IsUnavailable(err) {
		s.logger.WithError(err).Error("Prediction unavailable: artifact cannot be loaded")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": domain.NewServiceError(
				domain.ErrCodeArtifactUnavailable,
				"prediction model is unavailable",
				err.Error(),
				requestID,
			),
		})
		return
	}

	s.logger.WithError(err).Error("Prediction failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": domain.NewServiceError(
			domain.ErrCodePredictionFailure,
			"prediction failed",
			err.Error(),
			requestID,
		),
	})
}

// firstNonSpace returns the first non-whitespace byte of a JSON body.
func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}

// feedbackRequest is the body for saving clinician feedback. Only
// prediction metadata crosses this surface, never clinical features.
type feedbackRequest struct {
	RequestID      string `json:"request_id" binding:"required"`
	Model          string `json:"model"`
	PredictedLabel int    `json:"predicted_label"`
	ClinicianLabel int    `json:"clinician_label"`
	Agreed         bool   `json:"agreed"`
	Notes          string `json:"notes"`
}

// handleSaveFeedback stores clinician feedback for a served prediction.
func (s *Server) handleSaveFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback body: request_id is required"})
		return
	}

	predicted := domain.Label(req.PredictedLabel)
	clinician := domain.Label(req.ClinicianLabel)
	if !predicted.IsValid() || !clinician.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Labels must be 0 or 1"})
		return
	}

	fb := &feedback.Feedback{
		RequestID:      req.RequestID,
		Model:          req.Model,
		PredictedLabel: predicted,
		ClinicianLabel: clinician,
		Agreed:         req.Agreed,
		Notes:          req.Notes,
	}

	if err := s.feedbackStore.Save(c.Request.Context(), fb); err != nil {
		s.logger.WithError(err).Error("Failed to save feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	c.JSON(http.StatusOK, fb)
}

// handleListFeedback returns stored feedback with pagination.
func (s *Server) handleListFeedback(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := s.feedbackStore.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list feedback"})
		return
	}

	total, err := s.feedbackStore.Count(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to count feedback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"feedback": entries,
	})
}
