// Package api implements the HTTP front-end of the prediction service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
	"github.com/heart-risk-server/internal/feedback"
	"github.com/heart-risk-server/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	logger        *logrus.Logger
	config        *domain.Config
	orchestrator  domain.Orchestrator
	gateway       domain.ModelGateway
	feedbackStore feedback.Store
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. feedbackStore may be
// nil when the feedback surface is disabled.
func NewServer(
	logger *logrus.Logger,
	config *domain.Config,
	orchestrator domain.Orchestrator,
	gateway domain.ModelGateway,
	feedbackStore feedback.Store,
) (*Server, error) {
	// Set Gin mode based on environment
	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	if config.Server.RequestTimeout > 0 {
		router.Use(middleware.RequestTimeout(config.Server.RequestTimeout))
	}

	if config.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(logger, config.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		router.Use(limiter.Middleware())
	}

	server := &Server{
		logger:        logger,
		config:        config,
		orchestrator:  orchestrator,
		gateway:       gateway,
		feedbackStore: feedbackStore,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server, nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/metadata", s.handleMetadata)
		v1.POST("/predict", s.handlePredict)
		v1.POST("/diagnose", s.handleDiagnose)

		if s.feedbackStore != nil {
			v1.POST("/feedback", s.handleSaveFeedback)
			v1.GET("/feedback", s.handleListFeedback)
		}
	}
}
