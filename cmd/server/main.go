package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heart-risk-server/internal/api"
	"github.com/heart-risk-server/internal/config"
	"github.com/heart-risk-server/internal/feedback"
	"github.com/heart-risk-server/internal/logging"
	"github.com/heart-risk-server/internal/model"
	"github.com/heart-risk-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.NewLogger(&cfg.Logging)
	logger.Infof("Starting heart risk prediction server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Wire the prediction workflow
	gateway := model.NewGateway(logger, cfg.Model.Path)
	orchestrator := service.NewPredictorService(
		logger,
		service.NewNormalizerService(),
		service.NewValidatorService(),
		gateway,
	)

	// Eager artifact load is optional; a missing artifact degrades
	// prediction to unavailable while health stays up.
	if cfg.Model.EagerLoad {
		if err := gateway.Load(context.Background()); err != nil {
			logger.WithError(err).Warn("Model artifact not loadable at startup, serving degraded")
		}
	}

	var store feedback.Store
	if cfg.Feedback.Enabled {
		sqliteStore, err := feedback.NewSQLiteStore(cfg.Feedback.DBPath)
		if err != nil {
			log.Fatalf("Failed to open feedback store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	// Create server
	server, err := api.NewServer(logger, cfg, orchestrator, gateway, store)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}
