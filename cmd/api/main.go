package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ybertrand/shopseo/internal/api"
	"github.com/ybertrand/shopseo/internal/config"
	"github.com/ybertrand/shopseo/internal/llm"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/search"
	"github.com/ybertrand/shopseo/internal/service"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      "json",
		ServiceName: "shopseo-api",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	shopRepo := repository.NewShopRepository(db)
	productRepo := repository.NewProductRepository(db)
	diagnosticRepo := repository.NewDiagnosticRepository(db)
	resolutionRepo := repository.NewResolutionRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Initialize clients
	llmClient := llm.NewClient(&llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	searchClient := search.NewClient(&search.Config{
		APIKey:        cfg.Search.APIKey,
		Endpoint:      cfg.Search.Endpoint,
		ScrapeTimeout: cfg.Search.ScrapeTimeout,
	})

	// Initialize services
	generation := service.NewGenerationService(productRepo, shopRepo, llmClient, appLogger)
	diagnostics := service.NewDiagnosticService(productRepo, diagnosticRepo, appLogger)
	resolver := service.NewResolver(resolutionRepo, generation, appLogger, &service.ResolverConfig{
		BatchSize:      cfg.Resolver.BatchSize,
		BatchPause:     cfg.Resolver.BatchPause,
		RateLimitPause: cfg.Resolver.RateLimitPause,
	})
	sync := service.NewSyncService(productRepo, shopRepo, appLogger)

	// Setup router
	router := api.SetupRouter(&api.Services{
		Diagnostics:    diagnostics,
		Resolver:       resolver,
		Sync:           sync,
		Search:         searchClient,
		DiagnosticRepo: diagnosticRepo,
		ResolutionRepo: resolutionRepo,
		JobRepo:        jobRepo,
		ProductRepo:    productRepo,
		ShopRepo:       shopRepo,
	}, &cfg.Server, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
