package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ybertrand/shopseo/internal/config"
	"github.com/ybertrand/shopseo/internal/llm"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/service"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "shopseo-worker",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	once := flag.Bool("once", false, "Process one batch and exit")
	interval := flag.Duration("interval", 0, "Poll interval override")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	pollInterval := cfg.Dispatcher.PollInterval
	if *interval > 0 {
		pollInterval = *interval
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories and services
	shopRepo := repository.NewShopRepository(db)
	productRepo := repository.NewProductRepository(db)
	jobRepo := repository.NewJobRepository(db)

	llmClient := llm.NewClient(&llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	generation := service.NewGenerationService(productRepo, shopRepo, llmClient, appLogger)
	dispatcher := service.NewDispatcher(jobRepo, generation, appLogger, &service.DispatcherConfig{
		BatchSize: cfg.Dispatcher.BatchSize,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.SetComponent(ctx, "worker")

	if *once {
		claimed, err := dispatcher.ProcessPending(ctx)
		if err != nil {
			appLogger.WithError(err).Fatal("Batch failed")
		}
		appLogger.WithFields(logger.Fields{"count": claimed}).Info("Batch done")
		return
	}

	appLogger.WithFields(logger.Fields{
		"poll_interval": pollInterval.String(),
	}).Info("Starting job worker")

	// Stop between batches on SIGINT/SIGTERM; an in-flight batch finishes.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		claimed, err := dispatcher.ProcessPending(ctx)
		if err != nil {
			logger.CtxError(ctx, "Batch failed: %v", err)
		} else if claimed > 0 {
			// Drain the queue without waiting when there is backlog.
			continue
		}

		select {
		case <-quit:
			appLogger.Info("Worker exiting")
			return
		case <-ticker.C:
		}
	}
}
