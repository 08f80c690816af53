package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/syncops/notion-github-sync/internal/api/rest"
	"github.com/syncops/notion-github-sync/internal/config"
	"github.com/syncops/notion-github-sync/internal/github"
	"github.com/syncops/notion-github-sync/internal/notion"
	"github.com/syncops/notion-github-sync/internal/store"
	"github.com/syncops/notion-github-sync/internal/sync"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.DryRun {
		logger.Info("dry-run mode enabled: no mutating calls will be made")
	}

	// Open idempotency store
	mappings, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open idempotency store", zap.Error(err))
	}
	defer mappings.Close()
	if err := mappings.InitSchema(); err != nil {
		logger.Fatal("failed to initialize idempotency store", zap.Error(err))
	}

	// Create clients
	notionClient := notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID, cfg.DryRun, logger)
	githubClient := github.NewClient(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo, cfg.DryRun, logger)
	projectsClient := github.NewProjectsClient(cfg.GithubToken, cfg.DryRun, logger)
	fieldCache := github.NewFieldCache(projectsClient)

	// Create orchestrator and poller
	orchestrator := sync.NewOrchestrator(
		notionClient,
		githubClient,
		projectsClient,
		fieldCache,
		mappings,
		sync.ProjectConfig{
			ID:             cfg.ProjectID,
			StatusFieldID:  cfg.ProjectStatusFieldID,
			StatusOptionID: cfg.ProjectStatusOptionID,
			CreateDraft:    cfg.CreateDraft,
		},
		cfg.DryRun,
		logger,
	)
	poller := sync.NewPoller(notionClient, orchestrator, cfg.PollInterval, logger)

	// Setup REST API
	restHandler := rest.NewHandler(cfg, poller, logger)
	router := chi.NewRouter()
	restHandler.RegisterRoutes(router)

	restAddr := fmt.Sprintf(":%s", cfg.RESTPort)
	restServer := &http.Server{
		Addr:    restAddr,
		Handler: router,
	}

	go func() {
		logger.Info("starting REST API server", zap.String("address", restAddr))
		if err := restServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start REST server", zap.Error(err))
		}
	}()

	// Start poller
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go poller.Run(ctx)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	// Shutdown poller
	cancel()

	// Shutdown server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	restServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
