package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/related-nodes/app/api"
	"github.com/lysyi3m/related-nodes/app/block"
	"github.com/lysyi3m/related-nodes/app/catalog"
	"github.com/lysyi3m/related-nodes/app/cfg"
	"github.com/lysyi3m/related-nodes/app/database"
	"github.com/lysyi3m/related-nodes/app/importer"
	"github.com/lysyi3m/related-nodes/app/related"
	"github.com/lysyi3m/related-nodes/app/render"
	"github.com/lysyi3m/related-nodes/app/tasks"
	"github.com/lysyi3m/related-nodes/app/token"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		return
	}

	if appConfig.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Related Nodes server", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appConfig.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, changed, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "schema_version", version, "migrated", changed)

	nodeRepo := database.NewNodeRepository(db)
	counterRepo := database.NewCounterRepository(db)
	catalogRepo := database.NewCatalogRepository(db)

	contentCatalog, err := catalog.Load(appConfig.CatalogFile)
	if err != nil {
		slog.Error("Failed to load catalog", "path", appConfig.CatalogFile, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	syncTask := tasks.NewSyncCatalogTask(contentCatalog, catalogRepo)
	syncTask.Start()
	if err := syncTask.Execute(ctx); err != nil {
		slog.Error("Failed to sync catalog", "error", err)
		os.Exit(1)
	}

	blocks := block.NewConfigCache(appConfig.BlocksDir)
	if err := blocks.Run(); err != nil {
		slog.Error("Failed to load block configurations", "dir", appConfig.BlocksDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Block configurations loaded", "count", blocks.GetConfigCount())

	validateBlocks(ctx, blocks, catalogRepo, nodeRepo)

	httpClient := &http.Client{Timeout: 60 * time.Second}
	feedImporter := importer.NewImporter(httpClient, importer.NewParser(), importer.NewFilterer(), nodeRepo, appConfig.UserAgent)

	scheduler := tasks.NewScheduler(contentCatalog, counterRepo, feedImporter,
		time.Duration(appConfig.SchedulerInterval)*time.Second, appConfig.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	urls := render.NodeURLs(appConfig.BaseUrl)
	builder := render.NewBuilder(appConfig.ModuleName, token.NewReplacer(), catalogRepo,
		render.NewNodeViewBuilder(nodeRepo, urls), urls, slog.Default())

	apiHandler := api.NewHandler(blocks, nodeRepo, counterRepo, catalogRepo,
		related.NewSelector(nodeRepo, slog.Default()), builder, scheduler)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey, appConfig.Version)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port, "api_enabled", appConfig.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Related Nodes server shutdown complete")
}

// validateBlocks logs the problems of every loaded block. Invalid blocks stay
// loaded so they can be inspected through the API.
func validateBlocks(ctx context.Context, blocks *block.ConfigCache, catalogRepo database.CatalogRepository, nodeRepo database.NodeRepository) {
	knownTypes, err := catalogRepo.GetContentTypeNames(ctx)
	if err != nil {
		slog.Warn("Skipping block validation", "error", err)
		return
	}

	for _, name := range blocks.GetConfigNames() {
		blockConfig, err := blocks.GetConfig(name)
		if err != nil {
			continue
		}
		for _, problem := range block.Errors(blockConfig.ValidateReferences(ctx, knownTypes, nodeRepo)) {
			slog.Warn("Block configuration problem", "block", name, "problem", problem)
		}
	}
}
