package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Simonerrror/rubik-motion-lab/internal/catalog"
	"github.com/Simonerrror/rubik-motion-lab/internal/config"
	"github.com/Simonerrror/rubik-motion-lab/internal/db"
	"github.com/Simonerrror/rubik-motion-lab/internal/queue"
	"github.com/Simonerrror/rubik-motion-lab/internal/render"
)

// loadConfig resolves file, environment and default configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openDB connects and applies the schema.
func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return database, nil
}

func newCatalogService(database *db.DB, logger *zap.Logger) *catalog.Service {
	return &catalog.Service{Store: database, Logger: logger}
}

func newQueueService(database *db.DB, cfg *config.Config, logger *zap.Logger) *queue.Service {
	return &queue.Service{
		Store:           database,
		Cache:           &render.Cache{Store: database},
		Logger:          logger,
		OrphanThreshold: cfg.OrphanThresholdDuration(),
	}
}

func newWorker(database *db.DB, cfg *config.Config, logger *zap.Logger) *queue.Worker {
	return &queue.Worker{
		Store: database,
		Cache: &render.Cache{Store: database},
		Renderer: &render.ManimRenderer{
			Bin:       cfg.ManimBin,
			SceneFile: cfg.SceneFile,
			SceneName: cfg.SceneName,
			MediaRoot: cfg.MediaRoot,
			Logger:    logger,
		},
		Logger:          logger,
		PollInterval:    cfg.PollIntervalDuration(),
		RenderTimeout:   cfg.RenderTimeoutDuration(),
		OrphanThreshold: cfg.OrphanThresholdDuration(),
	}
}
