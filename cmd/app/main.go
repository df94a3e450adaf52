package main

import (
	"context"
	"os"
	"time"

	"github.com/nvalden/arsenal/internal/bootstrap"
	"github.com/nvalden/arsenal/internal/catalog"
	"github.com/nvalden/arsenal/internal/config"
	"github.com/nvalden/arsenal/internal/customization"
	"github.com/nvalden/arsenal/internal/database"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/migration"
)

// Pool sizing for the startup run.
const (
	maxConnections  = 10
	maxConnIdleTime = 5 * time.Minute
	maxConnLifetime = 30 * time.Minute
)

func main() {
	if err := run(); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.ValidateEnv(); err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx := logger.WithCorrelationID(context.Background(), logger.GenerateCorrelationID())

	pool, err := database.NewPool(cfg.GetDBConnString(), maxConnections, maxConnIdleTime, maxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.InitSchema(ctx, pool); err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(pool)
	catalogService := catalog.NewService(repos.Catalog)

	if err := bootstrap.SyncCatalog(ctx, repos.Catalog, catalogService, cfg.CatalogPath); err != nil {
		return err
	}

	migrator := migration.NewService(repos.Session, repos.Inventory, catalogService)
	if err := bootstrap.MigrateSessions(ctx, migrator); err != nil {
		return err
	}

	// Touch the customization layer so a broken presets table surfaces at
	// startup rather than on first deck load.
	customizationService := customization.NewService(repos.Customization, catalogService)
	presets, err := customizationService.ListPresets(ctx)
	if err != nil {
		return err
	}

	logger.Info("arsenal ready", "presets", len(presets))
	return nil
}
