package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nvalden/arsenal/internal/config"
	"github.com/nvalden/arsenal/internal/database"
	"github.com/nvalden/arsenal/internal/database/postgres"
	"github.com/nvalden/arsenal/internal/importer"
)

type IngestCommand struct{}

func (c *IngestCommand) Name() string {
	return "ingest"
}

func (c *IngestCommand) Description() string {
	return "Run a catalog import from the weapons document against the database"
}

func (c *IngestCommand) Run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := cfg.CatalogPath
	if len(args) > 0 {
		path = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(cfg.GetDBConnString(), 4, 5*time.Minute, 30*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewCatalogRepository(pool)

	PrintInfo("Ingesting %s...", path)

	// No read service is running here, so there is no cache to invalidate.
	imported, err := importer.NewImporter(repo, nil).Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if !imported {
		PrintWarning("Catalog is already at or ahead of the document version, nothing to do")
		return nil
	}

	PrintSuccess("Catalog import complete")
	return nil
}
