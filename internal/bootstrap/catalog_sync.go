package bootstrap

import (
	"context"
	"fmt"

	"github.com/nvalden/arsenal/internal/importer"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/migration"
	"github.com/nvalden/arsenal/internal/repository"
)

// SyncCatalog ingests the weapon catalog document at path into the
// database. The importer's version gate makes this an idempotent startup
// step: an unchanged or older document writes nothing.
func SyncCatalog(ctx context.Context, repo repository.Catalog, cache importer.CacheInvalidator, path string) error {
	logger.Info("Syncing weapon catalog from JSON config...", "path", path)

	imp := importer.NewImporter(repo, cache)
	changed, err := imp.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to sync weapon catalog: %w", err)
	}

	if !changed {
		logger.Info("Weapon catalog unchanged, sync skipped")
	}
	return nil
}

// MigrateSessions converts every session's legacy loadout text into
// structured inventory items. Per-session failures are logged by the
// migrator and never abort startup; only a failure to enumerate sessions is
// fatal.
func MigrateSessions(ctx context.Context, svc migration.Service) error {
	logger.Info("Migrating legacy session loadouts...")

	reports, err := svc.MigrateAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate sessions: %w", err)
	}

	migrated, skipped, failed := 0, 0, 0
	for _, r := range reports {
		switch {
		case r.Err != nil:
			failed++
		case r.Report != nil && r.Report.AlreadyMigrated:
			skipped++
		default:
			migrated++
		}
	}
	logger.Info("Session migration completed",
		"migrated", migrated, "already_migrated", skipped, "failed", failed)
	return nil
}
