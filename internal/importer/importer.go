package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/metrics"
	"github.com/nvalden/arsenal/internal/repository"
	"github.com/nvalden/arsenal/internal/validation"
)

// WeaponsSchemaPath is the JSON schema every catalog document must satisfy.
const WeaponsSchemaPath = "configs/schemas/weapons.schema.json"

// CacheInvalidator is notified after a successful import so cached
// definitions do not outlive the catalog state they came from.
type CacheInvalidator interface {
	InvalidateCache()
}

// Result summarizes what one ingest changed.
type Result struct {
	Created          int
	Updated          int
	Unchanged        int
	Deprecated       int
	InstancesAdded   int
	InstancesRemoved int
}

// Importer reconciles an external catalog document into the database.
type Importer interface {
	// Ingest loads, validates and applies the document at path. It returns
	// true when the catalog was updated, false when the version gate
	// rejected the document as not newer than the last import.
	Ingest(ctx context.Context, path string) (bool, error)
}

type importer struct {
	repo            repository.Catalog
	cache           CacheInvalidator
	validate        *validator.Validate
	schemaValidator *validation.SchemaValidator
}

// NewImporter creates an Importer. cache may be nil when no read service
// needs invalidation (tooling contexts).
func NewImporter(repo repository.Catalog, cache CacheInvalidator) Importer {
	return &importer{
		repo:            repo,
		cache:           cache,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		schemaValidator: validation.NewSchemaValidator(),
	}
}

func (i *importer) Ingest(ctx context.Context, path string) (bool, error) {
	log := logger.FromContext(ctx)

	doc, err := i.load(path)
	if err != nil {
		metrics.CatalogImports.WithLabelValues(metrics.OutcomeFailed).Inc()
		return false, err
	}

	declared, err := ParseVersion(doc.Version)
	if err != nil {
		metrics.CatalogImports.WithLabelValues(metrics.OutcomeFailed).Inc()
		return false, err
	}

	current, err := i.repo.GetCatalogVersion(ctx)
	if err != nil {
		metrics.CatalogImports.WithLabelValues(metrics.OutcomeFailed).Inc()
		return false, fmt.Errorf("failed to read catalog version: %w", err)
	}

	if current.LastImported != "" {
		last, err := ParseVersion(current.LastImported)
		if err != nil {
			// A corrupt stored version never blocks a re-import.
			log.Warn("stored catalog version is unparsable, importing anyway",
				"stored", current.LastImported, "error", err)
		} else if declared.Compare(last) <= 0 {
			log.Info("catalog document is not newer than last import, skipping",
				"declared", declared.String(), "last_imported", last.String())
			metrics.CatalogImports.WithLabelValues(metrics.OutcomeSkipped).Inc()
			return false, nil
		}
	}

	result, err := i.reconcile(ctx, doc, declared)
	if err != nil {
		metrics.CatalogImports.WithLabelValues(metrics.OutcomeFailed).Inc()
		return false, err
	}

	if i.cache != nil {
		i.cache.InvalidateCache()
	}

	metrics.CatalogImports.WithLabelValues(metrics.OutcomeImported).Inc()
	log.Info("catalog import completed",
		"version", declared.String(),
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"deprecated", result.Deprecated,
		"instances_added", result.InstancesAdded,
		"instances_removed", result.InstancesRemoved)
	return true, nil
}

// load reads and validates a catalog document without touching the database.
func (i *importer) load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document %s: %w", path, err)
	}

	if err := i.schemaValidator.ValidateBytes(data, WeaponsSchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogDocument, err)
	}

	if err := i.validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogDocument, err)
	}

	seen := make(map[string]bool, len(doc.Weapons))
	for idx := range doc.Weapons {
		id := doc.Weapons[idx].DefinitionID()
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate entry %s", domain.ErrCatalogDocument, id)
		}
		seen[id] = true
	}

	return &doc, nil
}

// reconcile applies the document inside one transaction. Any error leaves
// the catalog exactly as it was.
func (i *importer) reconcile(ctx context.Context, doc *Document, declared Version) (*Result, error) {
	log := logger.FromContext(ctx)

	tx, err := i.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	existing, err := tx.ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing definitions: %w", err)
	}
	existingByID := make(map[string]*domain.WeaponDefinition, len(existing))
	for idx := range existing {
		existingByID[existing[idx].ID] = &existing[idx]
	}

	result := &Result{}
	present := make(map[string]bool, len(doc.Weapons))

	for idx := range doc.Weapons {
		entry := &doc.Weapons[idx]
		def, err := entry.toDefinition(declared.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogDocument, err)
		}
		present[def.ID] = true

		if prev, ok := existingByID[def.ID]; ok {
			if err := i.syncExisting(ctx, tx, prev, def, result); err != nil {
				return nil, err
			}
		} else {
			if err := tx.InsertDefinition(ctx, def); err != nil {
				return nil, fmt.Errorf("failed to insert definition %s: %w", def.ID, err)
			}
			if err := tx.InsertInstances(ctx, def.ID, def.DefaultCount); err != nil {
				return nil, fmt.Errorf("failed to create instances of %s: %w", def.ID, err)
			}
			result.Created++
			result.InstancesAdded += def.DefaultCount
			metrics.CatalogDefinitionsWritten.WithLabelValues(metrics.ActionCreated).Inc()
			log.Info("created definition", "definition_id", def.ID, "copies", def.DefaultCount)
		}
	}

	// Definitions absent from the source are retired, never deleted.
	for id, prev := range existingByID {
		if present[id] || prev.Deprecated {
			continue
		}
		if err := tx.SetDeprecated(ctx, id, true); err != nil {
			return nil, fmt.Errorf("failed to deprecate %s: %w", id, err)
		}
		result.Deprecated++
		metrics.CatalogDefinitionsWritten.WithLabelValues(metrics.ActionDeprecated).Inc()
		log.Info("deprecated definition", "definition_id", id)
	}

	version := domain.CatalogVersion{
		LastImported:  declared.String(),
		LastCheckedAt: time.Now().UTC(),
	}
	if err := tx.UpsertCatalogVersion(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to record catalog version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return result, nil
}

// syncExisting updates a known definition in place and reconciles its
// instance count. The definition id never changes, so customization records
// and inventory references survive the update.
func (i *importer) syncExisting(ctx context.Context, tx repository.ImportTx, prev, def *domain.WeaponDefinition, result *Result) error {
	log := logger.FromContext(ctx)

	if definitionChanged(prev, def) {
		if err := tx.UpdateDefinition(ctx, def); err != nil {
			return fmt.Errorf("failed to update definition %s: %w", def.ID, err)
		}
		result.Updated++
		metrics.CatalogDefinitionsWritten.WithLabelValues(metrics.ActionUpdated).Inc()
		log.Info("updated definition", "definition_id", def.ID)
	} else {
		result.Unchanged++
	}

	current, err := tx.CountInstances(ctx, def.ID)
	if err != nil {
		return fmt.Errorf("failed to count instances of %s: %w", def.ID, err)
	}

	switch {
	case def.DefaultCount > current:
		if err := tx.InsertInstances(ctx, def.ID, def.DefaultCount-current); err != nil {
			return fmt.Errorf("failed to grow instances of %s: %w", def.ID, err)
		}
		result.InstancesAdded += def.DefaultCount - current
	case def.DefaultCount < current:
		surplus := current - def.DefaultCount
		removed, err := tx.DeleteUnreferencedInstances(ctx, def.ID, surplus)
		if err != nil {
			return fmt.Errorf("failed to shrink instances of %s: %w", def.ID, err)
		}
		result.InstancesRemoved += removed
		if removed < surplus {
			log.Warn("shrink kept instances referenced by inventories",
				"definition_id", def.ID, "requested", surplus, "removed", removed)
		}
	}
	return nil
}

// definitionChanged reports whether any mutable field differs. A formerly
// deprecated definition reappearing in the source counts as changed so it is
// revived.
func definitionChanged(prev, next *domain.WeaponDefinition) bool {
	return prev.Category != next.Category ||
		!meleeEqual(prev.Melee, next.Melee) ||
		!rangedEqual(prev.Ranged, next.Ranged) ||
		prev.Abilities != next.Abilities ||
		prev.DefaultCount != next.DefaultCount ||
		prev.MetadataVersion != next.MetadataVersion ||
		prev.Deprecated
}

func meleeEqual(a, b *domain.MeleeStats) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func rangedEqual(a, b *domain.RangedStats) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
