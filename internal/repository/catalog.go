package repository

import (
	"context"

	"github.com/nvalden/arsenal/internal/domain"
)

// Catalog defines the interface for weapon catalog persistence
type Catalog interface {
	// Definition lookups
	GetDefinitionByID(ctx context.Context, id string) (*domain.WeaponDefinition, error)
	GetDefinitionByNameAndSet(ctx context.Context, name, set string) (*domain.WeaponDefinition, error)
	ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error)
	ListDefinitionsByDeckType(ctx context.Context, deckType domain.DeckType) ([]domain.WeaponDefinition, error)
	ListDefinitionsByCategory(ctx context.Context, category domain.Category) ([]domain.WeaponDefinition, error)

	// Instance reads
	ListInstancesByDefinition(ctx context.Context, definitionID string) ([]domain.CardInstance, error)
	CountInstances(ctx context.Context, definitionID string) (int, error)

	// Import bookkeeping
	GetCatalogVersion(ctx context.Context) (*domain.CatalogVersion, error)

	// BeginImport starts the transaction an atomic catalog reconciliation
	// runs inside. Readers never observe a partially applied import.
	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx is the write surface of one atomic catalog import
type ImportTx interface {
	ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error)
	InsertDefinition(ctx context.Context, def *domain.WeaponDefinition) error
	UpdateDefinition(ctx context.Context, def *domain.WeaponDefinition) error
	SetDeprecated(ctx context.Context, definitionID string, deprecated bool) error

	CountInstances(ctx context.Context, definitionID string) (int, error)
	// InsertInstances creates n new copies numbered from the definition's
	// highest existing copy index plus one. Surviving high-index copies
	// (a shrink never deletes referenced instances) keep their serials
	// unique.
	InsertInstances(ctx context.Context, definitionID string, n int) error
	// DeleteUnreferencedInstances removes surplus copies of a definition,
	// highest copy index first, skipping any instance a live inventory item
	// references. Returns how many were removed.
	DeleteUnreferencedInstances(ctx context.Context, definitionID string, surplus int) (int, error)

	UpsertCatalogVersion(ctx context.Context, version domain.CatalogVersion) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
