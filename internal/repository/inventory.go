package repository

import (
	"context"
	"time"

	"github.com/nvalden/arsenal/internal/domain"
)

// Inventory defines the interface for structured inventory persistence
type Inventory interface {
	ListItemsBySession(ctx context.Context, sessionID string) ([]domain.InventoryItem, error)
	CountItemsBySession(ctx context.Context, sessionID string) (int, error)

	// BeginMigration starts the transaction one session's legacy-loadout
	// migration runs inside. Rolling back discards every item and ad-hoc
	// instance created during the attempt.
	BeginMigration(ctx context.Context) (MigrationTx, error)
}

// MigrationTx is the write surface of one session migration attempt
type MigrationTx interface {
	InsertItem(ctx context.Context, item *domain.InventoryItem) (int64, error)
	ListItemsBySession(ctx context.Context, sessionID string) ([]domain.InventoryItem, error)

	// FindFreeInstance returns an instance of the definition not referenced
	// by any inventory item, or nil when every copy is taken.
	FindFreeInstance(ctx context.Context, definitionID string) (*domain.CardInstance, error)
	// InsertInstance creates one ad-hoc copy with the next free copy index.
	InsertInstance(ctx context.Context, definitionID string) (*domain.CardInstance, error)

	MarkSessionMigrated(ctx context.Context, sessionID string, at time.Time) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
