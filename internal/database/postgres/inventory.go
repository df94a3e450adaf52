package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

// InventoryRepository implements repository.Inventory for PostgreSQL
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(pool *pgxpool.Pool) repository.Inventory {
	return &InventoryRepository{pool: pool}
}

const itemQuery = `SELECT ii.item_id, ii.session_id, ii.slot_type, ii.slot_index, ii.instance_id, ii.created_at,
		ci.instance_id, ci.definition_id, ci.copy_index, ci.serial, ci.created_at,
		` + prefixedDefinitionColumns + `
	FROM inventory_items ii
	JOIN card_instances ci ON ci.instance_id = ii.instance_id
	JOIN weapon_definitions wd ON wd.definition_id = ci.definition_id
	WHERE ii.session_id = $1
	ORDER BY ii.slot_type, ii.slot_index`

// ListItemsBySession retrieves a session's items with instances and definitions joined
func (r *InventoryRepository) ListItemsBySession(ctx context.Context, sessionID string) ([]domain.InventoryItem, error) {
	return listItems(ctx, r.pool, sessionID)
}

// CountItemsBySession returns the number of structured items a session owns
func (r *InventoryRepository) CountItemsBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_items WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// BeginMigration starts the transaction one session migration runs inside
func (r *InventoryRepository) BeginMigration(ctx context.Context) (repository.MigrationTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	return &migrationTx{tx: tx}, nil
}

// migrationTx implements repository.MigrationTx over one pgx transaction
type migrationTx struct {
	tx pgx.Tx
}

func (t *migrationTx) InsertItem(ctx context.Context, item *domain.InventoryItem) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO inventory_items (session_id, slot_type, slot_index, instance_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING item_id`,
		item.SessionID, string(item.SlotType), item.SlotIndex, item.InstanceID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return id, nil
}

func (t *migrationTx) ListItemsBySession(ctx context.Context, sessionID string) ([]domain.InventoryItem, error) {
	return listItems(ctx, t.tx, sessionID)
}

func (t *migrationTx) FindFreeInstance(ctx context.Context, definitionID string) (*domain.CardInstance, error) {
	query := `SELECT ci.instance_id, ci.definition_id, ci.copy_index, ci.serial, ci.created_at
		FROM card_instances ci
		LEFT JOIN inventory_items ii ON ii.instance_id = ci.instance_id
		WHERE ci.definition_id = $1 AND ii.item_id IS NULL
		ORDER BY ci.copy_index
		LIMIT 1`
	var inst domain.CardInstance
	err := t.tx.QueryRow(ctx, query, definitionID).
		Scan(&inst.ID, &inst.DefinitionID, &inst.CopyIndex, &inst.Serial, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find free instance: %w", err)
	}
	return &inst, nil
}

func (t *migrationTx) InsertInstance(ctx context.Context, definitionID string) (*domain.CardInstance, error) {
	query := `INSERT INTO card_instances (definition_id, copy_index, serial)
		SELECT $1, next_idx, $1 || ':' || next_idx
		FROM (SELECT COALESCE(MAX(copy_index), 0) + 1 AS next_idx
		      FROM card_instances WHERE definition_id = $1) n
		RETURNING instance_id, definition_id, copy_index, serial, created_at`
	var inst domain.CardInstance
	err := t.tx.QueryRow(ctx, query, definitionID).
		Scan(&inst.ID, &inst.DefinitionID, &inst.CopyIndex, &inst.Serial, &inst.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ad hoc instance for %s: %w", definitionID, err)
	}
	return &inst, nil
}

func (t *migrationTx) MarkSessionMigrated(ctx context.Context, sessionID string, at time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE sessions SET migrated_at = $2, updated_at = NOW() WHERE session_id = $1`,
		sessionID, at)
	if err != nil {
		return fmt.Errorf("failed to mark session migrated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return nil
}

func (t *migrationTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *migrationTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// querier covers the pool and transaction query surfaces listItems needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listItems(ctx context.Context, q querier, sessionID string) ([]domain.InventoryItem, error) {
	rows, err := q.Query(ctx, itemQuery, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory items: %w", err)
	}
	return items, nil
}
