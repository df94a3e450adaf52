package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

// CatalogRepository implements repository.Catalog for PostgreSQL
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(pool *pgxpool.Pool) repository.Catalog {
	return &CatalogRepository{pool: pool}
}

const definitionColumns = `definition_id, weapon_name, weapon_set, deck_type, category,
	melee_dice, melee_damage, ranged_dice, ranged_damage, ranged_accuracy,
	loud, two_handed, single_use, default_count, metadata_version, deprecated,
	created_at, updated_at`

// GetDefinitionByID retrieves a definition by its deterministic id
func (r *CatalogRepository) GetDefinitionByID(ctx context.Context, id string) (*domain.WeaponDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM weapon_definitions WHERE definition_id = $1`
	def, err := scanDefinition(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}
	return def, nil
}

// GetDefinitionByNameAndSet retrieves a definition by its name and set,
// matched case-insensitively
func (r *CatalogRepository) GetDefinitionByNameAndSet(ctx context.Context, name, set string) (*domain.WeaponDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM weapon_definitions
		WHERE LOWER(weapon_name) = LOWER($1) AND LOWER(weapon_set) = LOWER($2)
		ORDER BY deprecated, definition_id
		LIMIT 1`
	def, err := scanDefinition(r.pool.QueryRow(ctx, query, name, set))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s|%s", domain.ErrDefinitionNotFound, name, set)
		}
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}
	return def, nil
}

// ListDefinitions retrieves every definition in the catalog
func (r *CatalogRepository) ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM weapon_definitions ORDER BY definition_id`
	return r.listDefinitions(ctx, query)
}

// ListDefinitionsByDeckType retrieves the definitions of one card pool
func (r *CatalogRepository) ListDefinitionsByDeckType(ctx context.Context, deckType domain.DeckType) ([]domain.WeaponDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM weapon_definitions
		WHERE deck_type = $1 ORDER BY definition_id`
	return r.listDefinitions(ctx, query, string(deckType))
}

// ListDefinitionsByCategory retrieves definitions by combat category
func (r *CatalogRepository) ListDefinitionsByCategory(ctx context.Context, category domain.Category) ([]domain.WeaponDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM weapon_definitions
		WHERE category = $1 ORDER BY definition_id`
	return r.listDefinitions(ctx, query, string(category))
}

func (r *CatalogRepository) listDefinitions(ctx context.Context, query string, args ...any) ([]domain.WeaponDefinition, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.WeaponDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	return defs, nil
}

// ListInstancesByDefinition retrieves the physical copies of a definition in copy order
func (r *CatalogRepository) ListInstancesByDefinition(ctx context.Context, definitionID string) ([]domain.CardInstance, error) {
	query := `SELECT instance_id, definition_id, copy_index, serial, created_at
		FROM card_instances WHERE definition_id = $1 ORDER BY copy_index`
	rows, err := r.pool.Query(ctx, query, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.CardInstance
	for rows.Next() {
		var inst domain.CardInstance
		if err := rows.Scan(&inst.ID, &inst.DefinitionID, &inst.CopyIndex, &inst.Serial, &inst.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan instance: %w", err)
		}
		instances = append(instances, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instances: %w", err)
	}
	return instances, nil
}

// CountInstances returns the number of physical copies of a definition
func (r *CatalogRepository) CountInstances(ctx context.Context, definitionID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM card_instances WHERE definition_id = $1`, definitionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count instances: %w", err)
	}
	return count, nil
}

// GetCatalogVersion retrieves the import bookkeeping row. A fresh database
// has no row yet; that is reported as an empty version, not an error.
func (r *CatalogRepository) GetCatalogVersion(ctx context.Context) (*domain.CatalogVersion, error) {
	var v domain.CatalogVersion
	err := r.pool.QueryRow(ctx,
		`SELECT last_imported, last_checked_at FROM catalog_versions WHERE singleton`).
		Scan(&v.LastImported, &v.LastCheckedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.CatalogVersion{}, nil
		}
		return nil, fmt.Errorf("failed to get catalog version: %w", err)
	}
	return &v, nil
}

// BeginImport starts the transaction an atomic reconciliation runs inside
func (r *CatalogRepository) BeginImport(ctx context.Context) (repository.ImportTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	return &importTx{tx: tx}, nil
}

// importTx implements repository.ImportTx over one pgx transaction
type importTx struct {
	tx pgx.Tx
}

func (t *importTx) ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM weapon_definitions ORDER BY definition_id`
	rows, err := t.tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.WeaponDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	return defs, nil
}

func (t *importTx) InsertDefinition(ctx context.Context, def *domain.WeaponDefinition) error {
	query := `INSERT INTO weapon_definitions (
			definition_id, weapon_name, weapon_set, deck_type, category,
			melee_dice, melee_damage, ranged_dice, ranged_damage, ranged_accuracy,
			loud, two_handed, single_use, default_count, metadata_version, deprecated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	md, mdam, rd, rdam, racc := statParams(def)
	_, err := t.tx.Exec(ctx, query,
		def.ID, def.Name, def.Set, string(def.DeckType), string(def.Category),
		md, mdam, rd, rdam, racc,
		def.Abilities.Loud, def.Abilities.TwoHanded, def.Abilities.SingleUse,
		def.DefaultCount, def.MetadataVersion, def.Deprecated)
	if err != nil {
		return fmt.Errorf("failed to insert definition %s: %w", def.ID, err)
	}
	return nil
}

func (t *importTx) UpdateDefinition(ctx context.Context, def *domain.WeaponDefinition) error {
	query := `UPDATE weapon_definitions SET
			category = $2,
			melee_dice = $3, melee_damage = $4,
			ranged_dice = $5, ranged_damage = $6, ranged_accuracy = $7,
			loud = $8, two_handed = $9, single_use = $10,
			default_count = $11, metadata_version = $12, deprecated = $13,
			updated_at = NOW()
		WHERE definition_id = $1`

	md, mdam, rd, rdam, racc := statParams(def)
	tag, err := t.tx.Exec(ctx, query,
		def.ID, string(def.Category),
		md, mdam, rd, rdam, racc,
		def.Abilities.Loud, def.Abilities.TwoHanded, def.Abilities.SingleUse,
		def.DefaultCount, def.MetadataVersion, def.Deprecated)
	if err != nil {
		return fmt.Errorf("failed to update definition %s: %w", def.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, def.ID)
	}
	return nil
}

func (t *importTx) SetDeprecated(ctx context.Context, definitionID string, deprecated bool) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE weapon_definitions SET deprecated = $2, updated_at = NOW() WHERE definition_id = $1`,
		definitionID, deprecated)
	if err != nil {
		return fmt.Errorf("failed to set deprecated on %s: %w", definitionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, definitionID)
	}
	return nil
}

func (t *importTx) CountInstances(ctx context.Context, definitionID string) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM card_instances WHERE definition_id = $1`, definitionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count instances: %w", err)
	}
	return count, nil
}

func (t *importTx) InsertInstances(ctx context.Context, definitionID string, n int) error {
	if n <= 0 {
		return nil
	}
	// Copy indices continue past the highest survivor, not the count. A
	// shrink can leave a referenced high-index copy behind, and counting
	// from the count would mint its serial a second time.
	query := `INSERT INTO card_instances (definition_id, copy_index, serial)
		SELECT $1, m.base + gs, $1 || ':' || (m.base + gs)
		FROM (SELECT COALESCE(MAX(copy_index), 0) AS base
		      FROM card_instances WHERE definition_id = $1) m,
		     generate_series(1, $2::int) AS gs`
	if _, err := t.tx.Exec(ctx, query, definitionID, n); err != nil {
		return fmt.Errorf("failed to insert instances for %s: %w", definitionID, err)
	}
	return nil
}

func (t *importTx) DeleteUnreferencedInstances(ctx context.Context, definitionID string, surplus int) (int, error) {
	if surplus <= 0 {
		return 0, nil
	}
	// Highest copy index first; instances held by inventory items survive.
	query := `DELETE FROM card_instances WHERE instance_id IN (
			SELECT ci.instance_id
			FROM card_instances ci
			LEFT JOIN inventory_items ii ON ii.instance_id = ci.instance_id
			WHERE ci.definition_id = $1 AND ii.item_id IS NULL
			ORDER BY ci.copy_index DESC
			LIMIT $2
		)`
	tag, err := t.tx.Exec(ctx, query, definitionID, surplus)
	if err != nil {
		return 0, fmt.Errorf("failed to delete surplus instances for %s: %w", definitionID, err)
	}
	return int(tag.RowsAffected()), nil
}

func (t *importTx) UpsertCatalogVersion(ctx context.Context, version domain.CatalogVersion) error {
	query := `INSERT INTO catalog_versions (singleton, last_imported, last_checked_at)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (singleton) DO UPDATE
		SET last_imported = EXCLUDED.last_imported, last_checked_at = EXCLUDED.last_checked_at`
	_, err := t.tx.Exec(ctx, query, version.LastImported,
		pgtype.Timestamptz{Time: version.LastCheckedAt, Valid: true})
	if err != nil {
		return fmt.Errorf("failed to upsert catalog version: %w", err)
	}
	return nil
}

func (t *importTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *importTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
