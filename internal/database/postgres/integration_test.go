package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

func testDefinition(deckType domain.DeckType, name, set string, count int) *domain.WeaponDefinition {
	return &domain.WeaponDefinition{
		ID:           domain.DefinitionID(deckType, name, set),
		Name:         name,
		Set:          set,
		DeckType:     deckType,
		Category:     domain.CategoryMelee,
		Melee:        &domain.MeleeStats{Dice: 2, Damage: 2},
		DefaultCount: count,
	}
}

func seedDefinition(t *testing.T, repo repository.Catalog, def *domain.WeaponDefinition) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginImport(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertDefinition(ctx, def))
	require.NoError(t, tx.InsertInstances(ctx, def.ID, def.DefaultCount))
	require.NoError(t, tx.Commit(ctx))
}

func TestCatalogRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewCatalogRepository(pool)

	pistol := testDefinition(domain.DeckStarting, "Pistol", "Core", 3)
	pistol.Category = domain.CategoryRanged
	pistol.Melee = nil
	pistol.Ranged = &domain.RangedStats{Dice: 3, Damage: 1, Accuracy: 4}
	seedDefinition(t, repo, pistol)

	crowbar := testDefinition(domain.DeckStarting, "Crowbar", "Core", 2)
	seedDefinition(t, repo, crowbar)

	t.Run("lookup by id round-trips the category payload", func(t *testing.T) {
		got, err := repo.GetDefinitionByID(ctx, "starting:Pistol:Core")
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryRanged, got.Category)
		require.NotNil(t, got.Ranged)
		assert.Equal(t, 4, got.Ranged.Accuracy)
		assert.Nil(t, got.Melee)
	})

	t.Run("lookup by name and set is case-insensitive", func(t *testing.T) {
		got, err := repo.GetDefinitionByNameAndSet(ctx, "crowbar", "CORE")
		require.NoError(t, err)
		assert.Equal(t, "starting:Crowbar:Core", got.ID)
	})

	t.Run("missing definition yields sentinel error", func(t *testing.T) {
		_, err := repo.GetDefinitionByID(ctx, "starting:Ghost:Core")
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("instances were created with contiguous copy indices", func(t *testing.T) {
		instances, err := repo.ListInstancesByDefinition(ctx, pistol.ID)
		require.NoError(t, err)
		require.Len(t, instances, 3)
		for i, inst := range instances {
			assert.Equal(t, i+1, inst.CopyIndex)
			assert.Equal(t, domain.InstanceSerial(pistol.ID, i+1), inst.Serial)
		}
	})

	t.Run("rollback leaves no trace", func(t *testing.T) {
		tx, err := repo.BeginImport(ctx)
		require.NoError(t, err)
		ghost := testDefinition(domain.DeckRegular, "Ghost Gun", "Core", 1)
		require.NoError(t, tx.InsertDefinition(ctx, ghost))
		require.NoError(t, tx.Rollback(ctx))

		_, err = repo.GetDefinitionByID(ctx, ghost.ID)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("catalog version upserts into a single row", func(t *testing.T) {
		v, err := repo.GetCatalogVersion(ctx)
		require.NoError(t, err)
		assert.Empty(t, v.LastImported)

		tx, err := repo.BeginImport(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.UpsertCatalogVersion(ctx, domain.CatalogVersion{LastImported: "1.2.0", LastCheckedAt: time.Now()}))
		require.NoError(t, tx.Commit(ctx))

		tx, err = repo.BeginImport(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.UpsertCatalogVersion(ctx, domain.CatalogVersion{LastImported: "1.3.0", LastCheckedAt: time.Now()}))
		require.NoError(t, tx.Commit(ctx))

		v, err = repo.GetCatalogVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.3.0", v.LastImported)
	})
}

func TestCatalogRepository_DeleteUnreferencedInstances(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	catalogRepo := NewCatalogRepository(pool)
	inventoryRepo := NewInventoryRepository(pool)
	sessionRepo := NewSessionRepository(pool)

	axe := testDefinition(domain.DeckRegular, "Fire Axe", "Core", 4)
	seedDefinition(t, catalogRepo, axe)

	sessionID, err := sessionRepo.CreateSession(ctx, &domain.Session{Name: "camp"})
	require.NoError(t, err)

	// Occupy copy #1 with an inventory item.
	mtx, err := inventoryRepo.BeginMigration(ctx)
	require.NoError(t, err)
	inst, err := mtx.FindFreeInstance(ctx, axe.ID)
	require.NoError(t, err)
	require.NotNil(t, inst)
	_, err = mtx.InsertItem(ctx, &domain.InventoryItem{
		SessionID:  sessionID,
		SlotType:   domain.SlotActive,
		SlotIndex:  0,
		InstanceID: inst.ID,
	})
	require.NoError(t, err)
	require.NoError(t, mtx.Commit(ctx))

	// Ask to shrink by 4; only the 3 unreferenced copies may go.
	tx, err := catalogRepo.BeginImport(ctx)
	require.NoError(t, err)
	removed, err := tx.DeleteUnreferencedInstances(ctx, axe.ID, 4)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, 3, removed)
	count, err := catalogRepo.CountInstances(ctx, axe.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInventoryRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	catalogRepo := NewCatalogRepository(pool)
	inventoryRepo := NewInventoryRepository(pool)
	sessionRepo := NewSessionRepository(pool)

	bat := testDefinition(domain.DeckStarting, "Baseball Bat", "Core", 1)
	seedDefinition(t, catalogRepo, bat)

	sessionID, err := sessionRepo.CreateSession(ctx, &domain.Session{Name: "mall run"})
	require.NoError(t, err)

	tx, err := inventoryRepo.BeginMigration(ctx)
	require.NoError(t, err)

	inst, err := tx.FindFreeInstance(ctx, bat.ID)
	require.NoError(t, err)
	require.NotNil(t, inst)

	_, err = tx.InsertItem(ctx, &domain.InventoryItem{
		SessionID:  sessionID,
		SlotType:   domain.SlotActive,
		SlotIndex:  0,
		InstanceID: inst.ID,
	})
	require.NoError(t, err)

	// Every default copy is taken now; the next caller gets an ad-hoc copy.
	free, err := tx.FindFreeInstance(ctx, bat.ID)
	require.NoError(t, err)
	assert.Nil(t, free)

	adHoc, err := tx.InsertInstance(ctx, bat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, adHoc.CopyIndex)
	assert.Equal(t, domain.InstanceSerial(bat.ID, 2), adHoc.Serial)

	now := time.Now()
	require.NoError(t, tx.MarkSessionMigrated(ctx, sessionID, now))
	require.NoError(t, tx.Commit(ctx))

	items, err := inventoryRepo.ListItemsBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Equipped())
	require.NotNil(t, items[0].Instance)
	require.NotNil(t, items[0].Instance.Definition)
	assert.Equal(t, bat.ID, items[0].Instance.Definition.ID)

	session, err := sessionRepo.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, session.Migrated())
}

func TestCustomizationRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	catalogRepo := NewCatalogRepository(pool)
	repo := NewCustomizationRepository(pool)

	machete := testDefinition(domain.DeckRegular, "Machete", "Core", 2)
	seedDefinition(t, catalogRepo, machete)

	presetID, err := repo.CreatePreset(ctx, &domain.Preset{Name: "house rules", Description: "fewer blades"})
	require.NoError(t, err)

	t.Run("duplicate preset name is rejected", func(t *testing.T) {
		_, err := repo.CreatePreset(ctx, &domain.Preset{Name: "house rules"})
		assert.ErrorIs(t, err, domain.ErrPresetExists)
	})

	override := 1
	recordID, err := repo.CreateRecord(ctx, &domain.CustomizationRecord{
		DefinitionID:  machete.ID,
		Enabled:       true,
		CountOverride: &override,
		Priority:      5,
		PresetID:      &presetID,
	})
	require.NoError(t, err)

	_, err = repo.CreateRecord(ctx, &domain.CustomizationRecord{
		DefinitionID: machete.ID,
		Enabled:      false,
	})
	require.NoError(t, err)

	t.Run("records are scoped by preset", func(t *testing.T) {
		presetRecords, err := repo.ListPresetRecords(ctx, presetID)
		require.NoError(t, err)
		require.Len(t, presetRecords, 1)
		assert.Equal(t, recordID, presetRecords[0].ID)
		require.NotNil(t, presetRecords[0].CountOverride)
		assert.Equal(t, 1, *presetRecords[0].CountOverride)

		globals, err := repo.ListGlobalRecords(ctx)
		require.NoError(t, err)
		require.Len(t, globals, 1)
		assert.Nil(t, globals[0].PresetID)
	})

	t.Run("deleting the preset cascades to its records", func(t *testing.T) {
		require.NoError(t, repo.DeletePreset(ctx, presetID))

		all, err := repo.ListRecordsByDefinition(ctx, machete.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Nil(t, all[0].PresetID)
	})
}
