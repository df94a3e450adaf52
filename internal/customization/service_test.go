package customization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalden/arsenal/internal/catalog"
	"github.com/nvalden/arsenal/internal/domain"
)

func intPtr(n int) *int { return &n }

func newTestService(t *testing.T, defs ...domain.WeaponDefinition) (Service, *FakeRepository) {
	t.Helper()
	catalogRepo := catalog.NewFakeRepository()
	for _, def := range defs {
		catalogRepo.AddDefinition(def, def.DefaultCount)
	}
	repo := NewFakeRepository()
	return NewService(repo, catalog.NewService(catalogRepo)), repo
}

func testDef(name string, count int) domain.WeaponDefinition {
	return domain.WeaponDefinition{
		ID:           domain.DefinitionID(domain.DeckRegular, name, "core"),
		Name:         name,
		Set:          "core",
		DeckType:     domain.DeckRegular,
		Category:     domain.CategoryMelee,
		Melee:        &domain.MeleeStats{Dice: 3, Damage: 2},
		DefaultCount: count,
	}
}

func TestService_PresetLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	preset, err := svc.CreatePreset(ctx, "loud night", "everything loud")
	require.NoError(t, err)
	require.NotZero(t, preset.ID)

	_, err = svc.CreatePreset(ctx, "loud night", "duplicate")
	assert.ErrorIs(t, err, domain.ErrPresetExists)

	byName, err := svc.GetPresetByName(ctx, "loud night")
	require.NoError(t, err)
	assert.Equal(t, preset.ID, byName.ID)

	byName.Description = "updated"
	require.NoError(t, svc.UpdatePreset(ctx, byName))
	got, err := svc.GetPreset(ctx, preset.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	require.NoError(t, svc.DeletePreset(ctx, preset.ID))
	_, err = svc.GetPreset(ctx, preset.ID)
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
}

func TestService_CreateRecord_ChecksReferences(t *testing.T) {
	ctx := context.Background()
	def := testDef("machete", 2)
	svc, _ := newTestService(t, def)

	_, err := svc.CreateRecord(ctx, domain.CustomizationRecord{DefinitionID: "regular:ghost:core"})
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)

	missing := int64(99)
	_, err = svc.CreateRecord(ctx, domain.CustomizationRecord{DefinitionID: def.ID, PresetID: &missing})
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)

	record, err := svc.CreateRecord(ctx, domain.CustomizationRecord{DefinitionID: def.ID, Enabled: false})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
}

func TestService_ResolveEffective_Precedence(t *testing.T) {
	ctx := context.Background()
	def := testDef("machete", 3)
	svc, _ := newTestService(t, def)

	// No records: the definition default applies.
	eff, err := svc.ResolveEffective(ctx, def.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveCustomization{Enabled: true, Count: 3}, eff)

	// A global record overrides the default.
	_, err = svc.CreateRecord(ctx, domain.CustomizationRecord{
		DefinitionID:  def.ID,
		Enabled:       true,
		CountOverride: intPtr(5),
	})
	require.NoError(t, err)

	eff, err = svc.ResolveEffective(ctx, def.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveCustomization{Enabled: true, Count: 5}, eff)

	// A preset-scoped record beats the global one for that preset.
	preset, err := svc.CreatePreset(ctx, "quiet", "")
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, domain.CustomizationRecord{
		DefinitionID: def.ID,
		Enabled:      false,
		PresetID:     &preset.ID,
	})
	require.NoError(t, err)

	eff, err = svc.ResolveEffective(ctx, def.ID, &preset.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveCustomization{Enabled: false, Count: 3}, eff)

	// Without the preset the global record still governs.
	eff, err = svc.ResolveEffective(ctx, def.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveCustomization{Enabled: true, Count: 5}, eff)
}

func TestService_ResolveEffective_PriorityWithinScope(t *testing.T) {
	ctx := context.Background()
	def := testDef("machete", 3)
	svc, _ := newTestService(t, def)

	_, err := svc.CreateRecord(ctx, domain.CustomizationRecord{
		DefinitionID:  def.ID,
		Enabled:       true,
		CountOverride: intPtr(1),
		Priority:      1,
	})
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, domain.CustomizationRecord{
		DefinitionID:  def.ID,
		Enabled:       true,
		CountOverride: intPtr(7),
		Priority:      5,
	})
	require.NoError(t, err)

	eff, err := svc.ResolveEffective(ctx, def.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, eff.Count)
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	machete := testDef("machete", 2)
	bat := testDef("bat", 3)
	svc, _ := newTestService(t, machete, bat)

	preset, err := svc.CreatePreset(ctx, "tournament", "sanctioned list")
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, domain.CustomizationRecord{
		DefinitionID:  machete.ID,
		Enabled:       true,
		CountOverride: intPtr(4),
		Priority:      2,
		PresetID:      &preset.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, domain.CustomizationRecord{
		DefinitionID: bat.ID,
		Enabled:      false,
		PresetID:     &preset.ID,
	})
	require.NoError(t, err)

	data, err := svc.ExportPreset(ctx, preset.ID)
	require.NoError(t, err)

	// Import under rename: the original keeps its name.
	imported, err := svc.ImportPreset(ctx, data, ConflictRename)
	require.NoError(t, err)
	assert.Equal(t, "tournament (2)", imported.Name)

	records, err := svc.ListPresetRecords(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	eff, err := svc.ResolveEffective(ctx, machete.ID, &imported.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveCustomization{Enabled: true, Count: 4}, eff)

	eff, err = svc.ResolveEffective(ctx, bat.ID, &imported.ID)
	require.NoError(t, err)
	assert.False(t, eff.Enabled)
}

func TestService_ImportPreset_ConflictPolicies(t *testing.T) {
	ctx := context.Background()
	def := testDef("machete", 2)
	svc, _ := newTestService(t, def)

	preset, err := svc.CreatePreset(ctx, "tournament", "v1")
	require.NoError(t, err)
	data, err := svc.ExportPreset(ctx, preset.ID)
	require.NoError(t, err)

	t.Run("reject", func(t *testing.T) {
		_, err := svc.ImportPreset(ctx, data, ConflictReject)
		assert.ErrorIs(t, err, domain.ErrPresetExists)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := svc.ImportPreset(ctx, data, ConflictPolicy("merge"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("replace", func(t *testing.T) {
		replaced, err := svc.ImportPreset(ctx, data, ConflictReplace)
		require.NoError(t, err)
		assert.Equal(t, "tournament", replaced.Name)
		assert.NotEqual(t, preset.ID, replaced.ID)

		_, err = svc.GetPreset(ctx, preset.ID)
		assert.ErrorIs(t, err, domain.ErrPresetNotFound)
	})
}

func TestService_ImportPreset_SkipsUnknownDefinitions(t *testing.T) {
	ctx := context.Background()
	def := testDef("machete", 2)
	svc, _ := newTestService(t, def)

	doc := []byte(`{
		"name": "imported",
		"records": [
			{"definition_id": "` + def.ID + `", "enabled": true},
			{"definition_id": "regular:ghost:core", "enabled": true}
		]
	}`)

	preset, err := svc.ImportPreset(ctx, doc, ConflictReject)
	require.NoError(t, err)

	records, err := svc.ListPresetRecords(ctx, preset.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestService_ImportPreset_RejectsBadDocuments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.ImportPreset(ctx, []byte(`{not json`), ConflictReject)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ImportPreset(ctx, []byte(`{"records": []}`), ConflictReject)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
