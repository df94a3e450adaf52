package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalden/arsenal/internal/domain"
)

func testDefinition(name string) domain.WeaponDefinition {
	id := domain.DefinitionID(domain.DeckRegular, name, "core")
	return domain.WeaponDefinition{
		ID:           id,
		Name:         name,
		Set:          "core",
		DeckType:     domain.DeckRegular,
		Category:     domain.CategoryMelee,
		Melee:        &domain.MeleeStats{Dice: 2, Damage: 3},
		DefaultCount: 2,
	}
}

func TestService_GetDefinition_CachesByID(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeRepository()
	def := testDefinition("crowbar")
	repo.AddDefinition(def, 2)

	svc := NewService(repo)

	got, err := svc.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, "crowbar", got.Name)

	// Mutate the backing store; the cached copy should still be served.
	repo.definitions[def.ID].Name = "renamed"

	got, err = svc.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, "crowbar", got.Name)

	// Invalidation exposes the new state.
	svc.InvalidateCache()
	got, err = svc.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}

func TestService_GetDefinition_NotFound(t *testing.T) {
	svc := NewService(NewFakeRepository())

	_, err := svc.GetDefinition(context.Background(), "regular:ghost:core")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestService_GetDefinitionByNameAndSet_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeRepository()
	def := testDefinition("Crowbar")
	repo.AddDefinition(def, 1)

	svc := NewService(repo)

	got, err := svc.GetDefinitionByNameAndSet(ctx, "crowbar", "CORE")
	require.NoError(t, err)
	assert.Equal(t, def.ID, got.ID)
}

func TestService_ListDefinitionsByDeckType(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeRepository()
	repo.AddDefinition(testDefinition("crowbar"), 1)

	ultra := testDefinition("railgun")
	ultra.ID = domain.DefinitionID(domain.DeckUltrared, "railgun", "core")
	ultra.DeckType = domain.DeckUltrared
	repo.AddDefinition(ultra, 1)

	svc := NewService(repo)

	regular, err := svc.ListDefinitionsByDeckType(ctx, domain.DeckRegular)
	require.NoError(t, err)
	require.Len(t, regular, 1)
	assert.Equal(t, "crowbar", regular[0].Name)

	_, err = svc.ListDefinitionsByDeckType(ctx, domain.DeckType("bogus"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_CountInstances(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeRepository()
	def := testDefinition("crowbar")
	repo.AddDefinition(def, 4)

	svc := NewService(repo)

	count, err := svc.CountInstances(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	instances, err := svc.ListInstances(ctx, def.ID)
	require.NoError(t, err)
	require.Len(t, instances, 4)
	assert.Equal(t, domain.InstanceSerial(def.ID, 1), instances[0].Serial)
}
