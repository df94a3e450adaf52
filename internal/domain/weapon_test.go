package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionID(t *testing.T) {
	tests := []struct {
		name     string
		deckType DeckType
		weapon   string
		set      string
		expected string
	}{
		{"starting pistol", DeckStarting, "Pistol", "Core", "starting:Pistol:Core"},
		{"regular fire axe", DeckRegular, "Fire Axe", "Core", "regular:Fire Axe:Core"},
		{"ultrared expansion", DeckUltrared, "Railgun", "Outbreak", "ultrared:Railgun:Outbreak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefinitionID(tt.deckType, tt.weapon, tt.set)
			assert.Equal(t, tt.expected, got)
			// Identity must be stable across repeated computation
			assert.Equal(t, got, DefinitionID(tt.deckType, tt.weapon, tt.set))
		})
	}
}

func TestWeaponDefinition_ValidateStats(t *testing.T) {
	melee := &MeleeStats{Dice: 2, Damage: 2}
	ranged := &RangedStats{Dice: 3, Damage: 1, Accuracy: 4}

	tests := []struct {
		name    string
		def     WeaponDefinition
		wantErr bool
	}{
		{"melee ok", WeaponDefinition{ID: "a", Category: CategoryMelee, Melee: melee}, false},
		{"ranged ok", WeaponDefinition{ID: "b", Category: CategoryRanged, Ranged: ranged}, false},
		{"both ok", WeaponDefinition{ID: "c", Category: CategoryBoth, Melee: melee, Ranged: ranged}, false},
		{"melee with ranged payload", WeaponDefinition{ID: "d", Category: CategoryMelee, Melee: melee, Ranged: ranged}, true},
		{"ranged missing payload", WeaponDefinition{ID: "e", Category: CategoryRanged}, true},
		{"both missing melee", WeaponDefinition{ID: "f", Category: CategoryBoth, Ranged: ranged}, true},
		{"unknown category", WeaponDefinition{ID: "g", Category: "psychic", Melee: melee}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.ValidateStats()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDefinition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeaponDefinition_CombatAccessors(t *testing.T) {
	dual := WeaponDefinition{
		Category: CategoryBoth,
		Melee:    &MeleeStats{Dice: 2, Damage: 3},
		Ranged:   &RangedStats{Dice: 4, Damage: 1, Accuracy: 5},
	}

	assert.Equal(t, 4, dual.Dice())
	assert.Equal(t, 3, dual.Damage())

	acc, ok := dual.Accuracy()
	assert.True(t, ok)
	assert.Equal(t, 5, acc)

	crowbar := WeaponDefinition{Category: CategoryMelee, Melee: &MeleeStats{Dice: 1, Damage: 2}}
	_, ok = crowbar.Accuracy()
	assert.False(t, ok)
}

func TestInventoryItem_Equipped(t *testing.T) {
	active := InventoryItem{SlotType: SlotActive}
	backpack := InventoryItem{SlotType: SlotBackpack}

	assert.True(t, active.Equipped())
	assert.False(t, backpack.Equipped())
}
