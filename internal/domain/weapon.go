package domain

import (
	"fmt"
	"time"
)

// DeckType identifies one of the three independent card pools.
type DeckType string

const (
	DeckStarting DeckType = "starting"
	DeckRegular  DeckType = "regular"
	DeckUltrared DeckType = "ultrared"
)

// DeckTypes lists every valid deck type in display order.
var DeckTypes = []DeckType{DeckStarting, DeckRegular, DeckUltrared}

// Valid reports whether the deck type is one of the known pools.
func (d DeckType) Valid() bool {
	switch d {
	case DeckStarting, DeckRegular, DeckUltrared:
		return true
	}
	return false
}

// Category discriminates the combat profile of a weapon definition.
type Category string

const (
	CategoryMelee  Category = "melee"
	CategoryRanged Category = "ranged"
	CategoryBoth   Category = "both"
)

// MeleeStats holds the close-combat payload of a definition.
type MeleeStats struct {
	Dice   int `json:"dice"`
	Damage int `json:"damage"`
}

// RangedStats holds the ranged-combat payload of a definition.
// Accuracy is the minimum die face that counts as a hit.
type RangedStats struct {
	Dice     int `json:"dice"`
	Damage   int `json:"damage"`
	Accuracy int `json:"accuracy"`
}

// Abilities are the boolean traits a weapon card can carry.
type Abilities struct {
	Loud      bool `json:"loud"`
	TwoHanded bool `json:"two_handed"`
	SingleUse bool `json:"single_use"`
}

// WeaponDefinition is one catalog entry. Exactly one of Melee/Ranged is set for
// the melee and ranged categories; both are set for CategoryBoth. Definitions
// are never hard-deleted, only marked deprecated.
type WeaponDefinition struct {
	ID              string       `json:"id" db:"definition_id"`
	Name            string       `json:"name" db:"weapon_name"`
	Set             string       `json:"set" db:"weapon_set"`
	DeckType        DeckType     `json:"deck_type" db:"deck_type"`
	Category        Category     `json:"category" db:"category"`
	Melee           *MeleeStats  `json:"melee,omitempty"`
	Ranged          *RangedStats `json:"ranged,omitempty"`
	Abilities       Abilities    `json:"abilities"`
	DefaultCount    int          `json:"default_count" db:"default_count"`
	MetadataVersion string       `json:"metadata_version" db:"metadata_version"`
	Deprecated      bool         `json:"deprecated" db:"deprecated"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// DefinitionID computes the deterministic identity of a definition.
// The same deck type, name and set always produce the same id, so re-imports
// reattach to existing rows instead of minting new ones.
func DefinitionID(deckType DeckType, name, set string) string {
	return fmt.Sprintf("%s:%s:%s", deckType, name, set)
}

// ValidateStats checks that the category and stat payloads agree.
func (w *WeaponDefinition) ValidateStats() error {
	switch w.Category {
	case CategoryMelee:
		if w.Melee == nil || w.Ranged != nil {
			return fmt.Errorf("%w: melee definition %q must carry exactly a melee payload", ErrInvalidDefinition, w.ID)
		}
	case CategoryRanged:
		if w.Ranged == nil || w.Melee != nil {
			return fmt.Errorf("%w: ranged definition %q must carry exactly a ranged payload", ErrInvalidDefinition, w.ID)
		}
	case CategoryBoth:
		if w.Melee == nil || w.Ranged == nil {
			return fmt.Errorf("%w: dual-mode definition %q must carry both payloads", ErrInvalidDefinition, w.ID)
		}
	default:
		return fmt.Errorf("%w: unknown category %q on %q", ErrInvalidDefinition, w.Category, w.ID)
	}
	return nil
}

// Dice returns the highest dice count across the modes the weapon supports.
func (w *WeaponDefinition) Dice() int {
	d := 0
	if w.Melee != nil {
		d = w.Melee.Dice
	}
	if w.Ranged != nil && w.Ranged.Dice > d {
		d = w.Ranged.Dice
	}
	return d
}

// Damage returns the highest damage across the modes the weapon supports.
func (w *WeaponDefinition) Damage() int {
	d := 0
	if w.Melee != nil {
		d = w.Melee.Damage
	}
	if w.Ranged != nil && w.Ranged.Damage > d {
		d = w.Ranged.Damage
	}
	return d
}

// Accuracy returns the ranged accuracy threshold, false for melee-only weapons.
func (w *WeaponDefinition) Accuracy() (int, bool) {
	if w.Ranged == nil {
		return 0, false
	}
	return w.Ranged.Accuracy, true
}
