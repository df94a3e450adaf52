package importer

import (
	"fmt"

	"github.com/nvalden/arsenal/internal/domain"
)

// Document is the decoded shape of a catalog source file.
type Document struct {
	Version     string  `json:"version" validate:"required"`
	Description string  `json:"description"`
	Weapons     []Entry `json:"weapons" validate:"required,min=1,dive"`
}

// Entry is one weapon declaration in the source document. The (deck type,
// name, set) triple is its identity; everything else is mutable metadata.
type Entry struct {
	Name         string              `json:"name" validate:"required"`
	Set          string              `json:"set" validate:"required"`
	DeckType     domain.DeckType     `json:"deck_type" validate:"required,oneof=starting regular ultrared"`
	Category     domain.Category     `json:"category" validate:"required,oneof=melee ranged both"`
	Melee        *domain.MeleeStats  `json:"melee,omitempty"`
	Ranged       *domain.RangedStats `json:"ranged,omitempty"`
	Abilities    domain.Abilities    `json:"abilities"`
	DefaultCount int                 `json:"default_count" validate:"gte=1"`
}

// DefinitionID returns the deterministic identity of the entry.
func (e *Entry) DefinitionID() string {
	return domain.DefinitionID(e.DeckType, e.Name, e.Set)
}

// toDefinition converts the entry into a catalog definition carrying the
// document's declared version as metadata version.
func (e *Entry) toDefinition(metadataVersion string) (*domain.WeaponDefinition, error) {
	def := &domain.WeaponDefinition{
		ID:              e.DefinitionID(),
		Name:            e.Name,
		Set:             e.Set,
		DeckType:        e.DeckType,
		Category:        e.Category,
		Melee:           e.Melee,
		Ranged:          e.Ranged,
		Abilities:       e.Abilities,
		DefaultCount:    e.DefaultCount,
		MetadataVersion: metadataVersion,
	}
	if err := def.ValidateStats(); err != nil {
		return nil, fmt.Errorf("entry %s: %w", def.ID, err)
	}
	return def, nil
}
