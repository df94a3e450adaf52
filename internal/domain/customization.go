package domain

import "time"

// CustomizationRecord is one enable/disable or count-override choice for a
// weapon definition. PresetID nil means the record applies globally.
type CustomizationRecord struct {
	ID            int64     `json:"record_id" db:"record_id"`
	DefinitionID  string    `json:"definition_id" db:"definition_id"`
	Enabled       bool      `json:"enabled" db:"enabled"`
	CountOverride *int      `json:"count_override,omitempty" db:"count_override"`
	Priority      int       `json:"priority" db:"priority"`
	PresetID      *int64    `json:"preset_id,omitempty" db:"preset_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Preset is a named, reusable customization configuration. Its records are
// cascade-owned: deleting the preset deletes them.
type Preset struct {
	ID          int64     `json:"preset_id" db:"preset_id"`
	Name        string    `json:"name" db:"preset_name"`
	Description string    `json:"description" db:"description"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// EffectiveCustomization is the resolved view DeckRuntime consumes: whether a
// definition participates in deck composition and with how many copies.
type EffectiveCustomization struct {
	Enabled bool
	Count   int
}
