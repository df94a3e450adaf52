package domain

import "time"

// Session is one game session owning an inventory. The two legacy text fields
// hold the pre-migration free-text loadout and are kept verbatim after
// migration as an audit trail.
type Session struct {
	ID                string     `json:"session_id" db:"session_id"`
	Name              string     `json:"name" db:"session_name"`
	ActiveLoadoutText string     `json:"active_loadout_text" db:"active_loadout_text"`
	BackpackText      string     `json:"backpack_text" db:"backpack_text"`
	MigratedAt        *time.Time `json:"migrated_at,omitempty" db:"migrated_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Migrated reports whether the legacy loadout has been converted.
func (s *Session) Migrated() bool {
	return s.MigratedAt != nil
}
