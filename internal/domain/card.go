package domain

import (
	"fmt"
	"time"
)

// CardInstance is one physical copy of a weapon definition. Copy indices start
// at 1 and the serial is unique across the whole catalog.
type CardInstance struct {
	ID           int64     `json:"instance_id" db:"instance_id"`
	DefinitionID string    `json:"definition_id" db:"definition_id"`
	CopyIndex    int       `json:"copy_index" db:"copy_index"`
	Serial       string    `json:"serial" db:"serial"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Definition is populated by reads that join the catalog; it is shared
	// between every instance of the same definition.
	Definition *WeaponDefinition `json:"definition,omitempty" db:"-"`
}

// InstanceSerial computes the unique serial of a copy.
func InstanceSerial(definitionID string, copyIndex int) string {
	return fmt.Sprintf("%s:%d", definitionID, copyIndex)
}
