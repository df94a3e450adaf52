package domain

import "time"

// SlotType is the inventory placement of an item.
type SlotType string

const (
	SlotActive   SlotType = "active"
	SlotBackpack SlotType = "backpack"
)

// SlotTypes lists the placements in loadout order.
var SlotTypes = []SlotType{SlotActive, SlotBackpack}

// Valid reports whether the slot type is known.
func (s SlotType) Valid() bool {
	return s == SlotActive || s == SlotBackpack
}

// InventoryItem is one slot occupant in a session's loadout. Slot indices are
// 0-based and gap-free per slot type per session.
type InventoryItem struct {
	ID         int64     `json:"item_id" db:"item_id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	SlotType   SlotType  `json:"slot_type" db:"slot_type"`
	SlotIndex  int       `json:"slot_index" db:"slot_index"`
	InstanceID int64     `json:"instance_id" db:"instance_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Instance is populated by reads that join the catalog.
	Instance *CardInstance `json:"instance,omitempty" db:"-"`
}

// Equipped is derived placement state: an item is equipped iff it sits in an
// active slot.
func (i *InventoryItem) Equipped() bool {
	return i.SlotType == SlotActive
}
