package migration

import (
	"fmt"
	"sort"

	"github.com/nvalden/arsenal/internal/domain"
)

// Validation rule names, reported verbatim in violation lists.
const (
	RuleCountMatch  = "item count matches resolved entry count"
	RuleSlotIndices = "slot indices are sequential from zero per slot type"
	RuleReferences  = "every item resolves to an instance and definition"
)

// ValidationError reports a failed migration validation. The migration that
// produced it was rolled back.
type ValidationError struct {
	SessionID  string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s for session %s: %v", domain.ErrMsgMigrationValidation, e.SessionID, e.Violations)
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrMigrationValidation
}

// checkInvariants runs the three structural rules over a session's items and
// returns the violated ones.
func checkInvariants(items []domain.InventoryItem, expected int) []string {
	var violations []string

	if len(items) != expected {
		violations = append(violations,
			fmt.Sprintf("%s: have %d, want %d", RuleCountMatch, len(items), expected))
	}

	bySlot := make(map[domain.SlotType][]int)
	for i := range items {
		bySlot[items[i].SlotType] = append(bySlot[items[i].SlotType], items[i].SlotIndex)
	}
	for _, slot := range domain.SlotTypes {
		indices := bySlot[slot]
		sort.Ints(indices)
		for i, idx := range indices {
			if idx != i {
				violations = append(violations,
					fmt.Sprintf("%s: %s slots are %v", RuleSlotIndices, slot, indices))
				break
			}
		}
	}

	for i := range items {
		item := &items[i]
		if item.Instance == nil || item.Instance.Definition == nil {
			violations = append(violations,
				fmt.Sprintf("%s: item %d is dangling", RuleReferences, item.ID))
			break
		}
	}

	return violations
}
