package deck

import (
	"github.com/nvalden/arsenal/internal/domain"
)

// weightRule adds bonus copies of a definition when its condition holds.
// Rules are evaluated in order and stack: every matching rule contributes.
type weightRule struct {
	name    string
	applies func(def *domain.WeaponDefinition) bool
	bonus   int
}

// Difficulty thresholds for the weighting rules.
const (
	easyStrongDice    = 4
	easyStrongDamage  = 3
	hardWeakDice      = 2
	hardWeakDamage    = 1
	hardUnreliableAcc = 5
)

// easyRules favor strong cards so an easy game draws more of them.
var easyRules = []weightRule{
	{
		name:    "strong dice",
		applies: func(def *domain.WeaponDefinition) bool { return def.Dice() >= easyStrongDice },
		bonus:   1,
	},
	{
		name:    "strong damage",
		applies: func(def *domain.WeaponDefinition) bool { return def.Damage() >= easyStrongDamage },
		bonus:   1,
	},
}

// hardRules pad the deck with weak and unreliable cards.
var hardRules = []weightRule{
	{
		name:    "weak dice",
		applies: func(def *domain.WeaponDefinition) bool { return def.Dice() <= hardWeakDice },
		bonus:   1,
	},
	{
		name:    "weak damage",
		applies: func(def *domain.WeaponDefinition) bool { return def.Damage() <= hardWeakDamage },
		bonus:   1,
	},
	{
		name: "unreliable accuracy",
		applies: func(def *domain.WeaponDefinition) bool {
			acc, ok := def.Accuracy()
			return ok && acc >= hardUnreliableAcc
		},
		bonus: 1,
	},
}

// rulesFor returns the ordered rule list for a difficulty. Medium plays the
// catalog as configured, with no weighting.
func rulesFor(mode domain.Difficulty) []weightRule {
	switch mode {
	case domain.DifficultyEasy:
		return easyRules
	case domain.DifficultyHard:
		return hardRules
	default:
		return nil
	}
}

// bonusCopies sums the bonuses of every matching rule.
func bonusCopies(def *domain.WeaponDefinition, rules []weightRule) int {
	bonus := 0
	for _, rule := range rules {
		if rule.applies(def) {
			bonus += rule.bonus
		}
	}
	return bonus
}
