package deck

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/nvalden/arsenal/internal/catalog"
	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/metrics"
)

// Card is one virtual copy of a definition inside a running deck.
type Card struct {
	DefinitionID string
	Definition   *domain.WeaponDefinition
}

// EffectiveResolver supplies the customization decision for a definition.
// The customization store satisfies this.
type EffectiveResolver interface {
	ResolveEffective(ctx context.Context, definitionID string, presetID *int64) (domain.EffectiveCustomization, error)
}

// Runtime runs one deck type's draw loop. It is pure logic after Load: no
// database or service calls happen during play. Not safe for concurrent use.
type Runtime struct {
	deckType domain.DeckType
	catalog  catalog.Service
	resolver EffectiveResolver
	rng      *rand.Rand

	mode     domain.Difficulty
	presetID *int64
	base     []Card // composition before weighting, kept for degraded rebuilds

	drawPile []Card
	discard  []Card
	held     int // cards drawn and not yet returned or discarded

	// OnDegraded, when set, is called each time exhaustion with cards held
	// outside forces a rebuild.
	OnDegraded func()
}

// NewRuntime creates a runtime for one deck type. The seed makes shuffles
// reproducible.
//
//nolint:gosec // G404: math/rand is acceptable for game mechanics, not for cryptographic purposes
func NewRuntime(deckType domain.DeckType, catalogSvc catalog.Service, resolver EffectiveResolver, seed int64) *Runtime {
	return &Runtime{
		deckType: deckType,
		catalog:  catalogSvc,
		resolver: resolver,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Load composes the deck: enabled definitions expanded to their effective
// counts, difficulty weighting applied, then shuffled. Any previous state is
// discarded.
func (r *Runtime) Load(ctx context.Context, mode domain.Difficulty, presetID *int64) error {
	log := logger.FromContext(ctx)

	if !mode.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, mode)
	}

	defs, err := r.catalog.ListDefinitionsByDeckType(ctx, r.deckType)
	if err != nil {
		return fmt.Errorf("failed to load %s deck: %w", r.deckType, err)
	}

	base := make([]Card, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		if def.Deprecated {
			continue
		}

		effective := domain.EffectiveCustomization{Enabled: true, Count: def.DefaultCount}
		if r.resolver != nil {
			effective, err = r.resolver.ResolveEffective(ctx, def.ID, presetID)
			if err != nil {
				return fmt.Errorf("failed to resolve customization for %s: %w", def.ID, err)
			}
		}
		if !effective.Enabled || effective.Count <= 0 {
			continue
		}

		for c := 0; c < effective.Count; c++ {
			base = append(base, Card{DefinitionID: def.ID, Definition: def})
		}
	}

	r.mode = mode
	r.presetID = presetID
	r.base = base
	r.discard = nil
	r.held = 0
	r.compose(mode)

	log.Info("deck loaded",
		"deck_type", r.deckType,
		"difficulty", mode,
		"cards", len(r.drawPile))
	return nil
}

// compose rebuilds the draw pile from the base composition under the given
// difficulty and shuffles it.
func (r *Runtime) compose(mode domain.Difficulty) {
	rules := rulesFor(mode)

	cards := make([]Card, 0, len(r.base))
	cards = append(cards, r.base...)

	// Bonus copies per unique definition, not per base copy.
	if len(rules) > 0 {
		seen := make(map[string]bool)
		for _, card := range r.base {
			if seen[card.DefinitionID] {
				continue
			}
			seen[card.DefinitionID] = true
			for b := 0; b < bonusCopies(card.Definition, rules); b++ {
				cards = append(cards, card)
			}
		}
	}

	r.drawPile = cards
	r.Shuffle()
}

// Shuffle randomizes the draw pile, then rearranges it so no two adjacent
// cards share a definition. Adjacent copies remain only when the card mix
// makes them unavoidable.
func (r *Runtime) Shuffle() {
	r.rng.Shuffle(len(r.drawPile), func(i, j int) {
		r.drawPile[i], r.drawPile[j] = r.drawPile[j], r.drawPile[i]
	})
	r.declump()
}

// declump rebuilds the pile greedily: each slot takes the earliest remaining
// card whose definition differs from the previous slot, unless one
// definition holds more than half the remaining slots, in which case that
// definition must be placed now or a run becomes unavoidable later. Cards
// keep their shuffled relative order except where a different definition is
// pulled forward to break a run.
func (r *Runtime) declump() {
	n := len(r.drawPile)
	if n < 2 {
		return
	}

	remaining := r.drawPile
	counts := make(map[string]int)
	for _, card := range remaining {
		counts[card.DefinitionID]++
	}

	out := make([]Card, 0, n)
	prev := ""
	for slots := n; slots > 0; slots-- {
		// At most one definition can exceed half the remaining slots.
		forced := ""
		for id, c := range counts {
			if c*2 > slots {
				forced = id
				break
			}
		}

		pick := -1
		switch {
		case forced != "" && forced != prev:
			for i := range remaining {
				if remaining[i].DefinitionID == forced {
					pick = i
					break
				}
			}
		default:
			// forced == prev means the run is already unavoidable;
			// separating with any other definition is the best left.
			for i := range remaining {
				if remaining[i].DefinitionID != prev {
					pick = i
					break
				}
			}
		}
		if pick < 0 {
			break
		}

		card := remaining[pick]
		out = append(out, card)
		remaining = append(remaining[:pick], remaining[pick+1:]...)
		counts[card.DefinitionID]--
		prev = card.DefinitionID
	}

	r.drawPile = append(out, remaining...)
}

// Draw removes and returns the top card. An empty draw pile recycles the
// discard pile first; when both piles are empty while cards are still held
// outside the runtime, the deck rebuilds once from its base composition
// under medium weighting and reports a degraded reshuffle. Returns
// (nil, false) only when the deck is truly exhausted.
func (r *Runtime) Draw() (*Card, bool) {
	if len(r.drawPile) == 0 {
		if !r.replenish() {
			return nil, false
		}
	}

	card := r.drawPile[0]
	r.drawPile = r.drawPile[1:]
	r.held++
	metrics.DeckDraws.WithLabelValues(string(r.deckType)).Inc()
	return &card, true
}

// replenish refills an empty draw pile. Returns false when nothing can be
// drawn.
func (r *Runtime) replenish() bool {
	if len(r.discard) > 0 {
		r.drawPile = r.discard
		r.discard = nil
		r.Shuffle()
		metrics.DeckReshuffles.WithLabelValues(string(r.deckType), metrics.KindRecycle).Inc()
		return len(r.drawPile) > 0
	}

	if r.held > 0 && len(r.base) > 0 {
		// Every card is outside the runtime. Rebuild rather than dead-lock
		// the table; weighting drops to medium for the rebuilt deck.
		r.compose(domain.DifficultyMedium)
		metrics.DeckReshuffles.WithLabelValues(string(r.deckType), metrics.KindDegraded).Inc()
		if r.OnDegraded != nil {
			r.OnDegraded()
		}
		return len(r.drawPile) > 0
	}

	return false
}

// DrawTwo draws two cards in sequence. Fewer are returned when the deck
// runs out; nothing is auto-discarded.
func (r *Runtime) DrawTwo() []*Card {
	cards := make([]*Card, 0, 2)
	for i := 0; i < 2; i++ {
		card, ok := r.Draw()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Discard places a held card on the discard pile.
func (r *Runtime) Discard(card *Card) {
	r.releaseHeld()
	r.discard = append(r.discard, *card)
}

// ReturnToTop places a held card back on top of the draw pile.
func (r *Runtime) ReturnToTop(card *Card) {
	r.releaseHeld()
	r.drawPile = append([]Card{*card}, r.drawPile...)
}

// ReturnToBottom places a held card under the draw pile.
func (r *Runtime) ReturnToBottom(card *Card) {
	r.releaseHeld()
	r.drawPile = append(r.drawPile, *card)
}

func (r *Runtime) releaseHeld() {
	if r.held > 0 {
		r.held--
	}
}

// Reset merges the discard pile back into the draw pile and reshuffles.
// Cards held outside the runtime stay outside.
func (r *Runtime) Reset() {
	r.drawPile = append(r.drawPile, r.discard...)
	r.discard = nil
	r.Shuffle()
	metrics.DeckReshuffles.WithLabelValues(string(r.deckType), metrics.KindReset).Inc()
}

// Remaining reports the size of the draw pile.
func (r *Runtime) Remaining() int { return len(r.drawPile) }

// DiscardSize reports the size of the discard pile.
func (r *Runtime) DiscardSize() int { return len(r.discard) }

// Held reports how many drawn cards are outside the runtime.
func (r *Runtime) Held() int { return r.held }

// DeckType reports which pool this runtime plays.
func (r *Runtime) DeckType() domain.DeckType { return r.deckType }
