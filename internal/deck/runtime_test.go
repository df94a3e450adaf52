package deck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvalden/arsenal/internal/catalog"
	"github.com/nvalden/arsenal/internal/domain"
)

// fakeResolver returns canned customization decisions, falling back to the
// definition default when no decision is recorded.
type fakeResolver struct {
	decisions map[string]domain.EffectiveCustomization
	defaults  map[string]int
}

func (f *fakeResolver) ResolveEffective(ctx context.Context, definitionID string, presetID *int64) (domain.EffectiveCustomization, error) {
	if eff, ok := f.decisions[definitionID]; ok {
		return eff, nil
	}
	return domain.EffectiveCustomization{Enabled: true, Count: f.defaults[definitionID]}, nil
}

func meleeDef(name string, dice, damage, count int) domain.WeaponDefinition {
	return domain.WeaponDefinition{
		ID:           domain.DefinitionID(domain.DeckRegular, name, "core"),
		Name:         name,
		Set:          "core",
		DeckType:     domain.DeckRegular,
		Category:     domain.CategoryMelee,
		Melee:        &domain.MeleeStats{Dice: dice, Damage: damage},
		DefaultCount: count,
	}
}

func rangedDef(name string, dice, damage, accuracy, count int) domain.WeaponDefinition {
	return domain.WeaponDefinition{
		ID:           domain.DefinitionID(domain.DeckRegular, name, "core"),
		Name:         name,
		Set:          "core",
		DeckType:     domain.DeckRegular,
		Category:     domain.CategoryRanged,
		Ranged:       &domain.RangedStats{Dice: dice, Damage: damage, Accuracy: accuracy},
		DefaultCount: count,
	}
}

func newLoadedRuntime(t *testing.T, mode domain.Difficulty, resolver EffectiveResolver, defs ...domain.WeaponDefinition) *Runtime {
	t.Helper()
	repo := catalog.NewFakeRepository()
	for _, def := range defs {
		repo.AddDefinition(def, def.DefaultCount)
	}
	rt := NewRuntime(domain.DeckRegular, catalog.NewService(repo), resolver, 42)
	require.NoError(t, rt.Load(context.Background(), mode, nil))
	return rt
}

// drainCounts draws the whole pile and tallies cards per definition.
func drainCounts(rt *Runtime) map[string]int {
	counts := make(map[string]int)
	for rt.Remaining() > 0 {
		card, ok := rt.Draw()
		if !ok {
			break
		}
		counts[card.DefinitionID]++
	}
	return counts
}

func TestRuntime_Load_ExpandsEffectiveCounts(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil,
		meleeDef("machete", 3, 2, 2),
		meleeDef("bat", 3, 2, 3),
	)
	assert.Equal(t, 5, rt.Remaining())
}

func TestRuntime_Load_SkipsDisabledAndDeprecated(t *testing.T) {
	machete := meleeDef("machete", 3, 2, 2)
	retired := meleeDef("flintlock", 3, 2, 2)
	retired.Deprecated = true

	resolver := &fakeResolver{
		decisions: map[string]domain.EffectiveCustomization{
			machete.ID: {Enabled: false, Count: 2},
		},
		defaults: map[string]int{retired.ID: 2},
	}
	bat := meleeDef("bat", 3, 2, 3)
	resolver.defaults[bat.ID] = 3

	rt := newLoadedRuntime(t, domain.DifficultyMedium, resolver, machete, retired, bat)
	assert.Equal(t, 3, rt.Remaining())

	counts := drainCounts(rt)
	assert.NotContains(t, counts, machete.ID)
	assert.NotContains(t, counts, retired.ID)
}

func TestRuntime_Load_CountOverride(t *testing.T) {
	machete := meleeDef("machete", 3, 2, 2)
	resolver := &fakeResolver{
		decisions: map[string]domain.EffectiveCustomization{
			machete.ID: {Enabled: true, Count: 5},
		},
	}
	rt := newLoadedRuntime(t, domain.DifficultyMedium, resolver, machete)
	assert.Equal(t, 5, rt.Remaining())
}

func TestRuntime_Load_RejectsUnknownDifficulty(t *testing.T) {
	repo := catalog.NewFakeRepository()
	rt := NewRuntime(domain.DeckRegular, catalog.NewService(repo), nil, 1)
	err := rt.Load(context.Background(), domain.Difficulty("nightmare"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRuntime_Weighting(t *testing.T) {
	strong := meleeDef("claymore", 4, 3, 1)   // easy: +1 dice, +1 damage
	average := meleeDef("bat", 3, 2, 1)       // no rule matches
	feeble := meleeDef("shiv", 2, 1, 1)       // hard: +1 dice, +1 damage
	wild := rangedDef("blunderbuss", 3, 2, 5, 1) // hard: +1 accuracy

	tests := []struct {
		name string
		mode domain.Difficulty
		want map[string]int
	}{
		{
			name: "easy boosts strong cards",
			mode: domain.DifficultyEasy,
			want: map[string]int{strong.ID: 3, average.ID: 1, feeble.ID: 1, wild.ID: 1},
		},
		{
			name: "medium plays the catalog as configured",
			mode: domain.DifficultyMedium,
			want: map[string]int{strong.ID: 1, average.ID: 1, feeble.ID: 1, wild.ID: 1},
		},
		{
			name: "hard pads weak and unreliable cards",
			mode: domain.DifficultyHard,
			want: map[string]int{strong.ID: 1, average.ID: 1, feeble.ID: 3, wild.ID: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newLoadedRuntime(t, tt.mode, nil, strong, average, feeble, wild)
			assert.Equal(t, tt.want, drainCounts(rt))
		})
	}
}

func assertNoAdjacentDuplicates(t *testing.T, cards []Card) {
	t.Helper()
	for i := 0; i < len(cards)-1; i++ {
		assert.NotEqual(t, cards[i].DefinitionID, cards[i+1].DefinitionID,
			"adjacent copies of %s at %d", cards[i].DefinitionID, i)
	}
}

func TestRuntime_Shuffle_AntiClustering(t *testing.T) {
	repo := catalog.NewFakeRepository()
	a := meleeDef("machete", 3, 2, 4)
	b := meleeDef("bat", 3, 2, 4)
	repo.AddDefinition(a, a.DefaultCount)
	repo.AddDefinition(b, b.DefaultCount)

	for seed := int64(0); seed < 20; seed++ {
		rt := NewRuntime(domain.DeckRegular, catalog.NewService(repo), nil, seed)
		require.NoError(t, rt.Load(context.Background(), domain.DifficultyMedium, nil))

		// Two definitions at four copies each can always interleave.
		assertNoAdjacentDuplicates(t, rt.drawPile)
	}
}

func TestRuntime_Shuffle_BreaksTailRuns(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil,
		meleeDef("machete", 3, 2, 2), meleeDef("bat", 3, 2, 1), meleeDef("axe", 3, 2, 2))

	machete := domain.DefinitionID(domain.DeckRegular, "machete", "core")
	bat := domain.DefinitionID(domain.DeckRegular, "bat", "core")
	axe := domain.DefinitionID(domain.DeckRegular, "axe", "core")

	// A trailing run has no later card of another definition to swap with,
	// but the multiset still admits a clean arrangement.
	byID := make(map[string]Card, len(rt.drawPile))
	for _, card := range rt.drawPile {
		byID[card.DefinitionID] = card
	}
	rt.drawPile = []Card{byID[machete], byID[machete], byID[bat], byID[axe], byID[axe]}

	rt.declump()

	require.Len(t, rt.drawPile, 5)
	assertNoAdjacentDuplicates(t, rt.drawPile)
}

func TestRuntime_Shuffle_UnavoidableRunSurvives(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil,
		meleeDef("machete", 3, 2, 5), meleeDef("bat", 3, 2, 1))

	rt.Shuffle()

	// Five copies against one cannot avoid adjacency; the pile keeps all
	// cards and the lone other definition still splits one pair.
	require.Equal(t, 6, rt.Remaining())
	counts := make(map[string]int)
	breaks := 0
	for i, card := range rt.drawPile {
		counts[card.DefinitionID]++
		if i > 0 && card.DefinitionID != rt.drawPile[i-1].DefinitionID {
			breaks++
		}
	}
	machete := domain.DefinitionID(domain.DeckRegular, "machete", "core")
	bat := domain.DefinitionID(domain.DeckRegular, "bat", "core")
	assert.Equal(t, 5, counts[machete])
	assert.Equal(t, 1, counts[bat])
	assert.GreaterOrEqual(t, breaks, 2)
}

func TestRuntime_Shuffle_SingleDefinitionDeckUnchanged(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil, meleeDef("machete", 3, 2, 4))
	rt.Shuffle()
	assert.Equal(t, 4, rt.Remaining())
}

func TestRuntime_Draw_RecyclesDiscard(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil, meleeDef("machete", 3, 2, 3))

	for i := 0; i < 3; i++ {
		card, ok := rt.Draw()
		require.True(t, ok)
		rt.Discard(card)
	}
	require.Equal(t, 0, rt.Remaining())
	require.Equal(t, 3, rt.DiscardSize())

	// Drawing from the empty pile recycles the discard.
	card, ok := rt.Draw()
	require.True(t, ok)
	assert.NotNil(t, card)
	assert.Equal(t, 2, rt.Remaining())
	assert.Equal(t, 0, rt.DiscardSize())
}

func TestRuntime_Draw_ExhaustedEmptyDeck(t *testing.T) {
	repo := catalog.NewFakeRepository()
	rt := NewRuntime(domain.DeckRegular, catalog.NewService(repo), nil, 1)
	require.NoError(t, rt.Load(context.Background(), domain.DifficultyMedium, nil))

	card, ok := rt.Draw()
	assert.False(t, ok)
	assert.Nil(t, card)
}

func TestRuntime_Draw_DegradedRebuild(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyEasy, nil, meleeDef("claymore", 4, 3, 1))
	// Easy weighting: 1 base + 2 bonus copies.
	require.Equal(t, 3, rt.Remaining())

	degraded := 0
	rt.OnDegraded = func() { degraded++ }

	// Hold every card outside the runtime.
	for i := 0; i < 3; i++ {
		_, ok := rt.Draw()
		require.True(t, ok)
	}
	require.Equal(t, 3, rt.Held())
	require.Equal(t, 0, rt.Remaining())
	require.Equal(t, 0, rt.DiscardSize())

	// Both piles empty with cards held: the deck rebuilds under medium
	// weighting instead of reporting exhaustion.
	card, ok := rt.Draw()
	require.True(t, ok)
	assert.NotNil(t, card)
	assert.Equal(t, 1, degraded)
	// Medium rebuild has only the single base copy, now drawn.
	assert.Equal(t, 0, rt.Remaining())
}

func TestRuntime_DrawTwo(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil, meleeDef("machete", 3, 2, 3))

	cards := rt.DrawTwo()
	require.Len(t, cards, 2)
	assert.Equal(t, 1, rt.Remaining())
	assert.Equal(t, 2, rt.Held())
	// Nothing was auto-discarded.
	assert.Equal(t, 0, rt.DiscardSize())
}

func TestRuntime_DrawTwo_EmptyDeck(t *testing.T) {
	repo := catalog.NewFakeRepository()
	rt := NewRuntime(domain.DeckRegular, catalog.NewService(repo), nil, 1)
	require.NoError(t, rt.Load(context.Background(), domain.DifficultyMedium, nil))

	assert.Empty(t, rt.DrawTwo())
}

func TestRuntime_ReturnToTopAndBottom(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil,
		meleeDef("machete", 3, 2, 2),
		meleeDef("bat", 3, 2, 2),
	)

	first, ok := rt.Draw()
	require.True(t, ok)
	rt.ReturnToTop(first)
	assert.Equal(t, 0, rt.Held())

	again, ok := rt.Draw()
	require.True(t, ok)
	assert.Equal(t, first.DefinitionID, again.DefinitionID)

	rt.ReturnToBottom(again)
	// Drawing everything else first leaves the returned card last.
	var last *Card
	for rt.Remaining() > 0 {
		card, ok := rt.Draw()
		require.True(t, ok)
		last = card
	}
	assert.Equal(t, again.DefinitionID, last.DefinitionID)
}

func TestRuntime_Reset(t *testing.T) {
	rt := newLoadedRuntime(t, domain.DifficultyMedium, nil, meleeDef("machete", 3, 2, 4))

	card, ok := rt.Draw()
	require.True(t, ok)
	rt.Discard(card)
	for i := 0; i < 2; i++ {
		card, ok = rt.Draw()
		require.True(t, ok)
		rt.Discard(card)
	}
	require.Equal(t, 1, rt.Remaining())
	require.Equal(t, 3, rt.DiscardSize())

	rt.Reset()
	assert.Equal(t, 4, rt.Remaining())
	assert.Equal(t, 0, rt.DiscardSize())
}

func TestRuntime_SeededShuffleIsDeterministic(t *testing.T) {
	repo := catalog.NewFakeRepository()
	for _, def := range []domain.WeaponDefinition{
		meleeDef("machete", 3, 2, 3),
		meleeDef("bat", 3, 2, 3),
		meleeDef("shiv", 2, 1, 3),
	} {
		repo.AddDefinition(def, def.DefaultCount)
	}
	svc := catalog.NewService(repo)

	order := func(seed int64) []string {
		rt := NewRuntime(domain.DeckRegular, svc, nil, seed)
		require.NoError(t, rt.Load(context.Background(), domain.DifficultyMedium, nil))
		ids := make([]string, 0, rt.Remaining())
		for rt.Remaining() > 0 {
			card, _ := rt.Draw()
			ids = append(ids, card.DefinitionID)
		}
		return ids
	}

	assert.Equal(t, order(7), order(7))
}
