package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableShape(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	require.Equal(t, 6, table.Len())
	prev := -1.0
	for i, tier := range table.Tiers() {
		assert.Equal(t, i+1, tier.ID)
		assert.Greater(t, tier.MinRating, prev)
		assert.NotEmpty(t, tier.PromptLabel)
		prev = tier.MinRating
	}

	one, err := table.Tier(1)
	require.NoError(t, err)
	assert.True(t, one.MultipleChoice())
	assert.True(t, one.AcceptsButtons())

	two, _ := table.Tier(2)
	assert.True(t, two.MultipleChoice())
	assert.False(t, two.AcceptsButtons())

	six, _ := table.Tier(6)
	assert.True(t, six.UsesAudio())
	assert.True(t, six.UsesSentence())

	_, err = table.Tier(7)
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestNewTableRejectsInvalidRows(t *testing.T) {
	t.Parallel()

	unordered := DefaultTiers()
	unordered[3].MinRating = unordered[2].MinRating
	_, err := NewTable(unordered, DefaultTopRating, 0)
	assert.ErrorIs(t, err, ErrInvalidTable)

	zeroDelta := DefaultTiers()
	zeroDelta[0].Delta = 0
	_, err = NewTable(zeroDelta, DefaultTopRating, 0)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = NewTable(DefaultTiers()[:5], DefaultTopRating, 0)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = NewTable(DefaultTiers(), 60, 0)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = NewTable(DefaultTiers(), DefaultTopRating, 1)
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestDegrade(t *testing.T) {
	t.Parallel()
	table := DefaultTable()
	tier := func(id int) Tier {
		tt, err := table.Tier(id)
		require.NoError(t, err)
		return tt
	}
	full := Assets{HasExamples: true, HasWordAudio: true, HasSentenceAudio: true}

	testCases := []struct {
		name   string
		from   int
		assets Assets
		want   int
		needs  []Enrichment
	}{
		{name: "fully enriched tier 6 stays", from: 6, assets: full, want: 6},
		{name: "tier 6 without examples drops to 3", from: 6, assets: Assets{HasWordAudio: true}, want: 3, needs: []Enrichment{EnrichExamples}},
		{name: "tier 5 without examples drops to 4", from: 5, assets: Assets{HasWordAudio: true}, want: 4, needs: []Enrichment{EnrichExamples}},
		{name: "tier 5 cascades to 3 without word audio", from: 5, assets: Assets{}, want: 3, needs: []Enrichment{EnrichExamples, EnrichWordAudio}},
		{name: "tier 6 without sentence audio drops to 5", from: 6, assets: Assets{HasExamples: true}, want: 5, needs: []Enrichment{EnrichExampleAudio}},
		{name: "tier 4 without word audio drops to 3", from: 4, assets: Assets{HasExamples: true}, want: 3, needs: []Enrichment{EnrichWordAudio}},
		{name: "tier 1 needs nothing", from: 1, assets: Assets{}, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, needs := table.Degrade(tier(tc.from), tc.assets)
			assert.Equal(t, tc.want, got.ID)
			assert.Equal(t, tc.needs, needs)
		})
	}
}
