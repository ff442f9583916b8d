package colour

import (
	"testing"

	"palette-wardrobe/stylist/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette() *Palette {
	return NewPalette([]PaletteEntry{
		{ID: 1, Name: "Red", RGB: entities.RGB{R: 255}, Applicability: entities.ApplicabilityTop},
		{ID: 2, Name: "Blue", RGB: entities.RGB{B: 255}, Applicability: entities.ApplicabilityBottom},
		{ID: 3, Name: "Black", RGB: entities.RGB{}, Applicability: entities.ApplicabilityBoth},
		{ID: 4, Name: "Crimson", RGB: entities.RGB{R: 220, G: 20, B: 60}, Applicability: entities.ApplicabilityTop},
		{ID: 5, Name: "Scarlet", RGB: entities.RGB{R: 255, G: 36}, Applicability: entities.ApplicabilityBoth},
	})
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b entities.RGB
	}{
		{entities.RGB{R: 1, G: 2, B: 3}, entities.RGB{R: 200, G: 100, B: 0}},
		{entities.RGB{}, entities.RGB{R: 255, G: 255, B: 255}},
		{entities.RGB{R: 10}, entities.RGB{R: 10}},
	}
	for _, tc := range cases {
		assert.Equal(t, Distance(tc.a, tc.b), Distance(tc.b, tc.a), "distance should be symmetric for %s %s", tc.a, tc.b)
		if tc.a == tc.b {
			assert.Zero(t, Distance(tc.a, tc.b))
		} else {
			assert.Greater(t, Distance(tc.a, tc.b), 0.0)
		}
	}
	assert.InDelta(t, 5.0, Distance(entities.RGB{}, entities.RGB{R: 3, G: 4}), 1e-9)
}

func TestMatchFiltersByApplicability(t *testing.T) {
	p := testPalette()
	opts := MatchOptions{MaxDistance: 500, TopN: 10}

	for _, m := range p.Match(entities.RGB{R: 250, G: 5, B: 5}, entities.CategoryBottom, opts) {
		assert.NotContains(t, []uint{1, 4}, m.ColourID, "TOP-only colour matched a bottom")
	}
	for _, m := range p.Match(entities.RGB{B: 250}, entities.CategoryTop, opts) {
		assert.NotEqual(t, uint(2), m.ColourID, "BOTTOM-only colour matched a top")
	}
}

func TestMatchRespectsTopNAndMaxDistance(t *testing.T) {
	p := testPalette()
	target := entities.RGB{R: 250, G: 5, B: 5}

	matches := p.Match(target, entities.CategoryTop, MatchOptions{MaxDistance: 100, TopN: 2})
	require.Len(t, matches, 2)
	assert.Equal(t, uint(1), matches[0].ColourID)
	assert.Equal(t, uint(5), matches[1].ColourID)
	for _, m := range matches {
		assert.LessOrEqual(t, m.Distance, 100.0)
		assert.GreaterOrEqual(t, m.Confidence, 0.0)
		assert.LessOrEqual(t, m.Confidence, 1.0)
	}
	assert.LessOrEqual(t, matches[0].Distance, matches[1].Distance)

	none := p.Match(entities.RGB{R: 128, G: 128, B: 128}, entities.CategoryTop, MatchOptions{MaxDistance: 10, TopN: 3})
	assert.Empty(t, none)
}

func TestMatchTiesKeepPaletteOrder(t *testing.T) {
	p := NewPalette([]PaletteEntry{
		{ID: 7, Name: "Up", RGB: entities.RGB{R: 110, G: 100, B: 100}, Applicability: entities.ApplicabilityBoth},
		{ID: 3, Name: "Down", RGB: entities.RGB{R: 90, G: 100, B: 100}, Applicability: entities.ApplicabilityBoth},
	})
	matches := p.Match(entities.RGB{R: 100, G: 100, B: 100}, entities.CategoryTop, DefaultMatchOptions())
	require.Len(t, matches, 2)
	assert.Equal(t, uint(7), matches[0].ColourID)
	assert.Equal(t, uint(3), matches[1].ColourID)
	assert.InDelta(t, 0.9, matches[0].Confidence, 1e-9)
}

func TestMatchZeroTopN(t *testing.T) {
	assert.Nil(t, testPalette().Match(entities.RGB{R: 255}, entities.CategoryTop, MatchOptions{MaxDistance: 100}))
}

func TestNewPaletteCopiesEntries(t *testing.T) {
	entries := []PaletteEntry{{ID: 1, Name: "Red", RGB: entities.RGB{R: 255}, Applicability: entities.ApplicabilityTop}}
	p := NewPalette(entries)
	entries[0].Name = "Changed"

	assert.Equal(t, "Red", p.Entries()[0].Name)
	assert.Equal(t, 1, p.Len())
}
