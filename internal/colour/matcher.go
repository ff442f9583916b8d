// Package colour turns garment photos into palette colours: background
// removal, dominant colour extraction by mean-shift clustering, and
// thresholded nearest-neighbour matching against the palette.
package colour

import (
	"sort"

	"palette-wardrobe/stylist/internal/models/entities"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultMaxDistance = 100.0
	DefaultTopN        = 3
)

// PaletteEntry is one reference colour as the matcher sees it.
type PaletteEntry struct {
	ID            uint                   `json:"id"`
	Name          string                 `json:"name"`
	RGB           entities.RGB           `json:"rgb"`
	Applicability entities.Applicability `json:"applicability"`
}

// Match is a palette colour found within the distance threshold.
type Match struct {
	ColourID      uint
	Name          string
	Applicability entities.Applicability
	Distance      float64
	Confidence    float64
}

// MatchOptions bounds a palette lookup.
type MatchOptions struct {
	MaxDistance float64
	TopN        int
}

func DefaultMatchOptions() MatchOptions {
	return MatchOptions{MaxDistance: DefaultMaxDistance, TopN: DefaultTopN}
}

// Palette is an immutable, ready-to-filter view of the reference colours.
// Entries keep their load order, which is the tie-break order for matching.
type Palette struct {
	entries []PaletteEntry
	matrix  [][]float64
}

// NewPalette builds the RGB matrix for entries. The slice is copied.
func NewPalette(entries []PaletteEntry) *Palette {
	p := &Palette{
		entries: make([]PaletteEntry, len(entries)),
		matrix:  make([][]float64, len(entries)),
	}
	copy(p.entries, entries)
	for i, e := range p.entries {
		p.matrix[i] = vector(e.RGB)
	}
	return p
}

// Entries returns a copy of the palette rows.
func (p *Palette) Entries() []PaletteEntry {
	out := make([]PaletteEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *Palette) Len() int { return len(p.entries) }

// Match returns up to opts.TopN colours applicable to category whose
// Euclidean RGB distance to c is at most opts.MaxDistance, nearest first.
// Equal distances keep palette order. An empty result is not an error.
func (p *Palette) Match(c entities.RGB, category entities.Category, opts MatchOptions) []Match {
	if opts.TopN <= 0 || opts.MaxDistance < 0 {
		return nil
	}

	target := vector(c)
	var matches []Match
	for i, e := range p.entries {
		if !e.Applicability.AppliesTo(category) {
			continue
		}
		d := floats.Distance(p.matrix[i], target, 2)
		if d > opts.MaxDistance {
			continue
		}
		matches = append(matches, Match{
			ColourID:      e.ID,
			Name:          e.Name,
			Applicability: e.Applicability,
			Distance:      d,
			Confidence:    confidence(d, opts.MaxDistance),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > opts.TopN {
		matches = matches[:opts.TopN]
	}
	return matches
}

// Distance is the Euclidean distance between two colours in RGB space.
func Distance(a, b entities.RGB) float64 {
	return floats.Distance(vector(a), vector(b), 2)
}

func confidence(distance, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 1
	}
	c := 1 - distance/maxDistance
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func vector(c entities.RGB) []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}
