package colour

import (
	"fmt"
	"math"
	"math/rand/v2"

	"palette-wardrobe/stylist/internal/models/entities"
)

// NeutralGray stands in for the dominant colour when none can be derived.
var NeutralGray = entities.RGB{R: 128, G: 128, B: 128}

type ExtractOptions struct {
	Quantile      float64
	SampleSize    int
	MaxIterations int
	// Rand drives bandwidth sampling. Nil seeds a fresh generator with 0 on
	// every call so the same image always yields the same colour. A non-nil
	// Rand is not safe for concurrent Extract calls.
	Rand *rand.Rand
}

func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Quantile:      DefaultQuantile,
		SampleSize:    DefaultSampleSize,
		MaxIterations: DefaultMaxIterations,
	}
}

// Extraction is the outcome of one dominant colour computation.
type Extraction struct {
	RGB              entities.RGB
	Degraded         bool
	Reason           string
	Bandwidth        float64
	Clusters         int
	ForegroundPixels int
}

// DominantColourExtractor finds the most common colour of a garment.
type DominantColourExtractor struct {
	opts ExtractOptions
}

func NewDominantColourExtractor(opts ExtractOptions) *DominantColourExtractor {
	if opts.Quantile <= 0 || opts.Quantile > 1 {
		opts.Quantile = DefaultQuantile
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &DominantColourExtractor{opts: opts}
}

// Extract never fails: when the field has no foreground or clustering
// breaks, the result is NeutralGray with Degraded set.
func (e *DominantColourExtractor) Extract(field *PixelField) (res Extraction) {
	defer func() {
		if r := recover(); r != nil {
			res = degraded(fmt.Sprintf("clustering panicked: %v", r), res.ForegroundPixels)
		}
	}()

	if field == nil {
		return degraded("no pixel field", 0)
	}

	counts := make(map[entities.RGB]int)
	foreground := 0
	for _, px := range field.Pixels {
		if px.IsBlack() {
			continue
		}
		counts[px]++
		foreground++
	}
	res.ForegroundPixels = foreground
	if foreground == 0 {
		return degraded("no foreground pixels", 0)
	}

	points := make([]weightedPoint, 0, len(counts))
	samples := make([][]float64, 0, foreground)
	for _, px := range field.Pixels {
		if px.IsBlack() {
			continue
		}
		samples = append(samples, vector(px))
		if n, ok := counts[px]; ok {
			points = append(points, weightedPoint{
				v: [3]float64{float64(px.R), float64(px.G), float64(px.B)},
				w: float64(n),
			})
			delete(counts, px)
		}
	}

	rng := e.opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	bw := EstimateBandwidth(samples, e.opts.Quantile, e.opts.SampleSize, rng)
	clusters := meanShift(points, bw, e.opts.MaxIterations)
	if len(clusters) == 0 {
		return degraded("mean-shift found no clusters", foreground)
	}

	c := clusters[0].centre
	return Extraction{
		RGB:              entities.RGB{R: channel(c[0]), G: channel(c[1]), B: channel(c[2])},
		Bandwidth:        bw,
		Clusters:         len(clusters),
		ForegroundPixels: foreground,
	}
}

func degraded(reason string, foreground int) Extraction {
	return Extraction{
		RGB:              NeutralGray,
		Degraded:         true,
		Reason:           reason,
		ForegroundPixels: foreground,
	}
}

func channel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
