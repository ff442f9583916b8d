package colour

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultQuantile   = 0.1
	DefaultSampleSize = 500
)

// EstimateBandwidth picks a mean-shift kernel radius from the data. It draws
// up to sampleSize points, finds each one's distance to its k-th nearest
// sampled neighbour (k = quantile of the sample, at least 1, the point itself
// counting as the first) and averages those distances. A zero result is
// reported as 1 so the kernel never collapses.
func EstimateBandwidth(points [][]float64, quantile float64, sampleSize int, rng *rand.Rand) float64 {
	if len(points) == 0 {
		return 1
	}
	sample := samplePoints(points, sampleSize, rng)

	k := int(float64(len(sample)) * quantile)
	if k < 1 {
		k = 1
	}

	kth := make([]float64, len(sample))
	dists := make([]float64, len(sample))
	for i, p := range sample {
		for j, q := range sample {
			dists[j] = floats.Distance(p, q, 2)
		}
		sort.Float64s(dists)
		kth[i] = dists[k-1]
	}

	bw := stat.Mean(kth, nil)
	if bw <= 0 {
		return 1
	}
	return bw
}

func samplePoints(points [][]float64, n int, rng *rand.Rand) [][]float64 {
	if n <= 0 || n >= len(points) {
		return points
	}
	var perm []int
	if rng != nil {
		perm = rng.Perm(len(points))
	} else {
		perm = rand.Perm(len(points))
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = points[perm[i]]
	}
	return out
}
