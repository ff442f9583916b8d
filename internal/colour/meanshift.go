package colour

import (
	"math"
	"sort"
)

const DefaultMaxIterations = 300

// weightedPoint is a distinct colour and the number of pixels that share it.
type weightedPoint struct {
	v [3]float64
	w float64
}

// cluster is a converged mode of the density and the pixels labelled to it.
type cluster struct {
	centre [3]float64
	size   float64
}

// meanShift clusters points with a flat kernel of radius bandwidth. Seeds
// are the centres of the occupied bandwidth-sized grid bins. Modes closer
// than bandwidth to a denser mode are merged into it, and every point is
// then labelled with its nearest surviving mode. Clusters come back largest
// first.
func meanShift(points []weightedPoint, bandwidth float64, maxIter int) []cluster {
	if len(points) == 0 || bandwidth <= 0 {
		return nil
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	radius2 := bandwidth * bandwidth
	stop := 1e-3 * bandwidth

	type mode struct {
		centre    [3]float64
		intensity float64
	}
	var modes []mode

	for _, seed := range binSeeds(points, bandwidth) {
		mean := seed
		var within float64
		for iter := 0; ; iter++ {
			var sum [3]float64
			within = 0
			for _, p := range points {
				if sqDist(p.v, mean) <= radius2 {
					sum[0] += p.v[0] * p.w
					sum[1] += p.v[1] * p.w
					sum[2] += p.v[2] * p.w
					within += p.w
				}
			}
			if within == 0 {
				break
			}
			old := mean
			mean = [3]float64{sum[0] / within, sum[1] / within, sum[2] / within}
			if math.Sqrt(sqDist(mean, old)) <= stop || iter+1 >= maxIter {
				modes = append(modes, mode{centre: mean, intensity: within})
				break
			}
		}
	}
	if len(modes) == 0 {
		return nil
	}

	sort.SliceStable(modes, func(i, j int) bool {
		return modes[i].intensity > modes[j].intensity
	})

	var centres [][3]float64
	for _, m := range modes {
		dup := false
		for _, c := range centres {
			if sqDist(m.centre, c) <= radius2 {
				dup = true
				break
			}
		}
		if !dup {
			centres = append(centres, m.centre)
		}
	}

	clusters := make([]cluster, len(centres))
	for i, c := range centres {
		clusters[i].centre = c
	}
	for _, p := range points {
		best, bestD := 0, math.Inf(1)
		for i, c := range centres {
			if d := sqDist(p.v, c); d < bestD {
				best, bestD = i, d
			}
		}
		clusters[best].size += p.w
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].size > clusters[j].size
	})
	return clusters
}

// binSeeds returns one seed per occupied grid bin, in first-seen order.
func binSeeds(points []weightedPoint, bandwidth float64) [][3]float64 {
	seen := make(map[[3]int64]struct{})
	var seeds [][3]float64
	for _, p := range points {
		key := [3]int64{
			int64(math.Round(p.v[0] / bandwidth)),
			int64(math.Round(p.v[1] / bandwidth)),
			int64(math.Round(p.v[2] / bandwidth)),
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		seeds = append(seeds, [3]float64{
			float64(key[0]) * bandwidth,
			float64(key[1]) * bandwidth,
			float64(key[2]) * bandwidth,
		})
	}
	return seeds
}

func sqDist(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
