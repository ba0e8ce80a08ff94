package persona

import "math/rand"

// point is a transaction projected into the 2-D clustering space.
type point struct {
	amount float64
	day    float64
}

// normalize min-max scales both dimensions into [0, 1]. A dimension with no
// spread collapses to zero.
func normalize(points []point) []point {
	minAmount, maxAmount := points[0].amount, points[0].amount
	minDay, maxDay := points[0].day, points[0].day
	for _, p := range points[1:] {
		if p.amount < minAmount {
			minAmount = p.amount
		}
		if p.amount > maxAmount {
			maxAmount = p.amount
		}
		if p.day < minDay {
			minDay = p.day
		}
		if p.day > maxDay {
			maxDay = p.day
		}
	}

	scale := func(v, lo, hi float64) float64 {
		if hi == lo {
			return 0
		}
		return (v - lo) / (hi - lo)
	}

	normalized := make([]point, len(points))
	for i, p := range points {
		normalized[i] = point{
			amount: scale(p.amount, minAmount, maxAmount),
			day:    scale(p.day, minDay, maxDay),
		}
	}
	return normalized
}

// kmeans runs Lloyd's algorithm with k clusters over normalized points and
// returns the cluster assignment per point. The rng fixes centroid
// initialization, so a given seed always yields the same partition.
func kmeans(points []point, k, maxIterations int, rng *rand.Rand) []int {
	centroids := make([]point, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = points[idx]
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; a cluster that lost all points keeps its
		// previous centroid.
		sums := make([]point, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assignments[i]
			sums[c].amount += p.amount
			sums[c].day += p.day
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			centroids[c] = point{
				amount: sums[c].amount / float64(counts[c]),
				day:    sums[c].day / float64(counts[c]),
			}
		}
	}

	return assignments
}

func nearest(p point, centroids []point) int {
	best := 0
	bestDist := distance(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := distance(p, centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func distance(a, b point) float64 {
	da := a.amount - b.amount
	dd := a.day - b.day
	return da*da + dd*dd
}
