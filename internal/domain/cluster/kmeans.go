package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kmeansResult is the outcome of one complete k-means fit.
type kmeansResult struct {
	centroids [][]float64
	labels    []int
	inertia   float64
}

// runKMeans fits k-means with k-means++ seeding, restarting the whole
// fit restarts times and keeping the run with the lowest inertia. The
// caller supplies the random source, so a fixed seed gives identical
// fits across runs.
func runKMeans(points [][]float64, k, restarts, maxIter int, rng *rand.Rand) kmeansResult {
	best := kmeansResult{inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		res := lloyd(points, seedPlusPlus(points, k, rng), maxIter)
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// seedPlusPlus picks k initial centroids, weighting each candidate by
// its squared distance to the nearest centroid chosen so far.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, append([]float64(nil), first...))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if v := sqDist(p, c); v < d {
					d = v
				}
			}
			dists[i] = d
			total += d
		}
		var next []float64
		if total == 0 {
			next = points[rng.Intn(len(points))]
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = points[len(points)-1]
			for i, d := range dists {
				acc += d
				if acc >= target {
					next = points[i]
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), next...))
	}
	return centroids
}

// lloyd iterates assignment and centroid updates until assignments
// stabilize or maxIter is reached.
func lloyd(points [][]float64, centroids [][]float64, maxIter int) kmeansResult {
	k := len(centroids)
	dim := len(points[0])
	labels := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			l := nearest(p, centroids)
			if l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			floats.Add(sums[c], p)
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Empty cluster: reseat on the point farthest from its
				// centroid to keep k populated clusters.
				centroids[c] = append([]float64(nil), farthestPoint(points, labels, centroids)...)
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	inertia := 0.0
	for i, p := range points {
		labels[i] = nearest(p, centroids)
		inertia += sqDist(p, centroids[labels[i]])
	}
	return kmeansResult{centroids: centroids, labels: labels, inertia: inertia}
}

// nearest returns the index of the closest centroid.
func nearest(p []float64, centroids [][]float64) int {
	bestIdx := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			bestDist = d
			bestIdx = c
		}
	}
	return bestIdx
}

// farthestPoint finds the point with the greatest distance to its
// assigned centroid.
func farthestPoint(points [][]float64, labels []int, centroids [][]float64) []float64 {
	worst := points[0]
	worstDist := -1.0
	for i, p := range points {
		if d := sqDist(p, centroids[labels[i]]); d > worstDist {
			worstDist = d
			worst = p
		}
	}
	return worst
}

// sqDist is the squared Euclidean distance between two vectors.
func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
