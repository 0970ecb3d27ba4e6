package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Distances returns the symmetric Euclidean distance matrix of points.
func Distances(points [][]float64) [][]float64 {
	n := len(points)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := floats.Distance(points[i], points[j], 2)
			d[i][j] = v
			d[j][i] = v
		}
	}
	return d
}

// Silhouette returns the mean silhouette coefficient of labels over the
// precomputed distance matrix. Points alone in their cluster score 0. When
// fewer than two clusters are populated the coefficient is undefined and
// Silhouette returns 0 with degenerate set.
func Silhouette(dist [][]float64, labels []int, k int) (score float64, degenerate bool) {
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	populated := 0
	for _, s := range sizes {
		if s > 0 {
			populated++
		}
	}
	if populated < 2 {
		return 0, true
	}

	sums := make([]float64, k)
	var total float64
	for i, own := range labels {
		if sizes[own] == 1 {
			continue
		}
		for c := range sums {
			sums[c] = 0
		}
		for j, l := range labels {
			sums[l] += dist[i][j]
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c, s := range sizes {
			if c == own || s == 0 {
				continue
			}
			b = math.Min(b, sums[c]/float64(s))
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(len(labels)), false
}
