// Package cluster implements seeded k-means, silhouette scoring, the cluster
// count sweep and cluster count selection.
package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Model is a fitted k-means partition.
type Model struct {
	K          int
	Labels     []int
	Centroids  [][]float64
	Sizes      []int
	Inertia    float64
	Iterations int
	// Candidate is the index of the winning initialization: restarts are
	// numbered from 0, the warm start (when present) comes last.
	Candidate int
}

// NonEmpty returns the number of clusters with at least one member.
func (m *Model) NonEmpty() int {
	n := 0
	for _, s := range m.Sizes {
		if s > 0 {
			n++
		}
	}
	return n
}

// Fit runs k-means with independent k-means++ restarts and returns the
// lowest-inertia result. k = 1 yields a single cluster holding every point.
func Fit(ctx context.Context, points [][]float64, k int, opts ...Option) (*Model, error) {
	cfg := newConfig(opts...)
	if err := checkInput(points, k); err != nil {
		return nil, err
	}
	if k == 1 {
		return single(points), nil
	}
	return fitCandidates(ctx, points, k, cfg, nil)
}

func checkInput(points [][]float64, k int) error {
	if k < 1 {
		return &InvalidKError{K: k, Min: MinOverrideK, Max: MaxK}
	}
	if len(points) < k {
		return fmt.Errorf("%w: %d points, k=%d", ErrTooFewPoints, len(points), k)
	}
	dim := len(points[0])
	for _, p := range points[1:] {
		if len(p) != dim {
			return ErrDimensionSkew
		}
	}
	return nil
}

// fitCandidates runs cfg.restarts seeded restarts plus an optional warm start
// concurrently. Selection depends only on inertia and candidate index.
func fitCandidates(ctx context.Context, points [][]float64, k int, cfg config, warm [][]float64) (*Model, error) {
	total := cfg.restarts
	if warm != nil {
		total++
	}
	tol := cfg.tolerance * meanVariance(points)
	results := make([]*Model, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)
	for r := 0; r < total; r++ {
		g.Go(func() error {
			var init [][]float64
			if r < cfg.restarts {
				rng := rand.New(rand.NewSource(cfg.seed + int64(r))) //nolint:gosec // deterministic seed for reproducible clustering
				init = plusPlus(points, k, rng)
			} else {
				init = cloneCentroids(warm)
			}
			m, err := lloyd(gctx, points, init, cfg.maxIterations, tol)
			if err != nil {
				return err
			}
			m.Candidate = r
			results[r] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("k-means k=%d: %w", k, err)
	}

	best := results[0]
	for _, m := range results[1:] {
		if m.Inertia < best.Inertia {
			best = m
		}
	}
	return best, nil
}

// plusPlus picks k initial centroids with k-means++ seeding.
func plusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(n)]))

	d2 := make([]float64, n)
	for i, p := range points {
		d2[i] = sqDist(p, centroids[0])
	}
	for len(centroids) < k {
		var total float64
		for _, d := range d2 {
			total += d
		}
		idx := -1
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range d2 {
				if d == 0 {
					continue
				}
				acc += d
				idx = i
				if acc > target {
					break
				}
			}
		}
		if idx < 0 {
			idx = rng.Intn(n)
		}
		c := clonePoint(points[idx])
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < d2[i] {
				d2[i] = d
			}
		}
	}
	return centroids
}

// lloyd iterates assignment and update steps from the given centroids.
// Every step is non-increasing in inertia.
func lloyd(ctx context.Context, points [][]float64, centroids [][]float64, maxIter int, tol float64) (*Model, error) {
	k := len(centroids)
	labels := make([]int, len(points))
	sizes := make([]int, k)
	iterations := 0

	for iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++
		assign(points, centroids, labels, sizes)
		next := means(points, labels, sizes, centroids)
		reseedEmpty(points, next, labels, sizes)

		var shift float64
		for c := range next {
			shift += sqDist(next[c], centroids[c])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centroids, labels, sizes)
	return &Model{
		K:          k,
		Labels:     labels,
		Centroids:  centroids,
		Sizes:      sizes,
		Inertia:    inertia,
		Iterations: iterations,
	}, nil
}

// assign labels every point with its nearest centroid (ties go to the lower
// index), refreshes sizes and returns the inertia.
func assign(points [][]float64, centroids [][]float64, labels, sizes []int) float64 {
	for c := range sizes {
		sizes[c] = 0
	}
	var inertia float64
	for i, p := range points {
		best, bestD := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		sizes[best]++
		inertia += bestD
	}
	return inertia
}

// means recomputes centroids; empty clusters keep their previous centroid.
func means(points [][]float64, labels, sizes []int, prev [][]float64) [][]float64 {
	dim := len(points[0])
	next := make([][]float64, len(prev))
	for c := range next {
		if sizes[c] == 0 {
			next[c] = clonePoint(prev[c])
			continue
		}
		next[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := labels[i]
		for j, v := range p {
			next[c][j] += v
		}
	}
	for c := range next {
		if sizes[c] == 0 {
			continue
		}
		inv := 1 / float64(sizes[c])
		for j := range next[c] {
			next[c][j] *= inv
		}
	}
	return next
}

// reseedEmpty moves each empty centroid onto the point farthest from its own
// centroid, taken from a cluster with more than one member. Clusters stay
// empty when every candidate sits exactly on its centroid.
func reseedEmpty(points [][]float64, centroids [][]float64, labels, sizes []int) {
	for c := range centroids {
		if sizes[c] > 0 {
			continue
		}
		far, farD := -1, 0.0
		for i, p := range points {
			if sizes[labels[i]] < 2 {
				continue
			}
			if d := sqDist(p, centroids[labels[i]]); d > farD {
				far, farD = i, d
			}
		}
		if far < 0 {
			continue
		}
		sizes[labels[far]]--
		labels[far] = c
		sizes[c] = 1
		centroids[c] = clonePoint(points[far])
	}
}

// farthest returns the point with the largest distance to its centroid.
func farthest(points [][]float64, m *Model) []float64 {
	far, farD := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, m.Centroids[m.Labels[i]]); d > farD {
			far, farD = i, d
		}
	}
	return clonePoint(points[far])
}

func single(points [][]float64) *Model {
	dim := len(points[0])
	centroid := make([]float64, dim)
	for _, p := range points {
		for j, v := range p {
			centroid[j] += v
		}
	}
	for j := range centroid {
		centroid[j] /= float64(len(points))
	}
	var inertia float64
	for _, p := range points {
		inertia += sqDist(p, centroid)
	}
	return &Model{
		K:         1,
		Labels:    make([]int, len(points)),
		Centroids: [][]float64{centroid},
		Sizes:     []int{len(points)},
		Inertia:   inertia,
	}
}

// meanVariance is the average per-feature variance, used to scale the tolerance.
func meanVariance(points [][]float64) float64 {
	dim := len(points[0])
	col := make([]float64, len(points))
	var sum float64
	for j := 0; j < dim; j++ {
		for i, p := range points {
			col[i] = p[j]
		}
		sum += stat.PopVariance(col, nil)
	}
	return sum / float64(dim)
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}

func cloneCentroids(cs [][]float64) [][]float64 {
	out := make([][]float64, len(cs))
	for i, c := range cs {
		out[i] = clonePoint(c)
	}
	return out
}
