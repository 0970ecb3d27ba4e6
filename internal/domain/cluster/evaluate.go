package cluster

import (
	"context"
	"fmt"
)

// Swept cluster count range.
const (
	MinK = 2
	MaxK = 8
)

// Score is the fit quality of one candidate cluster count.
type Score struct {
	K          int     `json:"k"`
	Inertia    float64 `json:"inertia"`
	Silhouette float64 `json:"silhouette"`
	Degenerate bool    `json:"degenerate,omitempty"`
	Iterations int     `json:"iterations"`
}

// Evaluation is the result of sweeping k over [MinK, MaxK].
type Evaluation struct {
	Scores []Score
	models []*Model
}

// Model returns the fitted model for k when k was swept.
func (e *Evaluation) Model(k int) (*Model, bool) {
	for _, m := range e.models {
		if m.K == k {
			return m, true
		}
	}
	return nil, false
}

// Evaluate fits k-means for every k in [MinK, MaxK] and records inertia and
// silhouette. Besides the seeded restarts, each k > MinK also tries the best
// (k-1) centroids plus the worst-served point, so inertia never increases with k.
func Evaluate(ctx context.Context, points [][]float64, opts ...Option) (*Evaluation, error) {
	models, err := sweep(ctx, points, MaxK, newConfig(opts...))
	if err != nil {
		return nil, err
	}
	dist := Distances(points)
	ev := &Evaluation{models: models}
	for _, m := range models {
		sil, degenerate := Silhouette(dist, m.Labels, m.K)
		ev.Scores = append(ev.Scores, Score{
			K:          m.K,
			Inertia:    m.Inertia,
			Silhouette: sil,
			Degenerate: degenerate,
			Iterations: m.Iterations,
		})
	}
	return ev, nil
}

// FitK fits k clusters with the same procedure as Evaluate, so the model at k
// matches the swept one.
func FitK(ctx context.Context, points [][]float64, k int, opts ...Option) (*Model, error) {
	if err := ValidateK(k); err != nil {
		return nil, err
	}
	if err := checkInput(points, k); err != nil {
		return nil, err
	}
	if k == 1 {
		return single(points), nil
	}
	models, err := sweep(ctx, points, k, newConfig(opts...))
	if err != nil {
		return nil, err
	}
	return models[len(models)-1], nil
}

func sweep(ctx context.Context, points [][]float64, maxK int, cfg config) ([]*Model, error) {
	if err := checkInput(points, maxK); err != nil {
		return nil, err
	}
	models := make([]*Model, 0, maxK-MinK+1)
	var prev *Model
	for k := MinK; k <= maxK; k++ {
		var warm [][]float64
		if prev != nil {
			warm = append(cloneCentroids(prev.Centroids), farthest(points, prev))
		}
		m, err := fitCandidates(ctx, points, k, cfg, warm)
		if err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
		models = append(models, m)
		prev = m
	}
	return models, nil
}
