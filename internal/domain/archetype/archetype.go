// Package archetype fits the final clustering of a cohort, projects it onto
// two principal components and summarizes each cluster's raw profile.
package archetype

import (
	"context"
	"fmt"

	"github.com/okian/playbook/internal/domain/cluster"
	"github.com/okian/playbook/internal/domain/features"
)

// Profile is the mean raw statistical line of one cluster.
type Profile struct {
	Cluster  int       `json:"cluster"`
	Size     int       `json:"size"`
	Means    []float64 `json:"means"`
	Centroid []float64 `json:"centroid"`
}

// Result is a fitted archetype model.
type Result struct {
	K          int
	Features   []string
	Labels     []int
	Inertia    float64
	Projection *Projection
	// Profiles holds one entry per non-empty cluster, ordered by cluster label.
	Profiles []Profile
}

// Fit projects m and clusters it into k groups using the same procedure as
// the cluster count sweep.
func Fit(ctx context.Context, m *features.Matrix, k int, opts ...cluster.Option) (*Result, error) {
	proj, err := Project(m.Standardized)
	if err != nil {
		return nil, fmt.Errorf("archetype projection: %w", err)
	}
	model, err := cluster.FitK(ctx, m.Points(), k, opts...)
	if err != nil {
		return nil, fmt.Errorf("archetype clustering: %w", err)
	}
	return Build(m, model, proj), nil
}

// Build assembles a Result from an already fitted model and projection.
func Build(m *features.Matrix, model *cluster.Model, proj *Projection) *Result {
	return &Result{
		K:          model.K,
		Features:   append([]string(nil), m.Features...),
		Labels:     append([]int(nil), model.Labels...),
		Inertia:    model.Inertia,
		Projection: proj,
		Profiles:   Profiles(m, model),
	}
}

// Profiles averages the raw features of every populated cluster.
// Empty clusters are skipped.
func Profiles(m *features.Matrix, model *cluster.Model) []Profile {
	p := m.Cols()
	sums := make([][]float64, model.K)
	counts := make([]int, model.K)
	for i, label := range model.Labels {
		if sums[label] == nil {
			sums[label] = make([]float64, p)
		}
		for j, v := range m.RawRow(i) {
			sums[label][j] += v
		}
		counts[label]++
	}

	profiles := make([]Profile, 0, model.K)
	for c := 0; c < model.K; c++ {
		if counts[c] == 0 {
			continue
		}
		means := sums[c]
		for j := range means {
			means[j] /= float64(counts[c])
		}
		profiles = append(profiles, Profile{
			Cluster:  c,
			Size:     counts[c],
			Means:    means,
			Centroid: append([]float64(nil), model.Centroids[c]...),
		})
	}
	return profiles
}
