package cluster

import "sort"

// MinOverrideK is the smallest cluster count a caller may request.
const MinOverrideK = 1

// Recommend returns the k with the highest silhouette, preferring the smaller k on ties.
func Recommend(scores []Score) (int, error) {
	if len(scores) == 0 {
		return 0, ErrNoScores
	}
	sorted := append([]Score(nil), scores...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].K < sorted[j].K })

	best := sorted[0]
	for _, s := range sorted[1:] {
		if s.Silhouette > best.Silhouette {
			best = s
		}
	}
	return best.K, nil
}

// ValidateK rejects cluster counts outside [MinOverrideK, MaxK].
func ValidateK(k int) error {
	if k < MinOverrideK || k > MaxK {
		return &InvalidKError{K: k, Min: MinOverrideK, Max: MaxK}
	}
	return nil
}

// ClampK forces k into [MinOverrideK, MaxK].
func ClampK(k int) int {
	switch {
	case k < MinOverrideK:
		return MinOverrideK
	case k > MaxK:
		return MaxK
	default:
		return k
	}
}
