package service

import (
	"github.com/okian/playbook/internal/domain/archetype"
	"github.com/okian/playbook/internal/domain/cluster"
	"github.com/okian/playbook/internal/domain/model"
	"github.com/okian/playbook/internal/domain/similarity"
)

// ModelRequest selects a cohort and an optional cluster count override.
type ModelRequest struct {
	Season   int
	Position model.PositionClass
	// MinUsage nil applies the position default.
	MinUsage *float64
	// K nil uses the recommended cluster count.
	K *int
}

// Assignment places one cohort member in a cluster and on the PCA plane.
type Assignment struct {
	Player  model.PlayerKey `json:"player"`
	Cluster int             `json:"cluster"`
	PC1     float64         `json:"pc1"`
	PC2     float64         `json:"pc2"`
}

// ModelReport is the full result of one archetype modeling run.
type ModelReport struct {
	RunID        string              `json:"run_id"`
	Season       int                 `json:"season"`
	Position     model.PositionClass `json:"position"`
	UsageField   string              `json:"usage_field"`
	MinUsage     float64             `json:"min_usage"`
	CohortSize   int                 `json:"cohort_size"`
	Features     []string            `json:"features"`
	Diagnostics  []cluster.Score     `json:"diagnostics"`
	RecommendedK int                 `json:"recommended_k"`
	ChosenK      int                 `json:"chosen_k"`
	// RequestedK is set when the caller overrode k; it differs from ChosenK
	// only when the override was clamped.
	RequestedK             *int                `json:"requested_k,omitempty"`
	Inertia                float64             `json:"inertia"`
	ExplainedVarianceRatio [2]float64          `json:"explained_variance_ratio"`
	Loadings               [2][]float64        `json:"loadings"`
	Assignments            []Assignment        `json:"assignments"`
	Profiles               []archetype.Profile `json:"profiles"`
}

// SimilarRequest selects a cohort and the player to compare against.
type SimilarRequest struct {
	Season   int
	Position model.PositionClass
	MinUsage *float64
	Player   string
	// Team optionally narrows the player match.
	Team string
	// N <= 0 uses the configured default.
	N int
}

// SimilarReport ranks the cohort against the query player.
type SimilarReport struct {
	RunID         string              `json:"run_id"`
	Season        int                 `json:"season"`
	Position      model.PositionClass `json:"position"`
	MinUsage      float64             `json:"min_usage"`
	CohortSize    int                 `json:"cohort_size"`
	Features      []string            `json:"features"`
	Query         model.PlayerKey     `json:"query"`
	QueryFeatures []float64           `json:"query_features"`
	Matches       []similarity.Match  `json:"matches"`
}
