package sampledata

// Default generation sizes.
const (
	defaultSeed        = 23
	defaultFirstSeason = 2019
	defaultSeasons     = 5
	defaultQBs         = 36
	defaultRBs         = 48
	defaultWRs         = 72
	defaultTEs         = 32
	defaultBelowUsage  = 6
)

// File permission constants.
const (
	outputFilePermission = 0o644
)

// noiseRatio scales the per-stat noise relative to the archetype mean.
const noiseRatio = 0.08

var teams = []string{ //nolint:gochecknoglobals // fixed lookup table
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"LAC", "LAR", "LV", "MIA", "MIN", "NE", "NO", "NYG",
	"NYJ", "PHI", "PIT", "SEA", "SF", "TB", "TEN", "WAS",
}
