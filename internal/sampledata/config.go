// Package sampledata generates synthetic, season-aggregated player statistics
// with planted archetypes so the modeling engine can be exercised end to end.
package sampledata

// Config holds configuration for a generation run.
type Config struct {
	Seed         int64  // Seed for reproducible output
	FirstSeason  int    // Oldest season generated
	Seasons      int    // Number of consecutive seasons
	QBs          int    // Quarterbacks per season
	RBs          int    // Running backs per season
	WRs          int    // Wide receivers per season
	TEs          int    // Tight ends per season
	BelowUsage   int    // Extra low-usage players per position and season
	MissingRatio float64 // Fraction of non-usage cells left empty
	Output       string // Output CSV path; empty writes to stdout
}

// DefaultConfig returns the configuration used by the sample-data command.
func DefaultConfig() Config {
	return Config{
		Seed:         defaultSeed,
		FirstSeason:  defaultFirstSeason,
		Seasons:      defaultSeasons,
		QBs:          defaultQBs,
		RBs:          defaultRBs,
		WRs:          defaultWRs,
		TEs:          defaultTEs,
		BelowUsage:   defaultBelowUsage,
		MissingRatio: 0,
	}
}
