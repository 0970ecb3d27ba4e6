package sampledata

// archetype is a planted statistical profile; every stat is drawn around its mean.
type archetype struct {
	name  string
	usage string
	means map[string]float64
}

// signedStats may go negative and are not rounded.
var signedStats = map[string]bool{ //nolint:gochecknoglobals // fixed lookup table
	"passing_epa":   true,
	"rushing_epa":   true,
	"receiving_epa": true,
	"pacr":          true,
	"dakota":        true,
	"racr":          true,
}

var qbArchetypes = []archetype{ //nolint:gochecknoglobals // fixed lookup table
	{name: "pocket passer", usage: "attempts", means: map[string]float64{
		"attempts": 580, "passing_epa": 110, "rushing_epa": 2, "pacr": 1.0, "dakota": 0.15,
		"passing_tds": 32, "rushing_tds": 1, "passing_first_downs": 210, "rushing_first_downs": 8,
		"sacks": 25, "interceptions": 9, "rushing_fumbles_lost": 1, "sack_fumbles_lost": 3,
		"passing_yards": 4500, "rushing_yards": 80,
	}},
	{name: "dual threat", usage: "attempts", means: map[string]float64{
		"attempts": 470, "passing_epa": 40, "rushing_epa": 35, "pacr": 0.85, "dakota": 0.1,
		"passing_tds": 22, "rushing_tds": 9, "passing_first_downs": 150, "rushing_first_downs": 45,
		"sacks": 40, "interceptions": 10, "rushing_fumbles_lost": 3, "sack_fumbles_lost": 4,
		"passing_yards": 3400, "rushing_yards": 750,
	}},
	{name: "game manager", usage: "attempts", means: map[string]float64{
		"attempts": 400, "passing_epa": 5, "rushing_epa": 1, "pacr": 0.9, "dakota": 0.05,
		"passing_tds": 15, "rushing_tds": 2, "passing_first_downs": 120, "rushing_first_downs": 10,
		"sacks": 30, "interceptions": 11, "rushing_fumbles_lost": 2, "sack_fumbles_lost": 4,
		"passing_yards": 2800, "rushing_yards": 120,
	}},
	{name: "gunslinger", usage: "attempts", means: map[string]float64{
		"attempts": 600, "passing_epa": 60, "rushing_epa": -2, "pacr": 1.1, "dakota": 0.08,
		"passing_tds": 35, "rushing_tds": 0, "passing_first_downs": 220, "rushing_first_downs": 5,
		"sacks": 20, "interceptions": 18, "rushing_fumbles_lost": 1, "sack_fumbles_lost": 2,
		"passing_yards": 4900, "rushing_yards": 40,
	}},
}

var rbArchetypes = []archetype{ //nolint:gochecknoglobals // fixed lookup table
	{name: "workhorse", usage: "carries", means: map[string]float64{
		"carries": 300, "rushing_epa": 5, "rushing_tds": 11, "rushing_yards": 1300,
		"rushing_first_downs": 70, "rushing_fumbles": 3,
	}},
	{name: "change of pace", usage: "carries", means: map[string]float64{
		"carries": 110, "rushing_epa": 8, "rushing_tds": 4, "rushing_yards": 600,
		"rushing_first_downs": 30, "rushing_fumbles": 1,
	}},
	{name: "goal line", usage: "carries", means: map[string]float64{
		"carries": 150, "rushing_epa": -4, "rushing_tds": 10, "rushing_yards": 500,
		"rushing_first_downs": 35, "rushing_fumbles": 2,
	}},
}

var wrArchetypes = []archetype{ //nolint:gochecknoglobals // fixed lookup table
	{name: "alpha", usage: "targets", means: map[string]float64{
		"targets": 150, "receiving_epa": 45, "receiving_tds": 10, "racr": 0.95,
		"receiving_yards_after_catch": 450, "receiving_first_downs": 70, "receiving_fumbles": 1,
		"receiving_yards": 1400,
	}},
	{name: "deep threat", usage: "targets", means: map[string]float64{
		"targets": 95, "receiving_epa": 25, "receiving_tds": 7, "racr": 1.2,
		"receiving_yards_after_catch": 200, "receiving_first_downs": 40, "receiving_fumbles": 0,
		"receiving_yards": 950,
	}},
	{name: "yards after catch", usage: "targets", means: map[string]float64{
		"targets": 110, "receiving_epa": 10, "receiving_tds": 4, "racr": 1.05,
		"receiving_yards_after_catch": 600, "receiving_first_downs": 45, "receiving_fumbles": 1,
		"receiving_yards": 900,
	}},
}

var teArchetypes = []archetype{ //nolint:gochecknoglobals // fixed lookup table
	{name: "receiving tight end", usage: "targets", means: map[string]float64{
		"targets": 110, "receiving_epa": 20, "receiving_tds": 6, "racr": 1.1,
		"receiving_yards_after_catch": 400, "receiving_first_downs": 45, "receiving_fumbles": 1,
		"receiving_yards": 900,
	}},
	{name: "blocking tight end", usage: "targets", means: map[string]float64{
		"targets": 75, "receiving_epa": 2, "receiving_tds": 2, "racr": 1.1,
		"receiving_yards_after_catch": 150, "receiving_first_downs": 18, "receiving_fumbles": 0,
		"receiving_yards": 350,
	}},
}
