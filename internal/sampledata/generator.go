package sampledata

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/okian/playbook/internal/domain/model"
)

// ErrInvalidConfig is returned for configurations that cannot generate a table.
var ErrInvalidConfig = errors.New("invalid sample data config")

// lowUsageFactor scales the usage stat of below-threshold players.
const lowUsageFactor = 0.2

var firstNames = []string{ //nolint:gochecknoglobals // fixed lookup table
	"Aaron", "Brock", "Caleb", "Derek", "Eli", "Frank", "Gus", "Hank",
	"Isaac", "Jalen", "Kyle", "Lamar", "Mike", "Nate", "Omar", "Pat",
}

var lastNames = []string{ //nolint:gochecknoglobals // fixed lookup table
	"Adams", "Brooks", "Carter", "Davis", "Evans", "Foster", "Green", "Harris",
	"Irving", "Jones", "King", "Lewis", "Moore", "Nelson", "Owens", "Parker",
	"Quinn", "Reed", "Scott", "Turner", "Underwood", "Vaughn", "Walker", "Young",
}

type group struct {
	position   string
	count      int
	archetypes []archetype
}

// Generate builds a deterministic table for cfg. Row order is season
// ascending, then QB, RB, WR, TE. A player keeps the same name, team and
// archetype across seasons.
func Generate(cfg Config) ([]model.PlayerSeason, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	seed := uint64(cfg.Seed) //nolint:gosec // seed is reinterpreted, not range-checked
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	groups := []group{
		{position: "QB", count: cfg.QBs, archetypes: qbArchetypes},
		{position: "RB", count: cfg.RBs, archetypes: rbArchetypes},
		{position: "WR", count: cfg.WRs, archetypes: wrArchetypes},
		{position: "TE", count: cfg.TEs, archetypes: teArchetypes},
	}

	var out []model.PlayerSeason
	for s := 0; s < cfg.Seasons; s++ {
		season := cfg.FirstSeason + s
		player := 0
		for _, g := range groups {
			total := g.count + cfg.BelowUsage
			if g.count == 0 {
				total = 0
			}
			for i := 0; i < total; i++ {
				a := g.archetypes[i%len(g.archetypes)]
				rec := model.PlayerSeason{
					PlayerKey: model.PlayerKey{
						PlayerName: playerName(player),
						Team:       teams[player%len(teams)],
						Season:     season,
						Position:   g.position,
					},
					Stats: make(map[string]float64, len(a.means)),
				}
				for _, stat := range sortedStats(a.means) {
					v := draw(a.means[stat], stat, noise)
					if stat == a.usage {
						if i >= g.count {
							v = math.Round(a.means[stat] * lowUsageFactor)
						}
						rec.Stats[stat] = v
						continue
					}
					if cfg.MissingRatio > 0 && rng.Float64() < cfg.MissingRatio {
						continue
					}
					rec.Stats[stat] = v
				}
				out = append(out, rec)
				player++
			}
		}
	}
	return out, nil
}

func validate(cfg Config) error {
	switch {
	case cfg.Seasons < 1:
		return fmt.Errorf("%w: seasons must be positive", ErrInvalidConfig)
	case cfg.QBs < 0 || cfg.RBs < 0 || cfg.WRs < 0 || cfg.TEs < 0 || cfg.BelowUsage < 0:
		return fmt.Errorf("%w: player counts must not be negative", ErrInvalidConfig)
	case cfg.MissingRatio < 0 || cfg.MissingRatio >= 1:
		return fmt.Errorf("%w: missing ratio must be in [0,1)", ErrInvalidConfig)
	}
	total := cfg.QBs + cfg.RBs + cfg.WRs + cfg.TEs + 4*cfg.BelowUsage
	if total > len(firstNames)*len(lastNames) {
		return fmt.Errorf("%w: at most %d players per season", ErrInvalidConfig, len(firstNames)*len(lastNames))
	}
	return nil
}

// draw samples around mean; counting stats are rounded and never negative.
func draw(mean float64, stat string, noise distuv.Normal) float64 {
	sigma := math.Max(math.Abs(mean)*noiseRatio, 0.05)
	v := mean + sigma*noise.Rand()
	if signedStats[stat] {
		return math.Round(v*1000) / 1000
	}
	return math.Max(0, math.Round(v))
}

func playerName(i int) string {
	return firstNames[i%len(firstNames)] + " " + lastNames[(i/len(firstNames))%len(lastNames)]
}

func sortedStats(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
