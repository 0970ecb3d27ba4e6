package position

import "github.com/okian/playbook/internal/domain/model"

// Derived is a feature computed as the sum of other stats.
type Derived struct {
	Name       string
	Components []string
}

// DerivedFeatures lists the summed features available to every class.
var DerivedFeatures = []Derived{
	{Name: "total_tds", Components: []string{"passing_tds", "rushing_tds"}},
	{Name: "total_first_downs", Components: []string{"passing_first_downs", "rushing_first_downs"}},
	{Name: "total_turnovers", Components: []string{"interceptions", "rushing_fumbles_lost", "sack_fumbles_lost"}},
}

// WithDerived returns a copy of rec with every derived feature filled in.
// Missing components count as zero.
func WithDerived(rec model.PlayerSeason) model.PlayerSeason {
	out := rec.Clone()
	for _, d := range DerivedFeatures {
		var sum float64
		for _, c := range d.Components {
			sum += rec.ValueOrZero(c)
		}
		out.Stats[d.Name] = sum
	}
	return out
}
