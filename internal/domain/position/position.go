// Package position maps each position class to the features, usage field and
// usage thresholds used to model it.
package position

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/playbook/internal/domain/model"
)

// Profile describes how a position class is modeled.
type Profile struct {
	Class        model.PositionClass `json:"class"`
	Positions    []string            `json:"positions"`
	Features     []string            `json:"features"`
	UsageField   string              `json:"usage_field"`
	UsageDefault float64             `json:"usage_default"`
	UsageMax     float64             `json:"usage_max"`
}

// Includes reports whether a roster position belongs to the class.
func (p Profile) Includes(pos string) bool {
	for _, candidate := range p.Positions {
		if strings.EqualFold(candidate, pos) {
			return true
		}
	}
	return false
}

// ValidateUsage checks a minimum usage threshold against the class bounds.
// NaN is rejected.
func (p Profile) ValidateUsage(minUsage float64) error {
	if math.IsNaN(minUsage) || minUsage < 0 || minUsage > p.UsageMax {
		return fmt.Errorf("%w: %s must be within [0, %g], got %g", ErrInvalidUsage, p.UsageField, p.UsageMax, minUsage)
	}
	return nil
}

var table = map[model.PositionClass]Profile{
	model.QB: {
		Class:     model.QB,
		Positions: []string{"QB"},
		Features: []string{
			"passing_epa", "rushing_epa", "pacr", "dakota", "total_tds",
			"total_first_downs", "sacks", "total_turnovers", "passing_yards", "rushing_yards",
		},
		UsageField:   "attempts",
		UsageDefault: 150,
		UsageMax:     600,
	},
	model.RB: {
		Class:     model.RB,
		Positions: []string{"RB"},
		Features: []string{
			"rushing_epa", "rushing_tds", "carries", "rushing_yards", "rushing_first_downs", "rushing_fumbles",
		},
		UsageField:   "carries",
		UsageDefault: 75,
		UsageMax:     400,
	},
	model.Receiver: {
		Class:     model.Receiver,
		Positions: []string{"WR", "TE"},
		Features: []string{
			"receiving_epa", "receiving_tds", "racr", "receiving_yards_after_catch",
			"receiving_first_downs", "receiving_fumbles", "receiving_yards",
		},
		UsageField:   "targets",
		UsageDefault: 60,
		UsageMax:     200,
	},
}

// Lookup resolves a position class. Matching is case-insensitive.
func Lookup(class model.PositionClass) (Profile, error) {
	for key, p := range table {
		if strings.EqualFold(string(key), string(class)) {
			return clone(p), nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownPosition, class)
}

// Profiles returns every class profile ordered by class name.
func Profiles() []Profile {
	out := make([]Profile, 0, len(table))
	for _, p := range table {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

func clone(p Profile) Profile {
	p.Positions = append([]string(nil), p.Positions...)
	p.Features = append([]string(nil), p.Features...)
	return p
}
