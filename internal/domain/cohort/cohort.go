// Package cohort selects the player-season rows that are modeled together.
package cohort

import (
	"fmt"

	"github.com/okian/playbook/internal/domain/model"
	"github.com/okian/playbook/internal/domain/position"
)

// Filter selects a cohort from a table.
// A nil MinUsage applies the class default.
type Filter struct {
	Season   int
	Class    model.PositionClass
	MinUsage *float64
}

// Cohort is an ordered, filtered set of records plus the profile used to pick them.
type Cohort struct {
	Season   int
	Profile  position.Profile
	MinUsage float64
	Records  []model.PlayerSeason
}

// Size returns the number of records.
func (c *Cohort) Size() int { return len(c.Records) }

// Keys returns the identities of the records in cohort order.
func (c *Cohort) Keys() []model.PlayerKey {
	keys := make([]model.PlayerKey, len(c.Records))
	for i, r := range c.Records {
		keys[i] = r.PlayerKey
	}
	return keys
}

// Build filters table by season, position class and minimum usage.
// Input rows are never modified; each selected record is a copy with derived
// features filled in. Table order is preserved.
func Build(table []model.PlayerSeason, f Filter) (*Cohort, error) {
	profile, err := position.Lookup(f.Class)
	if err != nil {
		return nil, err
	}

	minUsage := profile.UsageDefault
	if f.MinUsage != nil {
		minUsage = *f.MinUsage
	}
	if err := profile.ValidateUsage(minUsage); err != nil {
		return nil, fmt.Errorf("build cohort: %w", err)
	}

	c := &Cohort{
		Season:   f.Season,
		Profile:  profile,
		MinUsage: minUsage,
	}
	for _, rec := range table {
		if rec.Season != f.Season || !profile.Includes(rec.Position) {
			continue
		}
		if rec.ValueOrZero(profile.UsageField) < minUsage {
			continue
		}
		c.Records = append(c.Records, position.WithDerived(rec))
	}
	return c, nil
}
