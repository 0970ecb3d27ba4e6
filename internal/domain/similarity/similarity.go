// Package similarity ranks cohort members by their distance to a query player
// in standardized feature space.
package similarity

import (
	"cmp"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/playbook/internal/domain/features"
	"github.com/okian/playbook/internal/domain/model"
)

// DefaultTopN is used when the caller does not ask for a specific count.
const DefaultTopN = 10

// Query identifies the player to compare against. Team is optional and only
// narrows the match.
type Query struct {
	PlayerName string
	Team       string
}

// Match is one ranked neighbour.
type Match struct {
	Player   model.PlayerKey `json:"player"`
	Index    int             `json:"index"`
	Distance float64         `json:"distance"`
	Score    float64         `json:"similarity_score"`
	Features []float64       `json:"features"`
}

// Score maps a distance onto (0, 100]; only a zero distance scores 100.
func Score(distance float64) float64 {
	return 100 / (1 + distance)
}

// Find returns the cohort index of the first record matching q.
func Find(keys []model.PlayerKey, q Query) (int, error) {
	name := strings.TrimSpace(q.PlayerName)
	team := strings.TrimSpace(q.Team)
	for i, k := range keys {
		if !strings.EqualFold(k.PlayerName, name) {
			continue
		}
		if team != "" && !strings.EqualFold(k.Team, team) {
			continue
		}
		return i, nil
	}
	return -1, &PlayerNotFoundError{PlayerName: name, Team: team}
}

// Search ranks every other player in the cohort by Euclidean distance to the
// query, nearest first. Ties keep cohort order. Rows belonging to the query
// player are excluded. n <= 0 selects DefaultTopN.
func Search(m *features.Matrix, keys []model.PlayerKey, q Query, n int) ([]Match, error) {
	idx, err := Find(keys, q)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}

	target := m.Row(idx)
	self := keys[idx].PlayerName
	matches := make([]Match, 0, len(keys)-1)
	for i, k := range keys {
		if i == idx || strings.EqualFold(k.PlayerName, self) {
			continue
		}
		d := floats.Distance(m.Row(i), target, 2)
		matches = append(matches, Match{
			Player:   k,
			Index:    i,
			Distance: d,
			Score:    Score(d),
		})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if len(matches) > n {
		matches = matches[:n]
	}
	for i := range matches {
		matches[i].Features = m.RawRow(matches[i].Index)
	}
	return matches, nil
}
