// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strconv"
)

// PositionClass groups on-field positions that are modeled together.
type PositionClass string

// Supported position classes.
const (
	QB       PositionClass = "QB"
	RB       PositionClass = "RB"
	Receiver PositionClass = "Receiver"
)

// PlayerKey identifies a player-season row.
type PlayerKey struct {
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Season     int    `json:"season"`
	Position   string `json:"position"`
}

// String renders the key as name/team/season/position.
func (k PlayerKey) String() string {
	return k.PlayerName + "/" + k.Team + "/" + strconv.Itoa(k.Season) + "/" + k.Position
}

// PlayerSeason is one season-aggregated row of the statistics table.
// Stats holds every numeric column; a missing key means the value is missing.
type PlayerSeason struct {
	PlayerKey
	Stats map[string]float64
}

// Value returns the named stat and whether it is present and finite.
func (p PlayerSeason) Value(name string) (float64, bool) {
	v, ok := p.Stats[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValueOrZero returns the named stat, treating missing values as 0.
func (p PlayerSeason) ValueOrZero(name string) float64 {
	v, _ := p.Value(name)
	return v
}

// Clone returns a copy whose Stats map can be modified freely.
func (p PlayerSeason) Clone() PlayerSeason {
	stats := make(map[string]float64, len(p.Stats))
	for k, v := range p.Stats {
		stats[k] = v
	}
	return PlayerSeason{PlayerKey: p.PlayerKey, Stats: stats}
}
