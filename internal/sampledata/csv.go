package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/okian/playbook/internal/domain/model"
)

// WriteCSV writes records with the identity columns first and every stat
// column in name order. Missing stats are written as empty cells.
func WriteCSV(w io.Writer, records []model.PlayerSeason) error {
	seen := map[string]struct{}{}
	for _, r := range records {
		for k := range r.Stats {
			seen[k] = struct{}{}
		}
	}
	stats := make([]string, 0, len(seen))
	for k := range seen {
		stats = append(stats, k)
	}
	sort.Strings(stats)

	cw := csv.NewWriter(w)
	header := append([]string{"player_name", "team", "year", "position"}, stats...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(header))
	for _, r := range records {
		row[0], row[1], row[2], row[3] = r.PlayerName, r.Team, strconv.Itoa(r.Season), r.Position
		for i, s := range stats {
			if v, ok := r.Stats[s]; ok {
				row[4+i] = strconv.FormatFloat(v, 'f', -1, 64)
			} else {
				row[4+i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", r.PlayerKey, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
