// Package dataset loads the season-aggregated statistics table and caches it
// per source.
package dataset

import (
	"cmp"
	"context"
	"slices"

	"github.com/okian/playbook/internal/domain/model"
)

// Table is an immutable, loaded statistics table.
type Table struct {
	// Records in file order.
	Records []model.PlayerSeason
	// Columns lists the numeric stat columns found in the source.
	Columns []string
}

// Rows returns the number of records.
func (t *Table) Rows() int { return len(t.Records) }

// Seasons returns the distinct seasons present, newest first.
func (t *Table) Seasons() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range t.Records {
		if _, ok := seen[r.Season]; ok {
			continue
		}
		seen[r.Season] = struct{}{}
		out = append(out, r.Season)
	}
	slices.SortFunc(out, func(a, b int) int { return cmp.Compare(b, a) })
	return out
}

// Source provides a table. Implementations must be safe for concurrent use.
type Source interface {
	// ID identifies the source for caching, e.g. the file path.
	ID() string
	// Version changes whenever the underlying data changes.
	Version(ctx context.Context) (string, error)
	// Load reads the full table.
	Load(ctx context.Context) (*Table, error)
}

// StaticSource serves an in-memory table. Useful for tests and embedding.
type StaticSource struct {
	Name  string
	Table *Table
}

// NewStaticSource wraps records as a Source.
func NewStaticSource(name string, records []model.PlayerSeason) *StaticSource {
	cols := map[string]struct{}{}
	for _, r := range records {
		for k := range r.Stats {
			cols[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(cols))
	for k := range cols {
		columns = append(columns, k)
	}
	slices.Sort(columns)
	return &StaticSource{Name: name, Table: &Table{Records: records, Columns: columns}}
}

func (s *StaticSource) ID() string { return "static:" + s.Name }

func (s *StaticSource) Version(_ context.Context) (string, error) { return "static", nil }

func (s *StaticSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Table == nil {
		return nil, ErrEmptyDataset
	}
	return s.Table, nil
}
