package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/playbook/internal/domain/model"
)

// Identity columns; every other column is a numeric stat.
const (
	colPlayerName = "player_name"
	colTeam       = "team"
	colYear       = "year"
	colSeason     = "season"
	colPosition   = "position"
)

// CSVSource reads a header-first CSV file from disk.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a source for the file at path.
func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (s *CSVSource) ID() string { return "csv:" + s.Path }

// Version stamps the file by size and modification time.
func (s *CSVSource) Version(_ context.Context) (string, error) {
	fi, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", s.Path, err)
	}
	return fmt.Sprintf("%d-%d", fi.Size(), fi.ModTime().UnixNano()), nil
}

func (s *CSVSource) Load(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer func() { _ = f.Close() }()
	return ParseCSV(ctx, f)
}

type header struct {
	name, team, season, position int
	stats                        map[int]string
	columns                      []string
}

func parseHeader(row []string) (header, error) {
	h := header{name: -1, team: -1, season: -1, position: -1, stats: map[int]string{}}
	for i, raw := range row {
		col := strings.ToLower(strings.TrimSpace(raw))
		switch col {
		case colPlayerName:
			h.name = i
		case colTeam:
			h.team = i
		case colYear, colSeason:
			if h.season < 0 {
				h.season = i
			}
		case colPosition:
			h.position = i
		case "":
		default:
			h.stats[i] = col
			h.columns = append(h.columns, col)
		}
	}
	required := []struct {
		col string
		idx int
	}{{colPlayerName, h.name}, {colTeam, h.team}, {colYear, h.season}, {colPosition, h.position}}
	for _, r := range required {
		if r.idx < 0 {
			return h, fmt.Errorf("%w: %s", ErrMissingColumn, r.col)
		}
	}
	return h, nil
}

// ParseCSV reads a statistics table. Empty, NA, NaN and unparsable stat cells
// are left missing.
func ParseCSV(ctx context.Context, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h, err := parseHeader(first)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: h.columns}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rec, err := parseRow(h, row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		t.Records = append(t.Records, rec)
	}
	if len(t.Records) == 0 {
		return nil, ErrEmptyDataset
	}
	return t, nil
}

func parseRow(h header, row []string) (model.PlayerSeason, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	season, err := strconv.ParseFloat(cell(h.season), 64)
	if err != nil || season != math.Trunc(season) {
		return model.PlayerSeason{}, fmt.Errorf("invalid season %q", cell(h.season))
	}
	rec := model.PlayerSeason{
		PlayerKey: model.PlayerKey{
			PlayerName: cell(h.name),
			Team:       cell(h.team),
			Season:     int(season),
			Position:   strings.ToUpper(cell(h.position)),
		},
		Stats: make(map[string]float64, len(h.stats)),
	}
	if rec.PlayerName == "" {
		return model.PlayerSeason{}, errors.New("empty player_name")
	}
	for i, col := range h.stats {
		if v, ok := parseStat(cell(i)); ok {
			rec.Stats[col] = v
		}
	}
	return rec, nil
}

func parseStat(s string) (float64, bool) {
	if s == "" || strings.EqualFold(s, "NA") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
