package sampledata

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/playbook/pkg/logger"
)

// Run generates a table for cfg and writes it as CSV to cfg.Output, or to
// stdout when no output path is set.
func Run(ctx context.Context, cfg Config) error {
	log := logger.Named("sampledata").With(logger.String("generation_id", uuid.NewString()))
	start := time.Now()

	records, err := Generate(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := WriteCSV(w, records); err != nil {
		return fmt.Errorf("failed to write sample data: %w", err)
	}

	log.Info(ctx, "sample data generated",
		logger.Int("rows", len(records)),
		logger.Int("seasons", cfg.Seasons),
		logger.Int64("seed", cfg.Seed),
		logger.String("output", cfg.Output),
		logger.Duration("duration", time.Since(start)),
	)
	return nil
}

// ShowHelp prints usage information for the sample data tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Playbook Sample Data Generator
==============================

Writes a synthetic season-stats CSV with planted QB, RB, WR and TE archetypes.

Usage:
  go run ./cmd/sample-data [options]

Options:
  -seed int          Random seed (default 23)
  -first-season int  Oldest season (default 2019)
  -seasons int       Number of seasons (default 5)
  -qbs int           Quarterbacks per season (default 36)
  -rbs int           Running backs per season (default 48)
  -wrs int           Wide receivers per season (default 72)
  -tes int           Tight ends per season (default 32)
  -below-usage int   Extra low-usage players per position (default 6)
  -missing float     Fraction of stat cells left empty (default 0)
  -output string     Output CSV path (default: stdout)
  -help              Show this help message

Examples:
  go run ./cmd/sample-data -output data/player_seasons.csv
  go run ./cmd/sample-data -seasons 1 -wrs 40 -tes 10 -missing 0.05
`)
}
