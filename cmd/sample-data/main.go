package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/playbook/internal/sampledata"
	"github.com/okian/playbook/pkg/logger"
)

const defaultTimeout = time.Minute

func main() {
	def := sampledata.DefaultConfig()
	var (
		seed        = flag.Int64("seed", def.Seed, "Random seed")
		firstSeason = flag.Int("first-season", def.FirstSeason, "Oldest season generated")
		seasons     = flag.Int("seasons", def.Seasons, "Number of consecutive seasons")
		qbs         = flag.Int("qbs", def.QBs, "Quarterbacks per season")
		rbs         = flag.Int("rbs", def.RBs, "Running backs per season")
		wrs         = flag.Int("wrs", def.WRs, "Wide receivers per season")
		tes         = flag.Int("tes", def.TEs, "Tight ends per season")
		belowUsage  = flag.Int("below-usage", def.BelowUsage, "Extra low-usage players per position and season")
		missing     = flag.Float64("missing", def.MissingRatio, "Fraction of stat cells left empty")
		output      = flag.String("output", "", "Output CSV path (default: stdout)")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	// Logs go to stderr so stdout stays clean CSV.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := sampledata.Config{
		Seed:         *seed,
		FirstSeason:  *firstSeason,
		Seasons:      *seasons,
		QBs:          *qbs,
		RBs:          *rbs,
		WRs:          *wrs,
		TEs:          *tes,
		BelowUsage:   *belowUsage,
		MissingRatio: *missing,
		Output:       *output,
	}
	if err := sampledata.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
