// Package service provides the modeling engine behind the HTTP API: cohort
// selection, the cluster count sweep, archetype fitting and similarity search.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/playbook/internal/adapters/dataset"
	"github.com/okian/playbook/internal/domain/archetype"
	"github.com/okian/playbook/internal/domain/cluster"
	"github.com/okian/playbook/internal/domain/cohort"
	"github.com/okian/playbook/internal/domain/features"
	"github.com/okian/playbook/internal/domain/model"
	"github.com/okian/playbook/internal/domain/position"
	"github.com/okian/playbook/internal/domain/similarity"
	"github.com/okian/playbook/pkg/logger"
	"github.com/okian/playbook/pkg/metrics"
)

// Service runs one modeling pass per request. Apart from the dataset cache it
// keeps no state between runs.
type Service struct {
	mu sync.RWMutex

	source dataset.Source
	cache  *dataset.Cache

	// Clustering configuration
	seed          int64
	restarts      int
	maxIterations int
	tolerance     float64
	parallelism   int
	strictK       bool

	// Similarity configuration
	topN    int
	maxTopN int

	// State
	started      bool
	modelRuns    atomic.Int64
	similarRuns  atomic.Int64
	failedRuns   atomic.Int64
	lastDuration atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		seed:          cluster.DefaultSeed,
		restarts:      cluster.DefaultRestarts,
		maxIterations: cluster.DefaultMaxIterations,
		tolerance:     cluster.DefaultTolerance,
		parallelism:   runtime.NumCPU(),
		strictK:       true,
		topN:          similarity.DefaultTopN,
		maxTopN:       5 * similarity.DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = dataset.NewCache()
	}
	return s
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Start warms the dataset cache. A load failure is logged but not fatal: the
// source may become available later and every request retries it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting modeling service...")

	if s.source != nil {
		table, err := s.cache.Get(ctx, s.source)
		if err != nil {
			s.logger.Warn(ctx, "dataset not loaded at startup", logger.Error(err))
		} else {
			s.logger.Info(ctx, "dataset loaded",
				logger.String("source", s.source.ID()),
				logger.Int("rows", table.Rows()),
				logger.Int("seasons", len(table.Seasons())),
			)
		}
	}

	s.started = true
	s.logger.Info(ctx, "modeling service started",
		logger.Int64("seed", s.seed),
		logger.Int("restarts", s.restarts),
		logger.Int("parallelism", s.parallelism),
		logger.Bool("strictK", s.strictK),
	)
	return nil
}

// Stop releases cached datasets.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cache.Purge()
	s.started = false
	s.log().Info(context.Background(), "modeling service stopped")
}

func (s *Service) clusterOptions() []cluster.Option {
	return []cluster.Option{
		cluster.WithSeed(s.seed),
		cluster.WithRestarts(s.restarts),
		cluster.WithMaxIterations(s.maxIterations),
		cluster.WithTolerance(s.tolerance),
		cluster.WithParallelism(s.parallelism),
	}
}

func (s *Service) table(ctx context.Context) (*dataset.Table, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	return s.cache.Get(ctx, s.source)
}

// prepare builds the cohort and its feature matrix.
func (s *Service) prepare(ctx context.Context, season int, class model.PositionClass, minUsage *float64) (*cohort.Cohort, *features.Matrix, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := cohort.Build(table.Records, cohort.Filter{Season: season, Class: class, MinUsage: minUsage})
	if err != nil {
		return nil, nil, err
	}
	metrics.UpdateCohortSize(string(c.Profile.Class), c.Size())
	m, err := features.Prepare(c.Records, c.Profile.Features)
	if err != nil {
		return c, nil, fmt.Errorf("%s %d cohort: %w", c.Profile.Class, season, err)
	}
	return c, m, nil
}

// resolveK applies the override policy; nil means no override.
func (s *Service) resolveK(k *int) (int, bool, error) {
	if k == nil {
		return 0, false, nil
	}
	if s.strictK {
		if err := cluster.ValidateK(*k); err != nil {
			return 0, false, err
		}
		return *k, true, nil
	}
	return cluster.ClampK(*k), true, nil
}

// Model sweeps k over the cohort, recommends a cluster count and fits the
// archetypes at the chosen k. Results are all or nothing.
func (s *Service) Model(ctx context.Context, req ModelRequest) (report *ModelReport, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log().With(
		logger.String("run_id", runID),
		logger.Int("season", req.Season),
		logger.String("position", string(req.Position)),
	)
	defer func() { s.finish(ctx, log, "model", string(req.Position), start, err) }()

	override, hasOverride, err := s.resolveK(req.K)
	if err != nil {
		return nil, err
	}

	c, m, err := s.prepare(ctx, req.Season, req.Position, req.MinUsage)
	if err != nil {
		return nil, err
	}
	class := string(c.Profile.Class)

	ev, err := cluster.Evaluate(ctx, m.Points(), s.clusterOptions()...)
	if err != nil {
		return nil, fmt.Errorf("evaluate cluster counts: %w", err)
	}
	recommended, err := cluster.Recommend(ev.Scores)
	if err != nil {
		return nil, fmt.Errorf("recommend cluster count: %w", err)
	}
	chosen := recommended
	if hasOverride {
		chosen = override
	}

	proj, err := archetype.Project(m.Standardized)
	if err != nil {
		return nil, fmt.Errorf("project cohort: %w", err)
	}
	fitted, ok := ev.Model(chosen)
	if !ok {
		// Only k = 1 is outside the sweep.
		fitted, err = cluster.FitK(ctx, m.Points(), chosen, s.clusterOptions()...)
		if err != nil {
			return nil, fmt.Errorf("fit %d clusters: %w", chosen, err)
		}
	}
	result := archetype.Build(m, fitted, proj)

	report = &ModelReport{
		RunID:                  runID,
		Season:                 req.Season,
		Position:               c.Profile.Class,
		UsageField:             c.Profile.UsageField,
		MinUsage:               c.MinUsage,
		CohortSize:             c.Size(),
		Features:               result.Features,
		Diagnostics:            ev.Scores,
		RecommendedK:           recommended,
		ChosenK:                chosen,
		Inertia:                result.Inertia,
		ExplainedVarianceRatio: proj.ExplainedVarianceRatio,
		Loadings:               proj.Loadings,
		Assignments:            make([]Assignment, c.Size()),
		Profiles:               result.Profiles,
	}
	if hasOverride {
		requested := *req.K
		report.RequestedK = &requested
	}
	for i, key := range c.Keys() {
		report.Assignments[i] = Assignment{
			Player:  key,
			Cluster: result.Labels[i],
			PC1:     proj.Coordinates[i].PC1,
			PC2:     proj.Coordinates[i].PC2,
		}
	}

	for _, sc := range ev.Scores {
		if sc.K == recommended {
			metrics.UpdateRecommendedK(class, recommended, sc.Silhouette)
		}
	}
	log.Info(ctx, "archetype model run finished",
		logger.Int("cohort_size", c.Size()),
		logger.Int("recommended_k", recommended),
		logger.Int("chosen_k", chosen),
		logger.Float64("inertia", result.Inertia),
		logger.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// Similar ranks the cohort by distance to the requested player.
func (s *Service) Similar(ctx context.Context, req SimilarRequest) (report *SimilarReport, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log().With(
		logger.String("run_id", runID),
		logger.Int("season", req.Season),
		logger.String("position", string(req.Position)),
		logger.String("player", req.Player),
	)
	defer func() { s.finish(ctx, log, "similar", string(req.Position), start, err) }()

	if req.Player == "" {
		return nil, ErrNoPlayer
	}
	n := req.N
	if n <= 0 {
		n = s.topN
	}
	if n > s.maxTopN {
		n = s.maxTopN
	}

	c, m, err := s.prepare(ctx, req.Season, req.Position, req.MinUsage)
	if err != nil {
		return nil, err
	}
	keys := c.Keys()
	q := similarity.Query{PlayerName: req.Player, Team: req.Team}
	matches, err := similarity.Search(m, keys, q, n)
	if err != nil {
		return nil, err
	}
	idx, _ := similarity.Find(keys, q)

	log.Info(ctx, "similarity search finished",
		logger.Int("cohort_size", c.Size()),
		logger.Int("matches", len(matches)),
		logger.Duration("duration", time.Since(start)),
	)
	return &SimilarReport{
		RunID:         runID,
		Season:        req.Season,
		Position:      c.Profile.Class,
		MinUsage:      c.MinUsage,
		CohortSize:    c.Size(),
		Features:      append([]string(nil), m.Features...),
		Query:         keys[idx],
		QueryFeatures: m.RawRow(idx),
		Matches:       matches,
	}, nil
}

// finish records the outcome of a run.
func (s *Service) finish(ctx context.Context, log logger.Logger, op, pos string, start time.Time, err error) {
	elapsed := time.Since(start)
	s.lastDuration.Store(int64(elapsed))
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		s.failedRuns.Add(1)
		kind := ErrorKind(err)
		metrics.RecordDomainError(kind)
		if kind == KindInternal {
			log.Error(ctx, op+" run failed", logger.Error(err))
		} else {
			log.Warn(ctx, op+" run rejected", logger.String("kind", kind), logger.Error(err))
		}
	}
	switch op {
	case "model":
		s.modelRuns.Add(1)
		metrics.RecordModelRun(pos, outcome, float64(elapsed.Microseconds())/1000)
	case "similar":
		s.similarRuns.Add(1)
		metrics.RecordSimilarityQuery(pos, outcome)
	}
}

// Seasons lists the seasons in the dataset, newest first.
func (s *Service) Seasons(ctx context.Context) ([]int, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Seasons(), nil
}

// Positions lists the supported position classes with their features and usage bounds.
func (s *Service) Positions() []position.Profile {
	return position.Profiles()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"seed":           s.seed,
		"restarts":       s.restarts,
		"parallelism":    s.parallelism,
		"strictK":        s.strictK,
		"modelRuns":      s.modelRuns.Load(),
		"similarRuns":    s.similarRuns.Load(),
		"failedRuns":     s.failedRuns.Load(),
		"lastRunMs":      time.Duration(s.lastDuration.Load()).Milliseconds(),
		"cachedDatasets": s.cache.Len(),
	}
	if s.source != nil {
		stats["source"] = s.source.ID()
	}
	return stats
}
