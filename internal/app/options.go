package service

import (
	"github.com/okian/playbook/internal/adapters/dataset"
	"github.com/okian/playbook/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the dataset the service models.
func WithSource(src dataset.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithCache sets the dataset cache shared across runs.
func WithCache(c *dataset.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed sets the base k-means seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithRestarts sets the number of seeded restarts per k.
func WithRestarts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.restarts = n
		}
	}
}

// WithMaxIterations caps Lloyd iterations per restart.
func WithMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithTolerance sets the relative centroid-shift tolerance.
func WithTolerance(tol float64) Option {
	return func(s *Service) {
		if tol >= 0 {
			s.tolerance = tol
		}
	}
}

// WithParallelism bounds concurrent restarts.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithTopN sets the default and maximum similar-player counts.
func WithTopN(def, max int) Option {
	return func(s *Service) {
		if def > 0 && max >= def {
			s.topN = def
			s.maxTopN = max
		}
	}
}

// WithStrictK controls whether out-of-range k overrides are rejected (true)
// or clamped into range (false).
func WithStrictK(strict bool) Option {
	return func(s *Service) {
		s.strictK = strict
	}
}
