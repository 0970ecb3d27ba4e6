package cluster

import "runtime"

// Default clustering configuration constants.
const (
	DefaultSeed          = 23
	DefaultRestarts      = 10
	DefaultMaxIterations = 300
	DefaultTolerance     = 1e-4
)

type config struct {
	seed          int64
	restarts      int
	maxIterations int
	tolerance     float64
	parallelism   int
}

func newConfig(opts ...Option) config {
	c := config{
		seed:          DefaultSeed,
		restarts:      DefaultRestarts,
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
		parallelism:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option applies a configuration option to a clustering run.
type Option func(*config)

// WithSeed sets the base seed. Restart r is seeded with seed+r.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithRestarts sets the number of independent k-means++ restarts per k.
func WithRestarts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.restarts = n
		}
	}
}

// WithMaxIterations caps Lloyd iterations per restart.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithTolerance sets the convergence tolerance, relative to the mean feature variance.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol >= 0 {
			c.tolerance = tol
		}
	}
}

// WithParallelism bounds how many restarts run concurrently.
func WithParallelism(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.parallelism = n
		}
	}
}
