package dataset

import "time"

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithTTL bounds how long a loaded table is reused. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithStaleFunc installs an extra invalidation hook consulted on every lookup.
func WithStaleFunc(fn StaleFunc) Option {
	return func(c *Cache) {
		c.stale = fn
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}
