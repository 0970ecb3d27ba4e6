package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/playbook/pkg/metrics"
)

// StaleFunc reports whether a cached table must be reloaded even though its
// version and TTL still match.
type StaleFunc func(id string, loadedAt time.Time) bool

type entry struct {
	table    *Table
	version  string
	loadedAt time.Time
}

// Cache holds one loaded table per source ID. Safe for concurrent use;
// concurrent misses for the same source share a single load.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	ttl   time.Duration
	stale StaleFunc
	now   func() time.Time
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the table for src, loading it on a miss. Every failure wraps
// ErrUnavailable; a caller whose ctx ends also gets ctx.Err() in the chain.
func (c *Cache) Get(ctx context.Context, src Source) (*Table, error) {
	id := src.ID()
	version, err := src.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if t, ok := c.lookup(id, version); ok {
		metrics.RecordDatasetCacheHit()
		return t, nil
	}
	metrics.RecordDatasetCacheMiss()

	// The shared load outlives any single caller; each caller still stops
	// waiting when its own ctx is done.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id+"@"+version, func() (any, error) {
		start := c.now()
		t, err := src.Load(loadCtx)
		latency := float64(c.now().Sub(start).Microseconds()) / 1000
		if err != nil {
			metrics.RecordDatasetLoad(metrics.OutcomeError, latency)
			return nil, err
		}
		metrics.RecordDatasetLoad(metrics.OutcomeOK, latency)
		metrics.UpdateDatasetRows(t.Rows())

		c.mu.Lock()
		c.entries[id] = entry{table: t, version: version, loadedAt: c.now()}
		c.mu.Unlock()
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, id, res.Err)
		}
		return res.Val.(*Table), nil
	}
}

func (c *Cache) lookup(id, version string) (*Table, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || e.version != version {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.loadedAt) >= c.ttl {
		return nil, false
	}
	if c.stale != nil && c.stale(id, e.loadedAt) {
		return nil, false
	}
	return e.table, true
}

// Invalidate drops the cached table for a source ID.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Purge drops every cached table.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
