package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"statistics-aggregator/internal/domain"
)

// CacheKey identifies one bucketed series.
type CacheKey struct {
	Metric      string
	From        time.Time
	To          time.Time
	Granularity domain.Granularity
	Filter1     *domain.Filter
	Filter2     *domain.Filter
}

// String renders the canonical key. Instants are normalized to UTC nanoseconds
// so equal ranges in different locations share an entry.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%d|%d|%s|%s|%s",
		k.Metric,
		k.From.UTC().UnixNano(),
		k.To.UTC().UnixNano(),
		k.Granularity,
		k.Filter1.Key(),
		k.Filter2.Key(),
	)
}

// SeriesStore is an optional second-level store consulted before computing.
type SeriesStore interface {
	Load(ctx context.Context, key string) (domain.Series, bool)
	Save(ctx context.Context, key string, series domain.Series)
}

// Recorder observes cache and record-source activity.
type Recorder interface {
	CacheHit(source string)
	CacheMiss(source string)
	SourceCall(source string, duration time.Duration, err error)
}

// Cache memoizes series for the lifetime of the process. For every key the
// compute function runs successfully at most once; concurrent callers of the
// same key share a single in-flight computation. Returned series must be
// treated as read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.Series
	group   singleflight.Group

	store          SeriesStore
	recorder       Recorder
	name           string
	computeTimeout time.Duration
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithSeriesStore adds a second-level store, e.g. Redis.
func WithSeriesStore(store SeriesStore) CacheOption {
	return func(c *Cache) {
		c.store = store
	}
}

// WithCacheRecorder reports hits and misses to recorder under name.
func WithCacheRecorder(name string, recorder Recorder) CacheOption {
	return func(c *Cache) {
		c.name = name
		c.recorder = recorder
	}
}

// WithComputeTimeout bounds a shared computation, which otherwise runs until
// the record source returns.
func WithComputeTimeout(timeout time.Duration) CacheOption {
	return func(c *Cache) {
		c.computeTimeout = timeout
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{entries: make(map[string]domain.Series)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of memoized series.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrCompute returns the memoized series for key, computing it when absent.
// The shared computation is detached from the cancellation of any single
// caller; a caller whose context ends stops waiting and gets its context error.
// Errors are not cached.
func (c *Cache) GetOrCompute(ctx context.Context, key CacheKey, compute func(context.Context) (domain.Series, error)) (domain.Series, error) {
	id := key.String()

	if series, ok := c.lookup(id); ok {
		c.hit()
		return series, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flight := c.group.DoChan(id, func() (any, error) {
		flightCtx := context.WithoutCancel(ctx)
		if c.computeTimeout > 0 {
			var cancel context.CancelFunc
			flightCtx, cancel = context.WithTimeout(flightCtx, c.computeTimeout)
			defer cancel()
		}

		if series, ok := c.lookup(id); ok {
			return series, nil
		}
		if c.store != nil {
			if series, ok := c.store.Load(flightCtx, id); ok {
				c.put(id, series)
				return series, nil
			}
		}

		c.miss()
		series, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}

		c.put(id, series)
		if c.store != nil {
			c.store.Save(flightCtx, id, series)
		}
		return series, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(domain.Series), nil
	}
}

func (c *Cache) lookup(id string) (domain.Series, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	series, ok := c.entries[id]
	return series, ok
}

func (c *Cache) put(id string, series domain.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[id]; !exists {
		c.entries[id] = series
	}
}

func (c *Cache) hit() {
	if c.recorder != nil {
		c.recorder.CacheHit(c.name)
	}
}

func (c *Cache) miss() {
	if c.recorder != nil {
		c.recorder.CacheMiss(c.name)
	}
}
