// Package cache memoizes prediction results for identical candidate records.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/jobaccept/internal/domain/prediction"
	"github.com/okian/jobaccept/pkg/metrics"
)

// PredictionCache is a bounded LRU keyed by candidate.Record.Key. A zero size
// disables it; every Get then misses. Safe for concurrent use.
type PredictionCache struct {
	lru *lru.Cache[string, prediction.Result]
}

// New creates a cache holding up to size results.
func New(size int) (*PredictionCache, error) {
	if size < 0 {
		return nil, fmt.Errorf("cache size must not be negative, got %d", size)
	}
	if size == 0 {
		return &PredictionCache{}, nil
	}
	c, err := lru.New[string, prediction.Result](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &PredictionCache{lru: c}, nil
}

// Enabled reports whether results are retained.
func (c *PredictionCache) Enabled() bool { return c.lru != nil }

// Get returns the cached result for key.
func (c *PredictionCache) Get(key string) (prediction.Result, bool) {
	if c.lru == nil {
		return prediction.Result{}, false
	}
	res, ok := c.lru.Get(key)
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return res, ok
}

// Add stores res under key, evicting the least recently used entry when full.
func (c *PredictionCache) Add(key string, res prediction.Result) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, res)
}

// Len returns the number of cached results.
func (c *PredictionCache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry.
func (c *PredictionCache) Purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
