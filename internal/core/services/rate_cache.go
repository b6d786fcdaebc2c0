package services

import "github.com/dcozonac/csvfx/internal/core/domain"

// CacheEntry records the outcome of the first resolution attempt for a date:
// either the resolved rate or the error that attempt produced.
type CacheEntry struct {
	Rate domain.ResolvedRate
	Err  error
}

// RateCache memoizes date lookups for the lifetime of one run so the external
// source is asked at most once per distinct date. Keys are canonical dates,
// never the raw input strings. The cache is owned by a single resolver and
// mutated only by the in-flight resolution; the single-pass pipeline never
// touches it from two goroutines, so it carries no locking. A parallel
// pipeline would need a per-key resolve-once barrier here.
type RateCache struct {
	entries map[string]CacheEntry
}

// NewRateCache returns an empty cache for one run.
func NewRateCache() *RateCache {
	return &RateCache{entries: make(map[string]CacheEntry)}
}

// Get looks up the recorded outcome for a date. It has no side effects.
func (c *RateCache) Get(date domain.Date) (CacheEntry, bool) {
	entry, ok := c.entries[date.Key()]
	return entry, ok
}

// Put records the outcome of a resolution attempt, overwriting any prior
// entry for the same date.
func (c *RateCache) Put(date domain.Date, entry CacheEntry) {
	c.entries[date.Key()] = entry
}

// Len reports how many distinct dates have a recorded outcome.
func (c *RateCache) Len() int { return len(c.entries) }
