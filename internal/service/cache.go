package service

import (
	"sync"
	"time"

	"healthtrack/pkg/model"
)

// cacheKind discriminates what a cached series was extracted from
type cacheKind string

const (
	cacheKindMetric     cacheKind = "metric"
	cacheKindSymptom    cacheKind = "symptom"
	cacheKindMedication cacheKind = "medication"
	cacheKindActivity   cacheKind = "activity"
	cacheKindMeal       cacheKind = "meal"
)

// cacheKey identifies one extracted series: what it was extracted from plus
// the period it covers.
type cacheKey struct {
	kind   cacheKind
	name   string
	period model.TimePeriod
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// seriesCache is a TTL-bounded memoization of extracted series. Entries are
// invalidated lazily on read; there is no background sweeper and no negative
// caching. Safe for concurrent use.
type seriesCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newSeriesCache(ttl time.Duration) *seriesCache {
	return &seriesCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the cached value for key if it exists and is younger than the
// TTL. An expired entry is dropped and reported as a miss.
func (c *seriesCache) get(key cacheKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// put stores value for key, overwriting any previous entry
func (c *seriesCache) put(key cacheKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
}

// clear drops all cached series and timestamps
func (c *seriesCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// len reports the number of live and expired entries currently held
func (c *seriesCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
