package bidi

import "sync"

// DefaultCacheSize is the number of orderings a Cache keeps before it is
// emptied.
const DefaultCacheSize = 1024

type cacheKey struct {
	text string
	dir  Direction
}

// Cache memoises Order results per (text, direction) pair.
// The zero value is not usable; create one with NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]Run
	max     int
	hits    int
	misses  int
}

// NewCache creates a cache holding at most max orderings.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{entries: make(map[cacheKey][]Run), max: max}
}

// Order returns the cached ordering for text, computing it on a miss.
// The returned slice must not be modified.
func (c *Cache) Order(text string, dir Direction) []Run {
	key := cacheKey{text: text, dir: dir}

	c.mu.Lock()
	defer c.mu.Unlock()

	if order, ok := c.entries[key]; ok {
		c.hits++
		return order
	}
	c.misses++
	order := Order(text, dir)
	if len(c.entries) >= c.max {
		c.entries = make(map[cacheKey][]Run)
	}
	c.entries[key] = order
	return order
}

// Reset discards every cached ordering.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]Run)
	c.hits, c.misses = 0, 0
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
