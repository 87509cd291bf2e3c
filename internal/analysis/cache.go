package analysis

import (
	"strings"
	"sync"
)

// ResultCache memoizes answers keyed on (normalized question, table
// fingerprint). There is no eviction: tables are replaced wholesale on
// upload, which changes the fingerprint and strands the old entries, so
// Clear is called on every table swap to drop them.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]Result
}

func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]Result)}
}

func cacheKey(question, fingerprint string) string {
	return fingerprint + ":" + strings.ToLower(strings.TrimSpace(question))
}

func (c *ResultCache) Get(question, fingerprint string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[cacheKey(question, fingerprint)]
	return r, ok
}

func (c *ResultCache) Set(question, fingerprint string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(question, fingerprint)] = r
}

func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Result)
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
