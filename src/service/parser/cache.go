package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"code-reviewer/src/model"
)

type cacheEntry struct {
	code    *model.ParsedCode
	expires time.Time
}

// cache keeps recent parse results keyed by language and content hash.
// A nil cache is valid and never hits.
type cache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	order      []string // insertion order, oldest first
	now        func() time.Time
}

func newCache(ttl time.Duration, maxEntries int) *cache {
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
	}
}

func cacheKey(lang, code string) string {
	sum := sha256.Sum256([]byte(lang + "\x00" + code))
	return hex.EncodeToString(sum[:])
}

func (c *cache) get(key string) (*model.ParsedCode, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	// expired entries stay until overwritten or evicted
	if c.ttl > 0 && c.now().After(e.expires) {
		return nil, false
	}

	cp := *e.code
	return &cp, true
}

func (c *cache) put(key string, pc *model.ParsedCode) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{code: pc, expires: c.now().Add(c.ttl)}

	for len(c.entries) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *cache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
