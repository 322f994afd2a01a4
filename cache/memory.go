package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache. Expired entries are skipped on read
// and reclaimed by Purge; there is no background sweeper.
type MemoryCache struct {
	defaultTTL time.Duration
	mu         sync.RWMutex
	entries    map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts Options) *MemoryCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		defaultTTL: ttl,
		entries:    make(map[string]memoryEntry),
	}
}

// Get returns the value for key, or ErrNotFound when absent or expired.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	// copy so callers cannot mutate the stored value
	return append([]byte(nil), entry.value...), nil
}

// Set stores value under key. A non-positive ttl uses the cache's default.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	entry := memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (c *MemoryCache) Purge() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, including not-yet-purged expired ones.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close releases nothing; it exists to satisfy the Cache interface.
func (c *MemoryCache) Close() error {
	return nil
}
