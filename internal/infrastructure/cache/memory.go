// Package cache provides ports.ResultCache implementations.
package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-process ResultCache with per-entry expiry.
// Expired entries are dropped lazily on read and when the size limit is hit.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries values.
// maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if c.expired(entry) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && c.expired(current) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores value under key. ttl <= 0 keeps the value until evicted.
func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = entry
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ping always succeeds; it lets the health check treat every cache alike.
func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

func (c *MemoryCache) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

// evictLocked drops expired entries, or one arbitrary entry if none expired.
func (c *MemoryCache) evictLocked() {
	removed := false
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			removed = true
		}
	}
	if removed {
		return
	}
	for k := range c.entries {
		delete(c.entries, k)
		return
	}
}
