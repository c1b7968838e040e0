package cache

import (
	"context"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds the in-process cache of the HTTP server.
const DefaultMemoryEntries = 256

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process LRU cache. It is safe for concurrent use.
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
}

// NewMemoryCache creates an LRU cache holding at most size entries.
// A size below one uses DefaultMemoryEntries.
func NewMemoryCache(size int) (Cache, error) {
	if size < 1 {
		size = DefaultMemoryEntries
	}
	l, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: l}, nil
}

// Get retrieves a copy of the value for key.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return slices.Clone(e.data), true, nil
}

// Set stores a copy of data, evicting the least recently used entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Close purges all entries.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

var _ Cache = (*MemoryCache)(nil)
