// Package cache provides the caching implementations used by the API client.
//
// Two implementations exist: a persistent Badger-backed cache for normal
// operation and an in-memory cache used when caching to disk is disabled.
// Both satisfy the interfaces.Cache contract and are safe for concurrent use.
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CacheItem represents an item in the cache with TTL.
type CacheItem struct {
	Data      json.RawMessage `json:"data"` // Store as raw JSON to avoid double marshaling
	Timestamp int64           `json:"timestamp"`
	TTL       int64           `json:"ttl"` // TTL in seconds, 0 means no expiration
}

func (i *CacheItem) expired() bool {
	return i.TTL > 0 && time.Now().Unix()-i.Timestamp > i.TTL
}

// MemoryCache is a simple in-memory cache with TTL expiration.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]*CacheItem
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]*CacheItem)}
}

// Get retrieves data from the cache, returning whether it was found.
func (c *MemoryCache) Get(key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if item.expired() {
		_ = c.Delete(key)
		return false, nil
	}

	if err := json.Unmarshal(item.Data, dest); err != nil {
		return false, fmt.Errorf("unmarshal into destination: %w", err)
	}

	return true, nil
}

// Set stores data in the cache with optional TTL.
func (c *MemoryCache) Set(key string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &CacheItem{
		Data:      jsonData,
		Timestamp: time.Now().Unix(),
		TTL:       int64(ttl.Seconds()),
	}

	return nil
}

// Delete removes an item from the cache.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Clear removes all items from the cache.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*CacheItem)
	return nil
}

// Close releases resources held by the cache. It is a no-op for MemoryCache.
func (c *MemoryCache) Close() error {
	return nil
}
