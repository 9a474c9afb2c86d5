package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/devnullvoid/proxmox-mcp/pkg/api/interfaces"
)

// BadgerCache implements the Cache interface using Badger DB.
type BadgerCache struct {
	db     *badger.DB
	logger interfaces.Logger
	stopGC chan struct{}
}

// NewBadgerCache creates a new Badger-based cache in the given directory.
func NewBadgerCache(dir string, logger interfaces.Logger) (*BadgerCache, error) {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create badger directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	// Small value log files keep memory usage low for a cache of API payloads
	opts.ValueLogFileSize = 1 << 20 // 1MB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	cache := &BadgerCache{
		db:     db,
		logger: logger,
		stopGC: make(chan struct{}),
	}

	// Run value log garbage collection in the background
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				err := db.RunValueLogGC(0.5)
				if err != nil && err != badger.ErrNoRewrite {
					cache.logger.Debug("Badger value log GC failed: %v", err)
				}
			case <-cache.stopGC:
				return
			}
		}
	}()

	return cache, nil
}

// Get retrieves data from the cache.
func (c *BadgerCache) Get(key string, dest interface{}) (bool, error) {
	var found bool

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}

		if err != nil {
			return fmt.Errorf("badger get operation: %w", err)
		}

		return item.Value(func(val []byte) error {
			var cacheItem CacheItem
			if err := json.Unmarshal(val, &cacheItem); err != nil {
				return fmt.Errorf("unmarshal cache item: %w", err)
			}

			if cacheItem.expired() {
				// Expired items are deleted outside this read transaction
				return nil
			}

			found = true

			if err := json.Unmarshal(cacheItem.Data, dest); err != nil {
				return fmt.Errorf("unmarshal into destination: %w", err)
			}

			return nil
		})
	})

	// Lazily clean up expired entries
	if err == nil && !found {
		_ = c.Delete(key)
	}

	return found, err
}

// Set stores data in the cache.
func (c *BadgerCache) Set(key string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	item := &CacheItem{
		Data:      jsonData,
		Timestamp: time.Now().Unix(),
		TTL:       int64(ttl.Seconds()),
	}

	bytes, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal cache item: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), bytes)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes an item from the cache.
func (c *BadgerCache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear removes all items from the cache.
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Close stops background GC and closes the database.
func (c *BadgerCache) Close() error {
	close(c.stopGC)
	return c.db.Close()
}
