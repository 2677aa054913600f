// Package cache provides a Badger-backed result cache with per-entry TTL.
// Search responses and autocomplete suggestions are cached here so repeated
// queries skip the index entirely; Badger expires entries itself, no sweeper
// goroutine needed.
package cache

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrMiss is returned when a key is absent or has expired.
var ErrMiss = errors.New("cache miss")

// Cache wraps a Badger database used purely as an expiring key-value store.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the cache at path.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	// Cached results are disposable, so trade durability for write speed.
	opts.SyncWrites = false
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	if logger != nil {
		logger.Info("result cache opened", "path", path)
	}

	return &Cache{db: db, logger: logger}, nil
}

// OpenInMemory opens a cache with no disk backing. Used in tests.
func OpenInMemory() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get unmarshals the cached value for key into dest.
// Returns ErrMiss when the key is absent or expired.
func (c *Cache) Get(key string, dest any) error {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrMiss
	}
	return err
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// Delete removes a key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists reports whether key is present and unexpired.
func (c *Cache) Exists(key string) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Flush drops every cached entry. Used after bulk catalog changes that
// invalidate previously cached result pages.
func (c *Cache) Flush() error {
	return c.db.DropAll()
}
