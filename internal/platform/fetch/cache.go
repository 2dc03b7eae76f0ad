// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fetch

import (
	"context"
	"sync"
	"time"
)

// Cache stores upstream bodies for a bounded time.
//
// Implementations must treat their own failures as misses: a broken cache
// may slow a request down but never fail it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// noCache is used when caching is disabled.
type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (noCache) Set(context.Context, string, []byte, time.Duration) {}

// # Process-local Cache

// defaultMaxEntries bounds the memory cache when no size is given.
const defaultMaxEntries = 1024

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache. It is safe for concurrent use.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache returns an empty cache holding at most maxEntries bodies.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a live entry. Expired entries are dropped on access.
func (cache *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	entry, ok := cache.entries[key]
	if !ok {
		return nil, false
	}

	if !cache.now().Before(entry.expiresAt) {
		delete(cache.entries, key)
		return nil, false
	}

	return entry.value, true
}

// Set stores value until ttl elapses. When the cache is full, expired entries
// are swept first and then the entry closest to expiry is evicted.
func (cache *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	now := cache.now()
	if _, exists := cache.entries[key]; !exists && len(cache.entries) >= cache.maxEntries {
		cache.sweep(now)
	}

	cache.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
}

// Len returns the number of stored entries, expired or not.
func (cache *MemoryCache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.entries)
}

// sweep must be called with the lock held.
func (cache *MemoryCache) sweep(now time.Time) {
	for key, entry := range cache.entries {
		if !now.Before(entry.expiresAt) {
			delete(cache.entries, key)
		}
	}

	if len(cache.entries) < cache.maxEntries {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, entry := range cache.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = key, entry.expiresAt
		}
	}
	delete(cache.entries, oldestKey)
}
