// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestMemoryCache_Expiry verifies that entries are served until their TTL elapses.
*/
func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(4)
	cache.now = func() time.Time { return now }

	cache.Set(context.Background(), "k", []byte("v"), time.Hour)

	value, ok := cache.Get(context.Background(), "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(time.Hour)
	_, ok = cache.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

/*
TestMemoryCache_Bounded verifies that a full cache evicts instead of growing.
*/
func TestMemoryCache_Bounded(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(2)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"), time.Minute)
	cache.Set(ctx, "b", []byte("2"), time.Hour)
	cache.Set(ctx, "c", []byte("3"), time.Hour)

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok, "entry closest to expiry is evicted first")
	_, ok = cache.Get(ctx, "c")
	assert.True(t, ok)
}

/*
TestMemoryCache_OverwriteDoesNotEvict verifies that refreshing a key keeps its neighbours.
*/
func TestMemoryCache_OverwriteDoesNotEvict(t *testing.T) {
	cache := NewMemoryCache(2)
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"), time.Hour)
	cache.Set(ctx, "b", []byte("2"), time.Hour)
	cache.Set(ctx, "a", []byte("3"), time.Hour)

	value, ok := cache.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), value)
	_, ok = cache.Get(ctx, "b")
	assert.True(t, ok)
}
