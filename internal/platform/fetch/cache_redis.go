// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/newsbridge/internal/platform/constants"
)

// RedisCache shares upstream bodies between replicas through Redis.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache creates a Redis-backed [Cache].
func NewRedisCache(client *redis.Client, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

// Get reads a cached body. Connectivity errors are logged and reported as a miss.
func (cache *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := cache.client.Get(ctx, constants.RedisPrefixFetch+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(ctx, "redis_fetch_cache_get_failed", slog.Any("error", err))
		}
		return nil, false
	}

	return value, true
}

// Set stores a body with its TTL. Failures are logged and otherwise ignored.
func (cache *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := cache.client.Set(ctx, constants.RedisPrefixFetch+key, value, ttl).Err(); err != nil {
		cache.logger.WarnContext(ctx, "redis_fetch_cache_set_failed", slog.Any("error", err))
	}
}
