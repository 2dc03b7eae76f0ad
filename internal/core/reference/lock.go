// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/newsbridge/internal/platform/constants"
)

// Locker serializes sync runs. Acquire reports false when another run holds
// the lock; the returned release func is a no-op in that case.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), acquired bool, err error)
}

// # Process-local Lock

// LocalLocker serializes runs inside one process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker creates an empty [LocalLocker].
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

// Acquire takes name if it is free. The ttl is ignored: the lock dies with the process.
func (locker *LocalLocker) Acquire(_ context.Context, name string, _ time.Duration) (func(), bool, error) {
	locker.mu.Lock()
	defer locker.mu.Unlock()

	if _, busy := locker.held[name]; busy {
		return func() {}, false, nil
	}
	locker.held[name] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			locker.mu.Lock()
			delete(locker.held, name)
			locker.mu.Unlock()
		})
	}
	return release, true, nil
}

// # Distributed Lock

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes runs across replicas sharing one Redis.
type RedisLocker struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisLocker creates a Redis-backed [Locker].
func NewRedisLocker(client *redis.Client, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: client, logger: logger}
}

// Acquire sets the lock key with NX semantics. The ttl bounds how long a
// crashed holder can block other replicas.
func (locker *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := constants.RedisPrefixSyncLock + name
	token := uuid.NewString()

	acquired, err := locker.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("reference: acquire sync lock %s: %w", name, err)
	}
	if !acquired {
		return func() {}, false, nil
	}

	release := func() {
		// The caller's context may already be cancelled when the run ends.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, locker.client, []string{key}, token).Err(); err != nil {
			locker.logger.Warn("sync_lock_release_failed", slog.String("lock", name), slog.Any("error", err))
		}
	}
	return release, true, nil
}
