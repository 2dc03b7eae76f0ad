// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app is the composition root shared by the API server and the CLI.

It turns a [config.Config] into fully wired services: the PostgreSQL pool and
migrations behind the reference store, the optional Redis client, one remote
fetcher per upstream, and the reference, news, statistics and auth services.

No business logic lives here. All wiring is explicit constructor injection.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/newsbridge/internal/auth"
	"github.com/taibuivan/newsbridge/internal/core/news"
	"github.com/taibuivan/newsbridge/internal/core/reference"
	"github.com/taibuivan/newsbridge/internal/core/stats"
	"github.com/taibuivan/newsbridge/internal/platform/config"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/docstore"
	"github.com/taibuivan/newsbridge/internal/platform/fetch"
	"github.com/taibuivan/newsbridge/internal/platform/migration"
	pgstore "github.com/taibuivan/newsbridge/internal/platform/postgres"
	redisstore "github.com/taibuivan/newsbridge/internal/platform/redis"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
)

// fetchCacheEntries bounds each process-local fetch cache.
const fetchCacheEntries = 2048

// App holds every wired dependency. Close releases the connections.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Pool  *pgxpool.Pool
	Redis *redis.Client

	// Tokens and Auth are nil when no session secret is configured.
	Tokens *sec.TokenService

	Syncer    *reference.Syncer
	Catalog   *reference.Catalog
	Reference *reference.Service
	News      *news.Service
	Stats     *stats.Service
	Auth      *auth.Service
}

/*
New connects to the backing stores and wires the services.

Parameters:
  - ctx: context.Context (bounds the startup connections)
  - cfg: *config.Config
  - logger: *slog.Logger

Returns:
  - *App: Wired application; the caller must Close it
  - error: Connection, migration or seed failures
*/
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	application := &App{Config: cfg, Logger: logger}

	// ── 1. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	application.Pool = pool

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
		application.Close()
		return nil, err
	}

	// ── 2. Redis (optional) ───────────────────────────────────────────────
	if cfg.HasRedis() {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			application.Close()
			return nil, err
		}
		application.Redis = client
	}

	// ── 3. Security (API only; the CLI runs without a session secret) ──────
	if cfg.HasSessionSecret() {
		tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
		if err != nil {
			application.Close()
			return nil, err
		}
		application.Tokens = tokens
	}

	// ── 4. Domain Wiring ──────────────────────────────────────────────────
	seed, err := reference.DefaultSeed()
	if err != nil {
		application.Close()
		return nil, fmt.Errorf("app: load reference seed: %w", err)
	}

	newsClient := news.NewClient(application.fetcher("news", news.ValidateBody), cfg.NewsAPIURL, cfg.NewsAPIKey)
	repository := reference.NewDocumentRepository(docstore.New(pool))

	var locker reference.Locker = reference.NewLocalLocker()
	if application.Redis != nil {
		locker = reference.NewRedisLocker(application.Redis, logger)
	}

	application.Syncer = reference.NewSyncer(repository, newsClient, seed, locker, logger)
	application.Catalog = reference.NewCatalog(repository, application.Syncer, cfg.ReferenceTTL, logger)
	application.Reference = reference.NewService(application.Catalog, repository, application.Syncer, logger)
	application.News = news.NewService(news.NewBuilder(application.Catalog, time.Now), newsClient, logger)
	application.Stats = stats.NewService(stats.NewClient(application.fetcher("statistics", stats.ValidateBody), cfg.StatsAPIURL), logger)
	if application.Tokens != nil {
		application.Auth = auth.NewService(cfg.OperatorKeyHash, application.Tokens, logger)
	}

	return application, nil
}

// fetcher builds the remote fetcher of one upstream with the configured cache
// backend. validate decides which 2xx bodies may be cached.
func (application *App) fetcher(service string, validate func([]byte) error) *fetch.Client {
	cfg := application.Config

	var cache fetch.Cache = fetch.NewMemoryCache(fetchCacheEntries)
	if cfg.FetchCacheBackend == config.CacheBackendRedis && application.Redis != nil {
		cache = fetch.NewRedisCache(application.Redis, application.Logger)
	}

	return fetch.New(cache, fetch.Options{
		Service:    service,
		Timeout:    cfg.FetchTimeout,
		CacheTTL:   cfg.FetchCacheTTL,
		RateLimit:  cfg.FetchRateLimit,
		MaxRetries: cfg.FetchMaxRetries,
		Validate:   validate,
	}, application.Logger)
}

// CheckDatabase pings the PostgreSQL pool.
func (application *App) CheckDatabase(ctx context.Context) error {
	return pgstore.Ping(ctx, application.Pool)
}

// CheckCache pings Redis. It reports nil when Redis is not configured.
func (application *App) CheckCache(ctx context.Context) error {
	if application.Redis == nil {
		return nil
	}
	return redisstore.Ping(ctx, application.Redis)
}

// Close releases the database pool and the Redis client.
func (application *App) Close() error {
	var errs []error

	if application.Redis != nil {
		if err := application.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close redis: %w", err))
		}
	}

	if application.Pool != nil {
		application.Pool.Close()
	}

	return errors.Join(errs...)
}
