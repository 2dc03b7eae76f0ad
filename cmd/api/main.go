// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the newsbridge HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Wire the application (PostgreSQL, migrations, optional Redis, services).
//  4. Start the periodic reference sync.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/newsbridge/internal/api"
	"github.com/taibuivan/newsbridge/internal/app"
	"github.com/taibuivan/newsbridge/internal/auth"
	"github.com/taibuivan/newsbridge/internal/core/news"
	"github.com/taibuivan/newsbridge/internal/core/reference"
	"github.com/taibuivan/newsbridge/internal/core/stats"
	"github.com/taibuivan/newsbridge/internal/platform/config"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")
	must(log, cfg.RequireServerSecrets(), "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("fetch_cache", cfg.FetchCacheBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Application Wiring ─────────────────────────────────────────────
	application, err := app.New(startupCtx, cfg, log)
	must(log, err, "wire application")
	defer func() {
		log.Info("closing_connections")
		if cerr := application.Close(); cerr != nil {
			log.Error("close_failed", slog.Any("error", cerr))
		}
	}()

	// Background work stops when rootCtx is cancelled during shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 4. Reference Sync ─────────────────────────────────────────────────
	if cfg.SyncOnStartup {
		if _, err := application.Syncer.SyncReference(startupCtx); err != nil {
			log.Error("startup_taxonomy_sync_failed", slog.Any("error", err))
		}
		if _, err := application.Syncer.SyncSources(startupCtx, reference.SyncOptions{Prune: true}); err != nil {
			log.Error("startup_source_sync_failed", slog.Any("error", err))
		}
	}

	if cfg.SyncInterval > 0 {
		go application.Syncer.Run(rootCtx, cfg.SyncInterval)
	}

	// ── 5. Health handlers (wired with real dependency checkers) ──────────
	dependencies := api.HealthDependencies{CheckDatabase: application.CheckDatabase}
	if cfg.HasRedis() {
		dependencies.CheckCache = application.CheckCache
	}
	liveness, readiness := api.NewHealthHandlers(dependencies, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(application.Auth),
		Reference: reference.NewHandler(application.Reference),
		News:      news.NewHandler(application.News),
		Stats:     stats.NewHandler(application.Stats),
	}

	server := api.NewServer(rootCtx, cfg, log, application.Tokens, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	rootCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors must be returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
