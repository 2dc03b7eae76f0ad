// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries the per-call values newsbridge correlates logs with.

An HTTP call carries its request id, its request logger and, on operator
routes, the verified token claims. A reference sync carries its run id, so a
sync started from an operator request logs both ids.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/newsbridge/internal/platform/ctxkey"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
)

// # Correlation

// WithRequestID attaches the X-Request-ID of the current HTTP call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request id, or "" outside an HTTP call.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// WithSyncRun attaches the id of the reference sync run in progress.
func WithSyncRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeySyncRun, runID)
}

// GetSyncRun returns the sync run id, or "" outside a sync.
func GetSyncRun(ctx context.Context) string {
	runID, _ := ctx.Value(ctxkey.KeySyncRun).(string)
	return runID
}

// LogAttrs returns the correlation ids present in ctx as slog attributes.
func LogAttrs(ctx context.Context) []any {
	attrs := make([]any, 0, 2)
	if id := GetRequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if runID := GetSyncRun(ctx); runID != "" {
		attrs = append(attrs, slog.String("run_id", runID))
	}
	return attrs
}

// # Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Operator Access

// WithOperator attaches the verified claims of an operator token.
func WithOperator(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyOperator, claims)
}

// GetOperator returns the operator claims, or nil for anonymous callers.
func GetOperator(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyOperator).(*sec.AuthClaims)
	return claims
}
