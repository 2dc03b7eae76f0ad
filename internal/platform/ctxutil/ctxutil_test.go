// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/newsbridge/internal/platform/ctxutil"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Operator verifies that operator AuthClaims can be stored in context.
*/
func TestContext_Operator(t *testing.T) {
	ctx := context.Background()
	claims := &sec.AuthClaims{
		UserID: "operator-1",
		Role:   string(sec.RoleOperator),
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetOperator(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithOperator(ctx, claims)
	retrieved := ctxutil.GetOperator(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "operator-1", retrieved.UserID)
	assert.Equal(t, string(sec.RoleOperator), retrieved.Role)
}

/*
TestContext_LogAttrs verifies that only the correlation ids present are logged.
*/
func TestContext_LogAttrs(t *testing.T) {
	attrs := func(ctx context.Context) map[string]string {
		out := map[string]string{}
		for _, attr := range ctxutil.LogAttrs(ctx) {
			a := attr.(slog.Attr)
			out[a.Key] = a.Value.String()
		}
		return out
	}

	ctx := context.Background()
	assert.Empty(t, attrs(ctx))

	ctx = ctxutil.WithSyncRun(ctx, "run-1")
	assert.Equal(t, "run-1", ctxutil.GetSyncRun(ctx))
	assert.Equal(t, map[string]string{"run_id": "run-1"}, attrs(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-1")
	assert.Equal(t, map[string]string{"request_id": "req-1", "run_id": "run-1"}, attrs(ctx))
}
