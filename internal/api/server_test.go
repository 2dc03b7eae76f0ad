// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/newsbridge/internal/api"
	"github.com/taibuivan/newsbridge/internal/auth"
	"github.com/taibuivan/newsbridge/internal/core/news"
	"github.com/taibuivan/newsbridge/internal/core/reference"
	"github.com/taibuivan/newsbridge/internal/core/stats"
	"github.com/taibuivan/newsbridge/internal/platform/config"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
)

func newTestServer(t *testing.T, environment string, checkDatabase func(context.Context) error) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService("test-secret", constants.AuthIssuer)
	require.NoError(t, err)

	cfg := &config.Config{
		ServerPort:         "0",
		Environment:        environment,
		CORSAllowedOrigins: []string{"https://dashboard.example.com"},
	}

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{CheckDatabase: checkDatabase}, logger)

	server := api.NewServer(ctx, cfg, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService("", tokens, logger)),
		Reference: reference.NewHandler(nil),
		News:      news.NewHandler(nil),
		Stats:     stats.NewHandler(nil),
	})
	return server.Handler()
}

/*
TestServer_Health covers the liveness and readiness endpoints.
*/
func TestServer_Health(t *testing.T) {
	healthy := newTestServer(t, "production", func(context.Context) error { return nil })
	broken := newTestServer(t, "production", func(context.Context) error { return errors.New("connection refused") })

	recorder := httptest.NewRecorder()
	healthy.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), constants.AppVersion)
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))

	recorder = httptest.NewRecorder()
	healthy.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"ready"`)

	recorder = httptest.NewRecorder()
	broken.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
}

/*
TestServer_CORS verifies the production allow-list.
*/
func TestServer_CORS(t *testing.T) {
	handler := newTestServer(t, "production", nil)

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{name: "listed origin", origin: "https://dashboard.example.com", allowed: true},
		{name: "foreign origin", origin: "https://evil.example.com", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/v1/news/headlines", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestServer_OperatorRoutes verifies that sync endpoints reject anonymous and forged callers
before reaching any service.
*/
func TestServer_OperatorRoutes(t *testing.T) {
	handler := newTestServer(t, "development", nil)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/reference/sync/sources", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	forged, err := sec.NewTokenService("another-secret", constants.AuthIssuer)
	require.NoError(t, err)
	token, err := forged.GenerateAccessToken(auth.OperatorSubject, string(sec.RoleOperator), constants.OperatorTokenTTL)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/reference/sync/sources", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
