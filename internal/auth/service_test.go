// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/newsbridge/internal/auth"
	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/middleware"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
)

const operatorKey = "correct horse battery staple"

func newService(t *testing.T, keyHash string) (*auth.Service, *sec.TokenService) {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "newsbridge")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(keyHash, tokens, logger), tokens
}

func hashKey(t *testing.T) string {
	t.Helper()
	hash, err := sec.HashKey(operatorKey)
	require.NoError(t, err)
	return hash
}

/*
TestService_IssueToken covers the key exchange outcomes.
*/
func TestService_IssueToken(t *testing.T) {
	hash := hashKey(t)

	tests := []struct {
		name    string
		keyHash string
		key     string
		code    string
	}{
		{name: "valid key", keyHash: hash, key: operatorKey},
		{name: "wrong key", keyHash: hash, key: "guess", code: apperr.CodeUnauthorized},
		{name: "blank key", keyHash: hash, key: "  ", code: apperr.CodeValidation},
		{name: "oversized key", keyHash: hash, key: strings.Repeat("k", 73), code: apperr.CodeValidation},
		{name: "not configured", keyHash: "", key: operatorKey, code: apperr.CodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, tokens := newService(t, tt.keyHash)

			session, err := service.IssueToken(context.Background(), tt.key)
			if tt.code != "" {
				assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)

			claims, err := tokens.VerifyToken(session.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, string(sec.RoleOperator), claims.Role)
			assert.Equal(t, auth.OperatorSubject, claims.Subject)
			assert.Equal(t, "Bearer", session.TokenType)
		})
	}
}

/*
TestHandler_TokenThenMe exchanges a key over HTTP and presents the token.
*/
func TestHandler_TokenThenMe(t *testing.T) {
	service, tokens := newService(t, hashKey(t))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/", auth.NewHandler(service).Routes())

	body, _ := json.Marshal(map[string]string{"key": operatorKey})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+envelope.Data.AccessToken)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"role":"operator"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
