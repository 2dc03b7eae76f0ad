// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth exchanges the operator key for short-lived access tokens.
//
// # Architecture
//
// There are no user accounts. A single operator key is configured as a bcrypt
// hash (OPERATOR_KEY_HASH); presenting the matching plain key yields an HS256
// token with the operator role, which unlocks the reference sync endpoints.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
	"github.com/taibuivan/newsbridge/internal/platform/validate"
)

const (
	// OperatorSubject is the token subject of every operator token.
	OperatorSubject = "operator"

	// maxKeyLength is the bcrypt input limit.
	maxKeyLength = 72
)

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, role string, timeToLive time.Duration) (string, error)
}

// Session is the result of a successful key exchange.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service implements the operator key exchange.
type Service struct {
	keyHash       string
	tokenProvider TokenProvider
	now           func() time.Time
	logger        *slog.Logger
}

// NewService constructs a new [Service]. An empty keyHash disables the exchange.
func NewService(keyHash string, tokenProvider TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		keyHash:       keyHash,
		tokenProvider: tokenProvider,
		now:           time.Now,
		logger:        logger,
	}
}

/*
IssueToken verifies the operator key and signs an access token.

Parameters:
  - context: context.Context
  - key: string (plain operator key)

Returns:
  - *Session: Signed token and its expiry
  - error: VALIDATION_ERROR for a malformed key, apperr.Unauthorized for a wrong
    key, apperr.ServiceUnavailable when no key is configured
*/
func (service *Service) IssueToken(context context.Context, key string) (*Session, error) {
	validator := &validate.Validator{}
	validator.
		Required("key", key).
		MaxLen("key", key, maxKeyLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if service.keyHash == "" {
		return nil, apperr.ServiceUnavailable("Operator access is not configured")
	}

	// bcrypt compares in constant time, so wrong keys are indistinguishable by latency.
	if !sec.CheckKeyHash(key, service.keyHash) {
		service.logger.WarnContext(context, "operator_key_rejected")
		return nil, apperr.Unauthorized("Invalid operator key")
	}

	issuedAt := service.now()
	token, err := service.tokenProvider.GenerateAccessToken(OperatorSubject, string(sec.RoleOperator), constants.OperatorTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: issue token: %w", err))
	}

	service.logger.InfoContext(context, "operator_token_issued")

	return &Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   issuedAt.Add(constants.OperatorTokenTTL),
	}, nil
}
