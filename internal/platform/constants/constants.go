// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Upstream: Fixed page size and source-list bounds imposed by the news API.
  - Security: Token issuer and operator token lifetime.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "newsbridge"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Upstream Limits

const (
	// NewsPageSize is the fixed page size sent with every article query.
	NewsPageSize = 100

	// MaxSources is the maximum number of comma-separated sources per query.
	MaxSources = 20

	// MaxNewsPage is the deepest article page a caller may request.
	MaxNewsPage = 10

	// SyncLockTTL bounds how long a crashed sync can hold the sync lock.
	SyncLockTTL = 10 * time.Minute

	// ReferenceLoadTimeout bounds a shared snapshot load, bootstrap sync included.
	ReferenceLoadTimeout = 2 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in operator tokens.
	AuthIssuer = "newsbridge"

	// OperatorTokenTTL is the lifetime of an operator access token.
	OperatorTokenTTL = 15 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
	HeaderAPIKey        = "X-Api-Key"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixFetch    = "fetch:"
	RedisPrefixSyncLock = "sync:lock:"
)
