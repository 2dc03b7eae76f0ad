// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fetch issues parameterized GET calls to third-party JSON APIs.

Every call goes through the same pipeline:

  - Cache: successful bodies are cached under (endpoint, normalized params) for a
    bounded window so that repeated lookups stay within upstream rate limits.
  - Collapse: identical concurrent calls share one in-flight request.
  - Throttle: an outbound token bucket spaces requests to the upstream.
  - Retry: 5xx and 429 answers are retried a bounded number of times with
    exponential backoff.

A non-success status is returned as an [apperr.UpstreamFailure] carrying a
[*StatusError], never as an empty body, so callers can tell "no results" from
"upstream down". Deadlines surface as [apperr.Timeout]. A 2xx body that the
configured [Options.Validate] rejects is a failure too and is never cached.

A shared call runs on a context detached from its first caller and bounded by
its own deadline. Each caller still stops waiting when its own context ends.
*/
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
)

const (
	// maxBodyBytes caps how much of an upstream body is read into memory.
	maxBodyBytes = 8 << 20
	// defaultBackoff is the first retry delay; it doubles on every attempt.
	defaultBackoff = 250 * time.Millisecond
	// flightSlack is added to a shared call's deadline for outbound limiter waits.
	flightSlack = time.Second
)

// Response is a successful upstream answer.
type Response struct {
	Endpoint string
	Status   int
	Body     []byte
	Cached   bool
}

// Decode unmarshals the JSON body into target.
func (r *Response) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("fetch: decode %s: %w", r.Endpoint, err)
	}
	return nil
}

// StatusError records a non-success HTTP status returned by an upstream.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s returned status %d", e.Endpoint, e.Status)
}

// Options tunes a [Client].
type Options struct {
	// Service names the upstream in user-facing errors ("news", "statistics").
	Service string
	// Timeout bounds every single attempt.
	Timeout time.Duration
	// CacheTTL is how long a successful body is served from cache.
	CacheTTL time.Duration
	// RateLimit is the outbound request rate per second. Zero disables throttling.
	RateLimit float64
	// MaxRetries is the number of extra attempts for 5xx and 429 answers.
	MaxRetries int
	// Backoff is the first retry delay.
	Backoff time.Duration
	// Validate inspects a 2xx body before it is cached. A body it rejects is
	// returned as an error and never stored.
	Validate func(body []byte) error
}

// Client fetches JSON documents from one upstream service.
type Client struct {
	service    string
	http       *http.Client
	cache      Cache
	ttl        time.Duration
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	deadline   time.Duration
	validate   func(body []byte) error
	group      singleflight.Group
	logger     *slog.Logger
}

// New builds a client. A nil cache disables caching.
func New(cache Cache, options Options, logger *slog.Logger) *Client {
	if cache == nil {
		cache = noCache{}
	}

	if options.Backoff <= 0 {
		options.Backoff = defaultBackoff
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if options.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RateLimit), 1)
	}

	return &Client{
		service:    options.Service,
		http:       &http.Client{Timeout: options.Timeout},
		cache:      cache,
		ttl:        options.CacheTTL,
		limiter:    limiter,
		maxRetries: options.MaxRetries,
		backoff:    options.Backoff,
		deadline:   flightDeadline(options),
		validate:   options.Validate,
		logger:     logger.With(slog.String("upstream", options.Service)),
	}
}

// CacheKey normalizes (endpoint, params) into a cache key. [url.Values.Encode]
// sorts by parameter name, so argument order never produces distinct keys.
func CacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

/*
Get performs a cached GET against endpoint.

Parameters:
  - ctx: context.Context
  - endpoint: string (absolute URL without query)
  - params: url.Values (query parameters, part of the cache key)
  - headers: http.Header (credentials; not part of the cache key)

Returns:
  - *Response: Successful (2xx) response, possibly from cache
  - error: apperr.UpstreamFailure, apperr.Timeout or apperr.Internal
*/
func (client *Client) Get(ctx context.Context, endpoint string, params url.Values, headers http.Header) (*Response, error) {
	key := CacheKey(endpoint, params)

	if body, ok := client.cache.Get(ctx, key); ok {
		client.logger.DebugContext(ctx, "fetch_cache_hit", slog.String("key", key))
		return &Response{Endpoint: endpoint, Status: http.StatusOK, Body: body, Cached: true}, nil
	}

	flight := client.group.DoChan(key, func() (any, error) {
		flightCtx, cancel := client.flightContext(ctx)
		defer cancel()

		response, err := client.fetchWithRetry(flightCtx, endpoint, params, headers)
		if err != nil {
			return nil, err
		}

		if client.validate != nil {
			if err := client.validate(response.Body); err != nil {
				client.logger.WarnContext(flightCtx, "fetch_body_rejected",
					slog.String("endpoint", endpoint),
					slog.Any("error", err),
				)
				return nil, client.rejected(endpoint, err)
			}
		}

		if client.ttl > 0 {
			client.cache.Set(flightCtx, key, response.Body, client.ttl)
		}
		return response, nil
	})

	select {
	case <-ctx.Done():
		return nil, client.classify(ctx, endpoint, ctx.Err())
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}

		if result.Shared {
			client.logger.DebugContext(ctx, "fetch_shared_in_flight", slog.String("key", key))
		}

		response := *result.Val.(*Response)
		return &response, nil
	}
}

// flightContext detaches a shared call from the caller that started it, so one
// caller going away does not fail the others waiting on the same key.
func (client *Client) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if client.deadline <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, client.deadline)
}

// flightDeadline bounds a shared call by every attempt and every backoff it may take.
// Zero means the per-attempt timeout is unset and the call is unbounded.
func flightDeadline(options Options) time.Duration {
	if options.Timeout <= 0 {
		return 0
	}

	total := options.Timeout + flightSlack
	delay := options.Backoff
	for range max(options.MaxRetries, 0) {
		total += options.Timeout + delay
		delay *= 2
	}
	return total
}

// rejected wraps a validation failure as an upstream failure unless it already is an application error.
func (client *Client) rejected(endpoint string, err error) error {
	if apperr.As(err) != nil {
		return err
	}
	return apperr.UpstreamFailure(client.service, 0, fmt.Errorf("fetch %s: %w", endpoint, err))
}

// fetchWithRetry runs attempts until success, a non-retryable failure or the retry budget is spent.
func (client *Client) fetchWithRetry(ctx context.Context, endpoint string, params url.Values, headers http.Header) (*Response, error) {
	delay := client.backoff

	for attempt := 0; ; attempt++ {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, client.classify(ctx, endpoint, err)
		}

		response, err := client.do(ctx, endpoint, params, headers)
		if err == nil {
			return response, nil
		}

		if attempt >= client.maxRetries || !retryable(err) {
			return nil, err
		}

		client.logger.WarnContext(ctx, "fetch_retry",
			slog.String("endpoint", endpoint),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, client.classify(ctx, endpoint, ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
}

// do performs exactly one HTTP attempt.
func (client *Client) do(ctx context.Context, endpoint string, params url.Values, headers http.Header) (*Response, error) {
	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("fetch: build request: %w", err))
	}

	for name, values := range headers {
		for _, value := range values {
			request.Header.Add(name, value)
		}
	}
	request.Header.Set("Accept", "application/json")

	startTime := time.Now()
	response, err := client.http.Do(request)
	if err != nil {
		return nil, client.classify(ctx, endpoint, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return nil, client.classify(ctx, endpoint, err)
	}

	client.logger.DebugContext(ctx, "fetch_completed",
		slog.String("endpoint", endpoint),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		statusErr := &StatusError{Endpoint: endpoint, Status: response.StatusCode}
		return nil, apperr.UpstreamFailure(client.service, response.StatusCode, statusErr)
	}

	return &Response{Endpoint: endpoint, Status: response.StatusCode, Body: body}, nil
}

// classify maps transport errors onto the application error taxonomy.
func (client *Client) classify(ctx context.Context, endpoint string, err error) error {
	wrapped := fmt.Errorf("fetch %s: %w", endpoint, err)

	if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Timeout(client.service, wrapped)
	}

	return apperr.UpstreamFailure(client.service, 0, wrapped)
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// retryable reports whether a failed attempt may succeed when repeated.
func retryable(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Status >= 500 || statusErr.Status == http.StatusTooManyRequests
}
