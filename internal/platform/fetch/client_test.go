// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/fetch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(cache fetch.Cache, options fetch.Options) *fetch.Client {
	if options.Service == "" {
		options.Service = "news"
	}
	if options.Timeout == 0 {
		options.Timeout = 2 * time.Second
	}
	if options.Backoff == 0 {
		options.Backoff = time.Millisecond
	}
	return fetch.New(cache, options, testLogger())
}

/*
TestGet_CachesSuccessfulBody verifies that a second identical call is served
from cache without reaching the upstream.
*/
func TestGet_CachesSuccessfulBody(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newClient(fetch.NewMemoryCache(16), fetch.Options{CacheTTL: time.Minute})
	headers := http.Header{"X-Api-Key": []string{"secret"}}

	first, err := client.Get(context.Background(), server.URL, url.Values{"q": {"go"}, "pageSize": {"100"}}, headers)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := client.Get(context.Background(), server.URL, url.Values{"pageSize": {"100"}, "q": {"go"}}, headers)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, int32(1), hits.Load())
}

/*
TestGet_NonSuccessIsUpstreamFailure verifies that an error status is never
mistaken for an empty result.
*/
func TestGet_NonSuccessIsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))
	defer server.Close()

	cache := fetch.NewMemoryCache(16)
	client := newClient(cache, fetch.Options{CacheTTL: time.Minute, MaxRetries: 3})

	_, err := client.Get(context.Background(), server.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
	assert.Equal(t, 0, cache.Len(), "failures must not be cached")
}

/*
TestGet_RetriesServerErrors verifies the bounded retry on 5xx answers.
*/
func TestGet_RetriesServerErrors(t *testing.T) {
	tests := []struct {
		name       string
		failures   int32
		maxRetries int
		wantErr    bool
		wantHits   int32
	}{
		{name: "recovers within budget", failures: 2, maxRetries: 2, wantErr: false, wantHits: 3},
		{name: "budget exhausted", failures: 5, maxRetries: 1, wantErr: true, wantHits: 2},
		{name: "no retries", failures: 1, maxRetries: 0, wantErr: true, wantHits: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if hits.Add(1) <= tt.failures {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			client := newClient(nil, fetch.Options{MaxRetries: tt.maxRetries})
			_, err := client.Get(context.Background(), server.URL, nil, nil)

			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

/*
TestGet_Timeout verifies that a slow upstream surfaces as a timeout.
*/
func TestGet_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newClient(nil, fetch.Options{Timeout: 50 * time.Millisecond})

	_, err := client.Get(context.Background(), server.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeTimeout))
}

/*
TestGet_Unreachable verifies that a transport failure is an upstream failure
without a status.
*/
func TestGet_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	client := newClient(nil, fetch.Options{})

	_, err := client.Get(context.Background(), endpoint, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))

	var statusErr *fetch.StatusError
	assert.NotErrorAs(t, err, &statusErr)
}

/*
TestGet_CollapsesConcurrentCalls verifies that identical in-flight requests
share one upstream call.
*/
func TestGet_CollapsesConcurrentCalls(t *testing.T) {
	var hits atomic.Int32
	gate := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-gate
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer server.Close()

	client := newClient(nil, fetch.Options{})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = client.Get(context.Background(), server.URL, url.Values{"q": {"x"}}, nil)
		}()
	}

	// Let every caller join the in-flight request before the upstream answers.
	time.Sleep(100 * time.Millisecond)
	close(gate)
	wg.Wait()

	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}

/*
TestGet_RejectedBodyIsNotCached verifies that a 2xx body refused by the
validator fails the call and leaves the cache empty.
*/
func TestGet_RejectedBodyIsNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"status":"error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	cache := fetch.NewMemoryCache(16)
	client := newClient(cache, fetch.Options{
		CacheTTL: time.Minute,
		Validate: func(body []byte) error {
			if !bytes.Contains(body, []byte(`"ok"`)) {
				return errors.New("in-band error")
			}
			return nil
		},
	})

	_, err := client.Get(context.Background(), server.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))
	assert.Equal(t, 0, cache.Len())

	response, err := client.Get(context.Background(), server.URL, nil, nil)
	require.NoError(t, err)
	assert.False(t, response.Cached)

	response, err = client.Get(context.Background(), server.URL, nil, nil)
	require.NoError(t, err)
	assert.True(t, response.Cached)
	assert.Equal(t, int32(2), hits.Load())
}

/*
TestGet_WaiterOutlivesCancelledLeader verifies that a caller sharing an
in-flight request still gets the answer when the caller that started it
goes away.
*/
func TestGet_WaiterOutlivesCancelledLeader(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newClient(nil, fetch.Options{})
	params := url.Values{"q": {"shared"}}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := client.Get(leaderCtx, server.URL, params, nil)
		leaderErr <- err
	}()

	// Join the flight the leader opened, then drop the leader.
	time.Sleep(20 * time.Millisecond)
	waiterDone := make(chan error, 1)
	go func() {
		_, err := client.Get(context.Background(), server.URL, params, nil)
		waiterDone <- err
	}()
	time.Sleep(40 * time.Millisecond)
	cancel()

	require.Error(t, <-leaderErr)
	require.NoError(t, <-waiterDone)
	assert.Equal(t, int32(1), hits.Load())
}

/*
TestResponse_Decode verifies JSON decoding of a fetched body.
*/
func TestResponse_Decode(t *testing.T) {
	response := &fetch.Response{Endpoint: "x", Body: []byte(`{"status":"ok","total":3}`)}

	var payload struct {
		Status string `json:"status"`
		Total  int    `json:"total"`
	}
	require.NoError(t, response.Decode(&payload))
	assert.Equal(t, "ok", payload.Status)
	assert.Equal(t, 3, payload.Total)

	broken := &fetch.Response{Endpoint: "x", Body: []byte(`not json`)}
	assert.Error(t, broken.Decode(&payload))
}

/*
TestCacheKey verifies that parameter order never produces distinct keys.
*/
func TestCacheKey(t *testing.T) {
	a := fetch.CacheKey("https://api.test/v2/everything", url.Values{"q": {"go"}, "language": {"en"}})
	b := fetch.CacheKey("https://api.test/v2/everything", url.Values{"language": {"en"}, "q": {"go"}})

	assert.Equal(t, a, b)
	assert.Equal(t, "https://api.test/v2/sources", fetch.CacheKey("https://api.test/v2/sources", nil))
}
