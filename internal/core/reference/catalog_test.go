// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
)

func newTestCatalog(ttl time.Duration) (*Catalog, *memoryRepository, *stubLister) {
	repo := newMemoryRepository()
	lister := &stubLister{sources: testSources()}
	syncer := NewSyncer(repo, lister, testSeed(), nil, discardLogger())
	return NewCatalog(repo, syncer, ttl, discardLogger()), repo, lister
}

/*
TestCatalog_BootstrapsEmptyStore verifies that the first snapshot seeds the
taxonomy and lazily syncs sources.
*/
func TestCatalog_BootstrapsEmptyStore(t *testing.T) {
	catalog, _, lister := newTestCatalog(time.Hour)

	snapshot, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)

	code, ok := snapshot.ResolveCountryCode("Canada")
	assert.True(t, ok)
	assert.Equal(t, "ca", code)

	id, ok := snapshot.ResolveSourceID("BBC News")
	assert.True(t, ok)
	assert.Equal(t, "bbc-news", id)
	assert.Equal(t, int32(1), lister.calls.Load())
}

/*
TestCatalog_SharesInFlightLoad verifies that concurrent first readers trigger
exactly one upstream fetch.
*/
func TestCatalog_SharesInFlightLoad(t *testing.T) {
	catalog, _, lister := newTestCatalog(time.Hour)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := catalog.Snapshot(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), lister.calls.Load())
}

/*
TestCatalog_Expiry verifies the TTL and explicit invalidation.
*/
func TestCatalog_Expiry(t *testing.T) {
	catalog, repo, _ := newTestCatalog(time.Hour)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	catalog.now = func() time.Time { return now }

	first, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)

	again, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = repo.Upsert(context.Background(), Source{ID: "wired", Name: "Wired", Category: "technology"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	expired, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, expired)
	_, ok := expired.ResolveSourceID("Wired")
	assert.True(t, ok)

	catalog.Invalidate()
	reloaded, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, expired, reloaded)
}

/*
TestCatalog_SyncInvalidates verifies that a completed sync drops the cached snapshot.
*/
func TestCatalog_SyncInvalidates(t *testing.T) {
	catalog, _, lister := newTestCatalog(time.Hour)

	before, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	_, ok := before.ResolveSourceID("Wired")
	assert.False(t, ok)

	lister.sources = append(testSources(), Source{ID: "wired", Name: "Wired"})
	_, err = catalog.syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)

	after, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	_, ok = after.ResolveSourceID("Wired")
	assert.True(t, ok)
}

/*
TestCatalog_BootstrapFailure verifies that an unreachable upstream surfaces
instead of producing an empty source set.
*/
func TestCatalog_BootstrapFailure(t *testing.T) {
	catalog, _, lister := newTestCatalog(time.Hour)
	lister.err = apperr.UpstreamFailure("news", 0, errors.New("refused"))

	_, err := catalog.Snapshot(context.Background())
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))

	lister.err = nil
	snapshot, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.Sources(), 4)
}

// gatedRepository holds ListSources until release is closed or ctx ends.
type gatedRepository struct {
	*memoryRepository
	entered chan struct{}
	release chan struct{}
}

func (repo *gatedRepository) ListSources(ctx context.Context, filter SourceFilter) ([]Source, error) {
	select {
	case repo.entered <- struct{}{}:
	default:
	}

	select {
	case <-repo.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return repo.memoryRepository.ListSources(ctx, filter)
}

/*
TestCatalog_WaiterOutlivesCancelledLeader verifies that the shared load keeps
running for the remaining readers when the reader that started it goes away.
*/
func TestCatalog_WaiterOutlivesCancelledLeader(t *testing.T) {
	repo := &gatedRepository{
		memoryRepository: newMemoryRepository(),
		entered:          make(chan struct{}, 1),
		release:          make(chan struct{}),
	}
	catalog := NewCatalog(repo, nil, time.Hour, discardLogger())

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := catalog.Snapshot(leaderCtx)
		leaderErr <- err
	}()
	<-repo.entered

	waiterErr := make(chan error, 1)
	go func() {
		_, err := catalog.Snapshot(context.Background())
		waiterErr <- err
	}()

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(repo.release)
	require.NoError(t, <-waiterErr)
}
