// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
)

/*
TestSyncSources_Idempotent verifies that a second run over unchanged upstream
data leaves the collection identical and writes nothing.
*/
func TestSyncSources_Idempotent(t *testing.T) {
	repo := newMemoryRepository()
	syncer := NewSyncer(repo, &stubLister{sources: testSources()}, testSeed(), nil, discardLogger())

	first, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, first.Fetched)
	assert.Equal(t, 4, first.Upserted)

	snapshot := repo.dump(CollectionSources)
	writes := repo.writes

	second, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Upserted)
	assert.Equal(t, 4, second.Unchanged)
	assert.Equal(t, snapshot, repo.dump(CollectionSources))
	assert.Equal(t, writes, repo.writes)
	assert.NotEqual(t, first.RunID, second.RunID)
}

/*
TestSyncSources_OverwritesByID verifies upsert semantics: a changed source
replaces the stored one and never duplicates it.
*/
func TestSyncSources_OverwritesByID(t *testing.T) {
	repo := newMemoryRepository()
	lister := &stubLister{sources: testSources()}
	syncer := NewSyncer(repo, lister, testSeed(), nil, discardLogger())

	_, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)

	renamed := testSources()
	renamed[0].Name = "BBC World News"
	lister.sources = renamed

	report, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Upserted)

	stored, _ := repo.ListSources(context.Background(), SourceFilter{})
	require.Len(t, stored, 4)
	assert.Equal(t, "BBC World News", stored[0].Name)
}

/*
TestSyncSources_FetchFailureLeavesStoreUntouched verifies the abort policy.
*/
func TestSyncSources_FetchFailureLeavesStoreUntouched(t *testing.T) {
	repo := newMemoryRepository()
	lister := &stubLister{sources: testSources()}
	syncer := NewSyncer(repo, lister, testSeed(), nil, discardLogger())

	_, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)
	before := repo.dump(CollectionSources)
	writes := repo.writes

	lister.err = apperr.UpstreamFailure("news", http.StatusInternalServerError, errors.New("boom"))

	report, err := syncer.SyncSources(context.Background(), SyncOptions{Prune: true})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))
	assert.Equal(t, before, repo.dump(CollectionSources))
	assert.Equal(t, writes, repo.writes)
}

/*
TestSyncSources_PartialFailure verifies that failed upserts are reported by id
while the remaining sources are still written.
*/
func TestSyncSources_PartialFailure(t *testing.T) {
	repo := newMemoryRepository()
	repo.failIDs["espn"] = true
	syncer := NewSyncer(repo, &stubLister{sources: testSources()}, testSeed(), nil, discardLogger())

	report, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, []string{"espn"}, report.FailedIDs())
	assert.Equal(t, 3, report.Upserted)
	assert.Len(t, repo.dump(CollectionSources), 3)
}

/*
TestSyncSources_Prune covers removal of sources the upstream dropped.
*/
func TestSyncSources_Prune(t *testing.T) {
	tests := []struct {
		name       string
		prune      bool
		next       []Source
		wantPruned int64
		wantStored int
	}{
		{name: "prune removes dropped source", prune: true, next: testSources()[:3], wantPruned: 1, wantStored: 3},
		{name: "without prune dropped source stays", prune: false, next: testSources()[:3], wantPruned: 0, wantStored: 4},
		{name: "empty listing never wipes", prune: true, next: []Source{}, wantPruned: 0, wantStored: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			lister := &stubLister{sources: testSources()}
			syncer := NewSyncer(repo, lister, testSeed(), nil, discardLogger())

			_, err := syncer.SyncSources(context.Background(), SyncOptions{})
			require.NoError(t, err)

			lister.sources = tt.next
			report, err := syncer.SyncSources(context.Background(), SyncOptions{Prune: tt.prune})
			require.NoError(t, err)

			assert.Equal(t, tt.wantPruned, report.Pruned)
			assert.Len(t, repo.dump(CollectionSources), tt.wantStored)
		})
	}
}

/*
TestSyncSources_RejectsConcurrentRun verifies the sync lock.
*/
func TestSyncSources_RejectsConcurrentRun(t *testing.T) {
	locker := NewLocalLocker()
	release, acquired, err := locker.Acquire(context.Background(), lockSources, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	syncer := NewSyncer(newMemoryRepository(), &stubLister{sources: testSources()}, testSeed(), locker, discardLogger())

	_, err = syncer.SyncSources(context.Background(), SyncOptions{})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	release()
	_, err = syncer.SyncSources(context.Background(), SyncOptions{})
	assert.NoError(t, err)
}

/*
TestSyncReference_WritesSeedAndPrunesStale verifies the taxonomy sync.
*/
func TestSyncReference_WritesSeedAndPrunesStale(t *testing.T) {
	repo := newMemoryRepository()
	_, err := repo.Upsert(context.Background(), Category{Name: "obsolete"})
	require.NoError(t, err)

	syncer := NewSyncer(repo, &stubLister{}, testSeed(), nil, discardLogger())

	report, err := syncer.SyncReference(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Pruned)
	assert.Equal(t, 12, report.Fetched)

	categories, _ := repo.ListCategories(context.Background())
	assert.Equal(t, []Category{{Name: "general"}, {Name: "sports"}, {Name: "technology"}}, categories)
}

/*
TestSyncer_NotifiesListeners verifies that completed runs fire OnSync hooks
and aborted runs do not.
*/
func TestSyncer_NotifiesListeners(t *testing.T) {
	lister := &stubLister{sources: testSources()}
	syncer := NewSyncer(newMemoryRepository(), lister, testSeed(), nil, discardLogger())

	calls := 0
	syncer.OnSync(func() { calls++ })

	_, err := syncer.SyncSources(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	lister.err = errors.New("down")
	_, _ = syncer.SyncSources(context.Background(), SyncOptions{})
	assert.Equal(t, 1, calls)
}
