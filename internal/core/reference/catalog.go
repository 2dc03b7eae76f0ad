// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
)

// Catalog hands out reference snapshots.
//
// The first caller after a miss or expiry loads the collections; concurrent
// callers wait for that same load instead of issuing their own. Empty
// taxonomy collections are seeded and an empty source collection is synced
// from upstream before the first snapshot is built.
type Catalog struct {
	repo   Repository
	syncer *Syncer
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	loadTimeout time.Duration

	mu         sync.RWMutex
	current    *Snapshot
	generation uint64

	group singleflight.Group
}

// NewCatalog creates a catalog. A nil syncer disables bootstrapping; a
// non-positive ttl keeps snapshots until [Catalog.Invalidate] is called.
// The catalog subscribes itself to the syncer so that every sync invalidates it.
func NewCatalog(repo Repository, syncer *Syncer, ttl time.Duration, logger *slog.Logger) *Catalog {
	catalog := &Catalog{
		repo:   repo,
		syncer: syncer,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,

		loadTimeout: constants.ReferenceLoadTimeout,
	}

	if syncer != nil {
		syncer.OnSync(catalog.Invalidate)
	}

	return catalog
}

/*
Snapshot returns a fresh snapshot, loading one if needed.

Parameters:
  - ctx: context.Context

Returns:
  - *Snapshot: Immutable view of every collection
  - error: Storage failures, or the upstream failure of a bootstrap sync
*/
func (catalog *Catalog) Snapshot(ctx context.Context) (*Snapshot, error) {
	catalog.mu.RLock()
	current := catalog.current
	catalog.mu.RUnlock()

	if current != nil && catalog.fresh(current) {
		return current, nil
	}

	// The load serves every waiter, so it runs detached from the caller that
	// started it. Each caller still stops waiting when its own context ends.
	flight := catalog.group.DoChan("snapshot", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalog.loadTimeout)
		defer cancel()
		return catalog.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*Snapshot), nil
	}
}

// Invalidate drops the current snapshot. The next [Catalog.Snapshot] reloads.
func (catalog *Catalog) Invalidate() {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	catalog.current = nil
	catalog.generation++
}

func (catalog *Catalog) fresh(snapshot *Snapshot) bool {
	if catalog.ttl <= 0 {
		return true
	}
	return catalog.now().Before(snapshot.LoadedAt().Add(catalog.ttl))
}

// load bootstraps empty collections and reads every collection into a new snapshot.
func (catalog *Catalog) load(ctx context.Context) (*Snapshot, error) {
	if err := catalog.bootstrap(ctx); err != nil {
		return nil, err
	}

	catalog.mu.RLock()
	generation := catalog.generation
	catalog.mu.RUnlock()

	sources, err := catalog.repo.ListSources(ctx, SourceFilter{})
	if err != nil {
		return nil, err
	}
	categories, err := catalog.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	languages, err := catalog.repo.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}
	countries, err := catalog.repo.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	sortMethods, err := catalog.repo.ListSortMethods(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := NewSnapshot(sources, categories, languages, countries, sortMethods, catalog.now())

	// A sync that finished while we were reading has already invalidated us;
	// hand the snapshot to the waiting callers but do not keep it.
	catalog.mu.Lock()
	if catalog.generation == generation {
		catalog.current = snapshot
	}
	catalog.mu.Unlock()

	catalog.logger.DebugContext(ctx, "reference_snapshot_loaded",
		slog.Int("sources", len(sources)),
		slog.Int("languages", len(languages)),
		slog.Int("countries", len(countries)),
	)

	return snapshot, nil
}

// bootstrap seeds an empty taxonomy and syncs an empty source collection.
func (catalog *Catalog) bootstrap(ctx context.Context) error {
	if catalog.syncer == nil {
		return nil
	}

	for _, collection := range TaxonomyCollections {
		count, err := catalog.repo.Count(ctx, collection)
		if err != nil {
			return err
		}
		if count == 0 {
			catalog.logger.InfoContext(ctx, "reference_taxonomy_seeding", slog.String("collection", string(collection)))
			if _, err := catalog.syncer.SyncReference(ctx); err != nil && !concurrentRun(err) {
				return err
			}
			break
		}
	}

	count, err := catalog.repo.Count(ctx, CollectionSources)
	if err != nil {
		return err
	}
	if count == 0 {
		catalog.logger.InfoContext(ctx, "reference_sources_lazy_sync")
		if _, err := catalog.syncer.SyncSources(ctx, SyncOptions{}); err != nil && !concurrentRun(err) {
			return err
		}
	}

	return nil
}

// concurrentRun reports whether err only says another sync holds the lock.
// That run writes the same data, so the load proceeds with what is stored.
func concurrentRun(err error) bool {
	return apperr.HasCode(err, apperr.CodeConflict)
}
