// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/ctxutil"
	"github.com/taibuivan/newsbridge/pkg/slice"
	"github.com/taibuivan/newsbridge/pkg/uuidv7"
)

// Lock names used by the syncer.
const (
	lockSources  = "sources"
	lockTaxonomy = "taxonomy"
)

// SourceLister fetches the full upstream source list.
type SourceLister interface {
	ListSources(ctx context.Context) ([]Source, error)
}

// SyncOptions tunes a source sync.
type SyncOptions struct {
	// Prune deletes stored sources the upstream no longer lists.
	Prune bool
}

// SyncFailure records one entry that could not be written.
type SyncFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	RunID      string        `json:"run_id"`
	Collection string        `json:"collection"`
	Fetched    int           `json:"fetched"`
	Upserted   int           `json:"upserted"`
	Unchanged  int           `json:"unchanged"`
	Pruned     int64         `json:"pruned"`
	Failed     []SyncFailure `json:"failed"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// FailedIDs lists the ids of entries that could not be written.
func (report *SyncReport) FailedIDs() []string {
	return slice.Map(report.Failed, func(failure SyncFailure) string { return failure.ID })
}

// OK reports whether every entry was written.
func (report *SyncReport) OK() bool {
	return len(report.Failed) == 0
}

// # Syncer

/*
Syncer mirrors upstream data into the reference store.

Every write is an independent single-document upsert, so a concurrent reader
sees each source either before or after the run, never half-written.
*/
type Syncer struct {
	repo   Repository
	lister SourceLister
	seed   *Seed
	locker Locker
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	listeners []func()
}

// NewSyncer creates a syncer. A nil locker falls back to a [LocalLocker].
func NewSyncer(repo Repository, lister SourceLister, seed *Seed, locker Locker, logger *slog.Logger) *Syncer {
	if locker == nil {
		locker = NewLocalLocker()
	}

	return &Syncer{
		repo:   repo,
		lister: lister,
		seed:   seed,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

// OnSync registers fn to run after every completed sync.
func (syncer *Syncer) OnSync(fn func()) {
	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	syncer.listeners = append(syncer.listeners, fn)
}

/*
SyncSources pulls the upstream source list and upserts every entry by id.

A failed fetch aborts the run before anything is written. A failed upsert is
recorded in the report and the run continues with the remaining sources.

Parameters:
  - ctx: context.Context
  - options: SyncOptions

Returns:
  - *SyncReport: Outcome of the run (nil when the fetch failed)
  - error: apperr.Conflict when a run is already in progress, upstream and prune failures
*/
func (syncer *Syncer) SyncSources(ctx context.Context, options SyncOptions) (*SyncReport, error) {
	release, err := syncer.acquire(ctx, lockSources)
	if err != nil {
		return nil, err
	}
	defer release()

	report := syncer.newReport(CollectionSources)
	ctx = ctxutil.WithSyncRun(ctx, report.RunID)
	logger := syncer.logger.With(ctxutil.LogAttrs(ctx)...)

	sources, err := syncer.lister.ListSources(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "sync_sources_fetch_failed", slog.Any("error", err))
		return nil, err
	}
	report.Fetched = len(sources)

	keep := make([]string, 0, len(sources))
	for _, source := range sources {
		if source.ID == "" {
			report.Failed = append(report.Failed, SyncFailure{ID: source.Name, Error: "source has no id"})
			continue
		}
		keep = append(keep, source.ID)
		syncer.write(ctx, report, source)
	}

	// An empty listing is never trusted as a reason to wipe the collection.
	if options.Prune && len(keep) > 0 {
		pruned, err := syncer.repo.DeleteExcept(ctx, CollectionSources, keep)
		if err != nil {
			syncer.finish(ctx, logger, report)
			return report, err
		}
		report.Pruned = pruned
	}

	syncer.finish(ctx, logger, report)
	return report, nil
}

/*
SyncReference writes the embedded taxonomy seed and removes entries the seed
no longer contains.

Returns:
  - *SyncReport: Outcome of the run
  - error: apperr.Conflict when a run is already in progress, prune failures
*/
func (syncer *Syncer) SyncReference(ctx context.Context) (*SyncReport, error) {
	release, err := syncer.acquire(ctx, lockTaxonomy)
	if err != nil {
		return nil, err
	}
	defer release()

	report := syncer.newReport("taxonomy")
	ctx = ctxutil.WithSyncRun(ctx, report.RunID)
	logger := syncer.logger.With(ctxutil.LogAttrs(ctx)...)
	entries := syncer.seed.Entries()

	var pruneErr error
	for _, collection := range TaxonomyCollections {
		keep := make([]string, 0, len(entries[collection]))
		for _, entry := range entries[collection] {
			keep = append(keep, entry.Key())
			syncer.write(ctx, report, entry)
		}
		report.Fetched += len(entries[collection])

		pruned, err := syncer.repo.DeleteExcept(ctx, collection, keep)
		if err != nil {
			pruneErr = errors.Join(pruneErr, err)
			continue
		}
		report.Pruned += pruned
	}

	syncer.finish(ctx, logger, report)
	return report, pruneErr
}

// Run syncs sources every interval until ctx is cancelled. A non-positive
// interval returns immediately.
func (syncer *Syncer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := syncer.SyncSources(ctx, SyncOptions{}); err != nil {
				syncer.logger.WarnContext(ctx, "scheduled_sync_failed", slog.Any("error", err))
			}
		}
	}
}

// # Helpers

func (syncer *Syncer) acquire(ctx context.Context, name string) (func(), error) {
	release, acquired, err := syncer.locker.Acquire(ctx, name, constants.SyncLockTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !acquired {
		return nil, apperr.Conflict("A " + name + " sync is already running")
	}
	return release, nil
}

func (syncer *Syncer) newReport(collection Collection) *SyncReport {
	return &SyncReport{
		RunID:      uuidv7.New(),
		Collection: string(collection),
		Failed:     []SyncFailure{},
		StartedAt:  syncer.now(),
	}
}

// write upserts one entry and records the outcome in report.
func (syncer *Syncer) write(ctx context.Context, report *SyncReport, entry Entry) {
	changed, err := syncer.repo.Upsert(ctx, entry)
	switch {
	case err != nil:
		syncer.logger.With(ctxutil.LogAttrs(ctx)...).WarnContext(ctx, "sync_upsert_failed",
			slog.String("id", entry.Key()),
			slog.Any("error", errors.Unwrap(err)),
		)
		report.Failed = append(report.Failed, SyncFailure{ID: entry.Key(), Error: err.Error()})
	case changed:
		report.Upserted++
	default:
		report.Unchanged++
	}
}

func (syncer *Syncer) finish(ctx context.Context, logger *slog.Logger, report *SyncReport) {
	report.Duration = syncer.now().Sub(report.StartedAt)

	level := slog.LevelInfo
	if !report.OK() {
		level = slog.LevelWarn
	}

	logger.Log(ctx, level, "sync_finished",
		slog.String("collection", report.Collection),
		slog.Int("fetched", report.Fetched),
		slog.Int("upserted", report.Upserted),
		slog.Int("unchanged", report.Unchanged),
		slog.Int64("pruned", report.Pruned),
		slog.Any("failed_ids", report.FailedIDs()),
		slog.Int64("duration_ms", report.Duration.Milliseconds()),
	)

	syncer.mu.Lock()
	listeners := append([]func(){}, syncer.listeners...)
	syncer.mu.Unlock()

	for _, listener := range listeners {
		listener()
	}
}
