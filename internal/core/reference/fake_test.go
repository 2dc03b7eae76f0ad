// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryRepository is an in-memory [Repository] keeping JSON bodies like the document store.
type memoryRepository struct {
	mu      sync.Mutex
	docs    map[Collection]map[string][]byte
	failIDs map[string]bool
	writes  int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		docs:    make(map[Collection]map[string][]byte),
		failIDs: make(map[string]bool),
	}
}

func (repo *memoryRepository) Upsert(_ context.Context, entry Entry) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.failIDs[entry.Key()] {
		return false, apperr.Internal(errors.New("write refused"))
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}

	collection := repo.docs[entry.Collection()]
	if collection == nil {
		collection = make(map[string][]byte)
		repo.docs[entry.Collection()] = collection
	}

	if existing, ok := collection[entry.Key()]; ok && bytes.Equal(existing, body) {
		return false, nil
	}

	collection[entry.Key()] = body
	repo.writes++
	return true, nil
}

func (repo *memoryRepository) DeleteExcept(_ context.Context, collection Collection, keep []string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	var removed int64
	for id := range repo.docs[collection] {
		if !kept[id] {
			delete(repo.docs[collection], id)
			removed++
		}
	}
	repo.writes += int(removed)
	return removed, nil
}

func (repo *memoryRepository) Purge(_ context.Context, collection Collection) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	removed := int64(len(repo.docs[collection]))
	delete(repo.docs, collection)
	return removed, nil
}

func (repo *memoryRepository) Count(_ context.Context, collection Collection) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return int64(len(repo.docs[collection])), nil
}

func (repo *memoryRepository) GetSource(_ context.Context, id string) (Source, error) {
	repo.mu.Lock()
	body, ok := repo.docs[CollectionSources][id]
	repo.mu.Unlock()

	if !ok {
		return Source{}, apperr.NotFound("Source " + id)
	}

	var source Source
	err := json.Unmarshal(body, &source)
	return source, err
}

func (repo *memoryRepository) ListSources(_ context.Context, filter SourceFilter) ([]Source, error) {
	all := decodeAll[Source](repo, CollectionSources)

	matches := make([]Source, 0, len(all))
	for _, source := range all {
		if filter.Category != "" && source.Category != filter.Category {
			continue
		}
		if filter.Language != "" && source.Language != filter.Language {
			continue
		}
		if filter.Country != "" && source.Country != filter.Country {
			continue
		}
		matches = append(matches, source)
	}
	return matches, nil
}

func (repo *memoryRepository) ListCategories(context.Context) ([]Category, error) {
	return decodeAll[Category](repo, CollectionCategories), nil
}

func (repo *memoryRepository) ListLanguages(context.Context) ([]Language, error) {
	return decodeAll[Language](repo, CollectionLanguages), nil
}

func (repo *memoryRepository) ListCountries(context.Context) ([]Country, error) {
	return decodeAll[Country](repo, CollectionCountries), nil
}

func (repo *memoryRepository) ListSortMethods(context.Context) ([]SortMethod, error) {
	return decodeAll[SortMethod](repo, CollectionSortMethods), nil
}

// dump returns a copy of one collection's raw bodies.
func (repo *memoryRepository) dump(collection Collection) map[string]string {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	out := make(map[string]string, len(repo.docs[collection]))
	for id, body := range repo.docs[collection] {
		out[id] = string(body)
	}
	return out
}

func decodeAll[T any](repo *memoryRepository, collection Collection) []T {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ids := make([]string, 0, len(repo.docs[collection]))
	for id := range repo.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var entry T
		_ = json.Unmarshal(repo.docs[collection][id], &entry)
		out = append(out, entry)
	}
	return out
}

// stubLister returns a fixed source list or error and counts calls.
type stubLister struct {
	sources []Source
	err     error
	calls   atomic.Int32
}

func (lister *stubLister) ListSources(context.Context) ([]Source, error) {
	lister.calls.Add(1)
	if lister.err != nil {
		return nil, lister.err
	}
	return lister.sources, nil
}

func testSources() []Source {
	return []Source{
		{ID: "bbc-news", Name: "BBC News", Category: "general", Language: "en", Country: "gb"},
		{ID: "cbc-news", Name: "CBC News", Category: "general", Language: "en", Country: "ca"},
		{ID: "espn", Name: "ESPN", Category: "sports", Language: "en", Country: "us"},
		{ID: "le-monde", Name: "Le Monde", Category: "general", Language: "fr", Country: "fr"},
	}
}

func testSeed() *Seed {
	return &Seed{
		Categories:  []Category{{Name: "general"}, {Name: "sports"}, {Name: "technology"}},
		Languages:   []Language{{DisplayName: "English", Code: "en"}, {DisplayName: "French", Code: "fr"}},
		Countries:   []Country{{DisplayName: "Canada", Code: "ca"}, {DisplayName: "United Kingdom", Code: "gb"}, {DisplayName: "United States", Code: "us"}, {DisplayName: "France", Code: "fr"}},
		SortMethods: []SortMethod{{Name: "relevancy"}, {Name: "popularity"}, {Name: "publishedAt"}},
	}
}
