// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"errors"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/dberr"
	"github.com/taibuivan/newsbridge/internal/platform/docstore"
)

// DocumentRepository implements [Repository] on top of the JSONB document store.
type DocumentRepository struct {
	store *docstore.Store
}

// NewDocumentRepository creates a new repository backed by store.
func NewDocumentRepository(store *docstore.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// # Sources

/*
ListSources returns the sources matching every non-blank field of filter.

Parameters:
  - context: context.Context
  - filter: SourceFilter (codes, not display names)

Returns:
  - []Source: Matches ordered by id
  - error: Storage errors
*/
func (repository *DocumentRepository) ListSources(context context.Context, filter SourceFilter) ([]Source, error) {
	match := docstore.Filter{}
	if filter.Category != "" {
		match["category"] = filter.Category
	}
	if filter.Language != "" {
		match["language"] = filter.Language
	}
	if filter.Country != "" {
		match["country"] = filter.Country
	}

	return list[Source](context, repository.store, CollectionSources, match)
}

// GetSource reads one source by id.
func (repository *DocumentRepository) GetSource(context context.Context, id string) (Source, error) {
	document, err := repository.store.Get(context, string(CollectionSources), id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return Source{}, apperr.NotFound("Source " + id)
		}
		return Source{}, err
	}

	var source Source
	if err := document.Decode(&source); err != nil {
		return Source{}, apperr.Internal(err)
	}
	return source, nil
}

// # Taxonomy

func (repository *DocumentRepository) ListCategories(context context.Context) ([]Category, error) {
	return list[Category](context, repository.store, CollectionCategories, nil)
}

func (repository *DocumentRepository) ListLanguages(context context.Context) ([]Language, error) {
	return list[Language](context, repository.store, CollectionLanguages, nil)
}

func (repository *DocumentRepository) ListCountries(context context.Context) ([]Country, error) {
	return list[Country](context, repository.store, CollectionCountries, nil)
}

func (repository *DocumentRepository) ListSortMethods(context context.Context) ([]SortMethod, error) {
	return list[SortMethod](context, repository.store, CollectionSortMethods, nil)
}

// # Writes

// Upsert writes entry under its key. Unchanged bodies are left untouched.
func (repository *DocumentRepository) Upsert(context context.Context, entry Entry) (bool, error) {
	return repository.store.Upsert(context, string(entry.Collection()), entry.Key(), entry)
}

// DeleteExcept removes documents whose key is not listed in keep.
func (repository *DocumentRepository) DeleteExcept(context context.Context, collection Collection, keep []string) (int64, error) {
	return repository.store.DeleteExcept(context, string(collection), keep)
}

// Purge empties collection.
func (repository *DocumentRepository) Purge(context context.Context, collection Collection) (int64, error) {
	return repository.store.DeleteMany(context, string(collection), nil)
}

// Count returns the number of documents in collection.
func (repository *DocumentRepository) Count(context context.Context, collection Collection) (int64, error) {
	return repository.store.Count(context, string(collection))
}

// list decodes every document of collection matching filter into T.
func list[T any](context context.Context, store *docstore.Store, collection Collection, filter docstore.Filter) ([]T, error) {
	documents, err := store.Find(context, string(collection), filter)
	if err != nil {
		return nil, err
	}

	entries := make([]T, 0, len(documents))
	for _, document := range documents {
		var entry T
		if err := document.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
