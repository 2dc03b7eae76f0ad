// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import "context"

// Repository defines the data access contract for the reference collections.
type Repository interface {
	ListSources(context context.Context, filter SourceFilter) ([]Source, error)

	// GetSource returns the source stored under id or an apperr.NotFound.
	GetSource(context context.Context, id string) (Source, error)

	ListCategories(context context.Context) ([]Category, error)
	ListLanguages(context context.Context) ([]Language, error)
	ListCountries(context context.Context) ([]Country, error)
	ListSortMethods(context context.Context) ([]SortMethod, error)

	// Upsert inserts or overwrites entry by key and reports whether anything changed.
	Upsert(context context.Context, entry Entry) (bool, error)

	// DeleteExcept removes every document of collection whose key is not in keep.
	DeleteExcept(context context.Context, collection Collection, keep []string) (int64, error)

	// Purge removes every document of collection.
	Purge(context context.Context, collection Collection) (int64, error)

	Count(context context.Context, collection Collection) (int64, error)
}
