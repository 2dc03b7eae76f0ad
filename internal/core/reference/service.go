// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"log/slog"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/validate"
	"github.com/taibuivan/newsbridge/pkg/slice"
)

// # Service Layer

// SourceQuery narrows a source listing by display names, as a user types them.
type SourceQuery struct {
	Category string
	Language string
	Country  string
}

// Service exposes reference data and sync operations to the command surfaces.
type Service struct {
	catalog *Catalog
	repo    Repository
	syncer  *Syncer
	logger  *slog.Logger
}

// NewService constructs a new reference [Service].
func NewService(catalog *Catalog, repo Repository, syncer *Syncer, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		repo:    repo,
		syncer:  syncer,
		logger:  logger,
	}
}

// # Taxonomy Methods

func (service *Service) Categories(context context.Context) ([]Category, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return nil, err
	}
	return snapshot.Categories(), nil
}

func (service *Service) Languages(context context.Context) ([]Language, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return nil, err
	}
	return snapshot.Languages(), nil
}

func (service *Service) Countries(context context.Context) ([]Country, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return nil, err
	}
	return snapshot.Countries(), nil
}

func (service *Service) SortMethods(context context.Context) ([]SortMethod, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return nil, err
	}
	return snapshot.SortMethods(), nil
}

// # Source Methods

/*
Sources lists the stored sources matching query.

Display names are resolved first; an unknown name fails with InvalidField
instead of silently matching nothing.

Parameters:
  - context: context.Context
  - query: SourceQuery (display names; blank fields match everything)

Returns:
  - []Source: Matches ordered by id
  - error: apperr.InvalidField or storage errors
*/
func (service *Service) Sources(context context.Context, query SourceQuery) ([]Source, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return nil, err
	}

	filter := SourceFilter{}

	if query.Category != "" {
		if !snapshot.IsValidCategory(query.Category) {
			return nil, apperr.InvalidField("category", query.Category, "unknown category")
		}
		filter.Category = query.Category
	}

	if query.Language != "" {
		code, ok := snapshot.ResolveLanguageCode(query.Language)
		if !ok {
			return nil, apperr.InvalidField("language", query.Language, "unknown language")
		}
		filter.Language = code
	}

	if query.Country != "" {
		code, ok := snapshot.ResolveCountryCode(query.Country)
		if !ok {
			return nil, apperr.InvalidField("country", query.Country, "unknown country")
		}
		filter.Country = code
	}

	return service.repo.ListSources(context, filter)
}

// # Resolution Methods

// ResolveLanguage returns the code for a language display name.
func (service *Service) ResolveLanguage(context context.Context, name string) (string, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return "", err
	}

	code, ok := snapshot.ResolveLanguageCode(name)
	if !ok {
		return "", apperr.InvalidField("language", name, "unknown language")
	}
	return code, nil
}

// ResolveCountry returns the code for a country display name.
func (service *Service) ResolveCountry(context context.Context, name string) (string, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return "", err
	}

	code, ok := snapshot.ResolveCountryCode(name)
	if !ok {
		return "", apperr.InvalidField("country", name, "unknown country")
	}
	return code, nil
}

// ResolveSource returns the stored source for a source name or id.
func (service *Service) ResolveSource(context context.Context, name string) (Source, error) {
	snapshot, err := service.catalog.Snapshot(context)
	if err != nil {
		return Source{}, err
	}

	id, ok := snapshot.ResolveSourceID(name)
	if !ok {
		return Source{}, apperr.InvalidField("sources", name, "unknown source")
	}

	source, _ := snapshot.SourceByID(id)
	return source, nil
}

// Source reads one source by id straight from the store, bypassing the snapshot.
func (service *Service) Source(context context.Context, id string) (Source, error) {
	validator := &validate.Validator{}
	if err := validator.Required("id", id).Err(); err != nil {
		return Source{}, err
	}
	return service.repo.GetSource(context, id)
}

// # Maintenance Methods

// SyncSources mirrors the upstream source list.
func (service *Service) SyncSources(context context.Context, prune bool) (*SyncReport, error) {
	return service.syncer.SyncSources(context, SyncOptions{Prune: prune})
}

// SyncTaxonomy rewrites the taxonomy collections from the embedded seed.
func (service *Service) SyncTaxonomy(context context.Context) (*SyncReport, error) {
	return service.syncer.SyncReference(context)
}

/*
Purge empties one collection and drops the cached snapshot.

Parameters:
  - context: context.Context
  - collection: string (collection name)

Returns:
  - int64: Number of removed documents
  - error: apperr.ValidationError for an unknown collection, storage errors
*/
func (service *Service) Purge(context context.Context, collection string) (int64, error) {
	allowed := slice.Map(append([]Collection{CollectionSources}, TaxonomyCollections...), func(c Collection) string {
		return string(c)
	})

	validator := &validate.Validator{}
	validator.Required("collection", collection).OneOf("collection", collection, allowed...)
	if err := validator.Err(); err != nil {
		return 0, err
	}

	removed, err := service.repo.Purge(context, Collection(collection))
	if err != nil {
		return 0, err
	}
	service.catalog.Invalidate()

	service.logger.WarnContext(context, "reference_collection_purged",
		slog.String("collection", collection),
		slog.Int64("removed", removed),
	)

	return removed, nil
}
