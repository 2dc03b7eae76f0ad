// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference provides the HTTP interface for the reference collections.

# Access Control

  - Public: Listing of categories, languages, countries, sort methods and sources.
  - Operator: Triggering syncs and purging collections.
*/
package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/newsbridge/internal/platform/middleware"
	requestutil "github.com/taibuivan/newsbridge/internal/platform/request"
	"github.com/taibuivan/newsbridge/internal/platform/respond"
	"github.com/taibuivan/newsbridge/internal/platform/sec"
	"github.com/taibuivan/newsbridge/pkg/convert"
)

// Handler implements the HTTP layer for reference data.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reference [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the reference endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// # Taxonomy Endpoints
	router.Get("/categories", handler.listCategories)
	router.Get("/languages", handler.listLanguages)
	router.Get("/countries", handler.listCountries)
	router.Get("/sort-methods", handler.listSortMethods)

	// # Source Endpoints
	router.Get("/sources", handler.listSources)
	router.Get("/sources/{id}", handler.getSource)

	// Operator only
	router.Group(func(operatorRoute chi.Router) {
		operatorRoute.Use(middleware.RequireRole(sec.RoleOperator))

		operatorRoute.Post("/sync/sources", handler.syncSources)
		operatorRoute.Post("/sync/taxonomy", handler.syncTaxonomy)
		operatorRoute.Delete("/{collection}", handler.purge)
	})

	return router
}

/*
GET /api/v1/reference/categories.

Response:
  - 200: []Category
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.Categories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

/*
GET /api/v1/reference/languages.

Response:
  - 200: []Language
*/
func (handler *Handler) listLanguages(writer http.ResponseWriter, request *http.Request) {
	languages, err := handler.service.Languages(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, languages)
}

/*
GET /api/v1/reference/countries.

Response:
  - 200: []Country
*/
func (handler *Handler) listCountries(writer http.ResponseWriter, request *http.Request) {
	countries, err := handler.service.Countries(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countries)
}

func (handler *Handler) listSortMethods(writer http.ResponseWriter, request *http.Request) {
	methods, err := handler.service.SortMethods(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, methods)
}

/*
GET /api/v1/reference/sources.

Description: Lists stored sources, optionally narrowed by display names.

Request:
  - category: string (optional)
  - language: string (optional, display name such as "English")
  - country: string (optional, display name such as "Canada")

Response:
  - 200: []Source
  - 400: INVALID_FIELD: Unknown category, language or country
*/
func (handler *Handler) listSources(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	sources, err := handler.service.Sources(request.Context(), SourceQuery{
		Category: params.Get("category"),
		Language: params.Get("language"),
		Country:  params.Get("country"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sources)
}

/*
GET /api/v1/reference/sources/{id}.

Response:
  - 200: Source
  - 404: NOT_FOUND: No source stored under id
*/
func (handler *Handler) getSource(writer http.ResponseWriter, request *http.Request) {
	source, err := handler.service.Source(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, source)
}

/*
POST /api/v1/reference/sync/sources.

Description: Mirrors the upstream source list into the reference store.

Request:
  - prune: bool (optional query parameter)

Response:
  - 200: SyncReport
  - 409: CONFLICT: A sync is already running
  - 502: UPSTREAM_FAILURE: Source list could not be fetched (store untouched)
*/
func (handler *Handler) syncSources(writer http.ResponseWriter, request *http.Request) {
	prune := convert.ToBool(request.URL.Query().Get("prune"))

	report, err := handler.service.SyncSources(request.Context(), prune)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

/*
POST /api/v1/reference/sync/taxonomy.

Response:
  - 200: SyncReport
*/
func (handler *Handler) syncTaxonomy(writer http.ResponseWriter, request *http.Request) {
	report, err := handler.service.SyncTaxonomy(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

/*
DELETE /api/v1/reference/{collection}.

Response:
  - 200: {"removed": n}
  - 400: VALIDATION_ERROR: Unknown collection
*/
func (handler *Handler) purge(writer http.ResponseWriter, request *http.Request) {
	removed, err := handler.service.Purge(request.Context(), requestutil.Param(request, "collection"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{"removed": removed})
}
