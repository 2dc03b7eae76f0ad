// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/respond"
	"github.com/taibuivan/newsbridge/internal/platform/validate"
	"github.com/taibuivan/newsbridge/pkg/convert"
	"github.com/taibuivan/newsbridge/pkg/pagination"
)

// Handler implements the HTTP layer for article queries.
type Handler struct {
	service *Service
}

// NewHandler constructs a news [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the article endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/headlines", handler.headlines)
	router.Get("/everything", handler.everything)

	return router
}

/*
GET /api/v1/news/headlines.

Request:
  - country, category, sources, query: string (display names, all optional)
  - page: int (default 1, at most 10)

Response:
  - 200: []Article with pagination meta
  - 400: INVALID_FIELD, CONFLICTING_FIELDS, MISSING_REQUIRED_FIELD
  - 502: UPSTREAM_FAILURE
*/
func (handler *Handler) headlines(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	page, err := pageParam(params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Headlines(request.Context(), HeadlinesInput{
		Country:  params.Get("country"),
		Category: params.Get("category"),
		Sources:  params.Get("sources"),
		Query:    params.Get("query"),
	}, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Articles, pagination.NewMeta(page, constants.NewsPageSize, result.TotalResults))
}

/*
GET /api/v1/news/everything.

Request:
  - query, titleSearch, sources, domains, excludeDomains: string (optional)
  - fromDate, toDate: string (optional, "January 2 2006")
  - language, sortBy: string (optional)
  - page: int (default 1, at most 10)

Response:
  - 200: []Article with pagination meta
  - 400: INVALID_FIELD, INVALID_DATE_RANGE, MISSING_REQUIRED_FIELD
  - 502: UPSTREAM_FAILURE
*/
func (handler *Handler) everything(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	page, err := pageParam(params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Search(request.Context(), SearchInput{
		Query:          params.Get("query"),
		TitleSearch:    params.Get("titleSearch"),
		Sources:        params.Get("sources"),
		Domains:        params.Get("domains"),
		ExcludeDomains: params.Get("excludeDomains"),
		FromDate:       params.Get("fromDate"),
		ToDate:         params.Get("toDate"),
		Language:       params.Get("language"),
		SortBy:         params.Get("sortBy"),
	}, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Articles, pagination.NewMeta(page, constants.NewsPageSize, result.TotalResults))
}

// pageParam reads ?page=. A blank value selects the first page; anything else
// must be a whole number, and the service checks its range.
func pageParam(params url.Values) (int, error) {
	raw := strings.TrimSpace(params.Get("page"))
	if raw == "" {
		return pagination.DefaultPage, nil
	}

	validator := &validate.Validator{}
	if err := validator.Integer("page", raw).Err(); err != nil {
		return 0, err
	}

	page, _ := convert.ToInt(raw)
	return page, nil
}
