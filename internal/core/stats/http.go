// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/newsbridge/internal/platform/request"
	"github.com/taibuivan/newsbridge/internal/platform/respond"
)

// Handler implements the HTTP layer for statistics.
type Handler struct {
	service *Service
}

// NewHandler constructs a statistics [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the statistics endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/countries", handler.listCountries)
	router.Get("/countries/{name}", handler.getCountry)
	router.Get("/timeline/{name}", handler.getTimeline)

	return router
}

func (handler *Handler) listCountries(writer http.ResponseWriter, request *http.Request) {
	countries, err := handler.service.Countries(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countries)
}

/*
GET /api/v1/stats/countries/{name}.

Request:
  - name: string (country display name, URL-escaped)

Response:
  - 200: CountryStats
  - 400: INVALID_FIELD: Unknown country
  - 502: UPSTREAM_FAILURE
*/
func (handler *Handler) getCountry(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.CountryStats(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

/*
GET /api/v1/stats/timeline/{name}.

Request:
  - name: string (country display name or "global")
  - date: string (optional, returns a single day such as "August 29 2020")

Response:
  - 200: []TimelineDay, or TimelineDay when date is given
  - 404: NOT_FOUND: No entry for date
*/
func (handler *Handler) getTimeline(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "name")

	if date := request.URL.Query().Get("date"); date != "" {
		day, err := handler.service.QueryDate(request.Context(), name, date)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, day)
		return
	}

	timeline, err := handler.service.Timeline(request.Context(), name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, timeline)
}
