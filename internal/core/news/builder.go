// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/newsbridge/internal/core/reference"
	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/pkg/convert"
	"github.com/taibuivan/newsbridge/pkg/query"
)

// Upstream parameter names.
const (
	paramCountry        = "country"
	paramCategory       = "category"
	paramSources        = "sources"
	paramQuery          = "q"
	paramTitleQuery     = "qInTitle"
	paramDomains        = "domains"
	paramExcludeDomains = "excludeDomains"
	paramFrom           = "from"
	paramTo             = "to"
	paramLanguage       = "language"
	paramSortBy         = "sortBy"
	paramPageSize       = "pageSize"
	paramPage           = "page"
)

// SnapshotSource provides the reference snapshot used for resolution.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*reference.Snapshot, error)
}

// HeadlinesInput holds the raw, optional top-headlines fields.
type HeadlinesInput struct {
	Country  string
	Category string
	// Sources is a comma-separated list of source names.
	Sources string
	Query   string
}

// SearchInput holds the raw, optional everything-search fields.
type SearchInput struct {
	Query          string
	TitleSearch    string
	Sources        string
	Domains        string
	ExcludeDomains string
	FromDate       string
	ToDate         string
	Language       string
	SortBy         string
}

// Builder turns raw user input into validated upstream queries.
type Builder struct {
	catalog SnapshotSource
	now     func() time.Time
}

// NewBuilder creates a builder. now decides what "today" is for date checks.
func NewBuilder(catalog SnapshotSource, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{catalog: catalog, now: now}
}

/*
TopHeadlines validates a top-headlines request.

Rules are checked in order and the first violation is returned:
country, category, sources, then the sources/country/category exclusion,
then the requirement that at least one field is present.

Parameters:
  - ctx: context.Context
  - input: HeadlinesInput

Returns:
  - Query: Resolved parameters including the fixed page size
  - error: InvalidField, ConflictingFields, MissingRequiredField, or a snapshot load failure
*/
func (builder *Builder) TopHeadlines(ctx context.Context, input HeadlinesInput) (Query, error) {
	input = HeadlinesInput{
		Country:  strings.TrimSpace(input.Country),
		Category: strings.TrimSpace(input.Category),
		Sources:  strings.TrimSpace(input.Sources),
		Query:    strings.TrimSpace(input.Query),
	}

	out := Query{}
	snapshot := builder.lazySnapshot(ctx)

	if input.Country != "" {
		snap, err := snapshot()
		if err != nil {
			return nil, err
		}
		code, ok := snap.ResolveCountryCode(input.Country)
		if !ok {
			return nil, apperr.InvalidField("country", input.Country, "unknown country")
		}
		out.Set(paramCountry, code)
	}

	if input.Category != "" {
		snap, err := snapshot()
		if err != nil {
			return nil, err
		}
		if !snap.IsValidCategory(input.Category) {
			return nil, apperr.InvalidField("category", input.Category, "unknown category")
		}
		out.Set(paramCategory, input.Category)
	}

	if names := query.StringSlice(input.Sources); len(names) > 0 {
		ids, err := builder.resolveSources(snapshot, input.Sources, names)
		if err != nil {
			return nil, err
		}
		out.Set(paramSources, ids)
	}

	if _, hasSources := out[paramSources]; hasSources {
		_, hasCountry := out[paramCountry]
		_, hasCategory := out[paramCategory]

		switch {
		case hasCountry && hasCategory:
			return nil, apperr.ConflictingFields("sources", "country", "category")
		case hasCountry:
			return nil, apperr.ConflictingFields("sources", "country")
		case hasCategory:
			return nil, apperr.ConflictingFields("sources", "category")
		}
	}

	out.Set(paramQuery, input.Query)

	if len(out) == 0 {
		return nil, apperr.MissingRequiredField("country", "category", "sources", "query")
	}

	out.Set(paramPageSize, strconv.Itoa(constants.NewsPageSize))
	return out, nil
}

/*
Everything validates an everything-search request.

Rules are checked in order and the first violation is returned: language,
sources, dates, sort method, then the requirement that at least one of
query, titleSearch, sources or domains is present.

Dates are accepted as "January 2 2006" (and a few close spellings) and sent
as ISO calendar dates. Neither date may lie after today and fromDate may not
lie after toDate.

Parameters:
  - ctx: context.Context
  - input: SearchInput

Returns:
  - Query: Resolved parameters including the fixed page size
  - error: InvalidField, InvalidDateRange, MissingRequiredField, or a snapshot load failure
*/
func (builder *Builder) Everything(ctx context.Context, input SearchInput) (Query, error) {
	input = SearchInput{
		Query:          strings.TrimSpace(input.Query),
		TitleSearch:    strings.TrimSpace(input.TitleSearch),
		Sources:        strings.TrimSpace(input.Sources),
		Domains:        strings.TrimSpace(input.Domains),
		ExcludeDomains: strings.TrimSpace(input.ExcludeDomains),
		FromDate:       strings.TrimSpace(input.FromDate),
		ToDate:         strings.TrimSpace(input.ToDate),
		Language:       strings.TrimSpace(input.Language),
		SortBy:         strings.TrimSpace(input.SortBy),
	}

	out := Query{}
	snapshot := builder.lazySnapshot(ctx)

	if input.Language != "" {
		snap, err := snapshot()
		if err != nil {
			return nil, err
		}
		code, ok := snap.ResolveLanguageCode(input.Language)
		if !ok {
			return nil, apperr.InvalidField("language", input.Language, "unknown language")
		}
		out.Set(paramLanguage, code)
	}

	if names := query.StringSlice(input.Sources); len(names) > 0 {
		ids, err := builder.resolveSources(snapshot, input.Sources, names)
		if err != nil {
			return nil, err
		}
		out.Set(paramSources, ids)
	}

	if err := builder.checkDates(out, input.FromDate, input.ToDate); err != nil {
		return nil, err
	}

	if input.SortBy != "" {
		snap, err := snapshot()
		if err != nil {
			return nil, err
		}
		if !snap.IsValidSortMethod(input.SortBy) {
			return nil, apperr.InvalidField("sortBy", input.SortBy, "unknown sort method")
		}
		out.Set(paramSortBy, input.SortBy)
	}

	out.Set(paramQuery, input.Query)
	out.Set(paramTitleQuery, input.TitleSearch)
	out.Set(paramDomains, input.Domains)

	_, hasQuery := out[paramQuery]
	_, hasTitle := out[paramTitleQuery]
	_, hasSources := out[paramSources]
	_, hasDomains := out[paramDomains]
	if !hasQuery && !hasTitle && !hasSources && !hasDomains {
		return nil, apperr.MissingRequiredField("query", "titleSearch", "sources", "domains")
	}

	out.Set(paramExcludeDomains, input.ExcludeDomains)
	out.Set(paramPageSize, strconv.Itoa(constants.NewsPageSize))
	return out, nil
}

// # Helpers

// lazySnapshot loads the reference snapshot on first use only, so a request
// that needs no resolution never touches the store.
func (builder *Builder) lazySnapshot(ctx context.Context) func() (*reference.Snapshot, error) {
	var (
		snapshot *reference.Snapshot
		err      error
		loaded   bool
	)
	return func() (*reference.Snapshot, error) {
		if !loaded {
			snapshot, err = builder.catalog.Snapshot(ctx)
			loaded = true
		}
		return snapshot, err
	}
}

// resolveSources maps every source name to its id, preserving input order.
func (builder *Builder) resolveSources(snapshot func() (*reference.Snapshot, error), raw string, names []string) (string, error) {
	if len(names) > constants.MaxSources {
		return "", apperr.InvalidField("sources", raw, fmt.Sprintf("at most %d sources are allowed", constants.MaxSources))
	}

	snap, err := snapshot()
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := snap.ResolveSourceID(name)
		if !ok {
			return "", apperr.InvalidField("sources", name, "unknown source")
		}
		ids = append(ids, id)
	}

	return strings.Join(ids, ","), nil
}

// checkDates parses both dates and enforces fromDate <= toDate <= today.
// Without a toDate, fromDate is bounded by today.
func (builder *Builder) checkDates(out Query, rawFrom, rawTo string) error {
	if rawFrom == "" && rawTo == "" {
		return nil
	}

	year, month, day := builder.now().UTC().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	upper := today

	if rawTo != "" {
		to, err := parseDate("toDate", rawTo)
		if err != nil {
			return err
		}
		if to.After(today) {
			return apperr.InvalidDateRange("toDate", "toDate cannot be later than today")
		}
		upper = to
		out.Set(paramTo, to.Format(convert.ISODate))
	}

	if rawFrom != "" {
		from, err := parseDate("fromDate", rawFrom)
		if err != nil {
			return err
		}
		if from.After(upper) {
			if rawTo != "" {
				return apperr.InvalidDateRange("fromDate", "fromDate cannot be later than toDate")
			}
			return apperr.InvalidDateRange("fromDate", "fromDate cannot be later than today")
		}
		out.Set(paramFrom, from.Format(convert.ISODate))
	}

	return nil
}

func parseDate(field, raw string) (time.Time, error) {
	parsed, ok := convert.ToDate(raw)
	if !ok {
		return time.Time{}, apperr.InvalidField(field, raw, `expected a date such as "January 2 2006"`)
	}
	return parsed, nil
}
