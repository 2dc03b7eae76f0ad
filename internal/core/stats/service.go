// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/pkg/convert"
)

// GlobalName selects the worldwide timeline instead of a country.
const GlobalName = "global"

// Service resolves country names and reads statistics.
type Service struct {
	client *Client
	logger *slog.Logger
}

// NewService constructs a statistics [Service].
func NewService(client *Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Countries lists every country with statistics.
func (service *Service) Countries(context context.Context) ([]CountryRef, error) {
	return service.client.Countries(context)
}

/*
CountryCode resolves a country display name to its code.

Parameters:
  - context: context.Context
  - name: string (exact, case-sensitive display name)

Returns:
  - string: Two-letter code
  - error: apperr.InvalidField when the name is unknown, upstream failures
*/
func (service *Service) CountryCode(context context.Context, name string) (string, error) {
	countries, err := service.client.Countries(context)
	if err != nil {
		return "", err
	}

	for _, country := range countries {
		if country.Name == name {
			return country.Code, nil
		}
	}

	return "", apperr.InvalidField("country", name, "unknown country")
}

// CountryStats returns the full record of the named country.
func (service *Service) CountryStats(context context.Context, name string) (*CountryStats, error) {
	code, err := service.CountryCode(context, name)
	if err != nil {
		return nil, err
	}
	return service.client.Country(context, code)
}

// Timeline returns the daily timeline of the named country, or the worldwide
// timeline when name is "global" in any case.
func (service *Service) Timeline(context context.Context, name string) ([]TimelineDay, error) {
	if strings.EqualFold(name, GlobalName) {
		return service.client.GlobalTimeline(context)
	}

	stats, err := service.CountryStats(context, name)
	if err != nil {
		return nil, err
	}
	return stats.Timeline, nil
}

/*
QueryDate returns the timeline entry of one calendar day.

Parameters:
  - context: context.Context
  - name: string (country display name or "global")
  - date: string (e.g. "August 29 2020")

Returns:
  - *TimelineDay: The matching day
  - error: apperr.InvalidField for an unparseable date, apperr.NotFound when the day is absent
*/
func (service *Service) QueryDate(context context.Context, name, date string) (*TimelineDay, error) {
	target, ok := convert.ToDate(date)
	if !ok {
		return nil, apperr.InvalidField("date", date, `expected a date such as "August 29 2020"`)
	}

	timeline, err := service.Timeline(context, name)
	if err != nil {
		return nil, err
	}

	day := target.Format(convert.ISODate)
	for i := range timeline {
		if strings.Contains(timeline[i].Date, day) {
			return &timeline[i], nil
		}
	}

	return nil, apperr.NotFound("Statistics for " + day)
}
