// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/fetch"
)

// Client talks to the statistics API through the shared fetcher.
type Client struct {
	fetcher *fetch.Client
	baseURL string
}

// NewClient creates a statistics API client.
func NewClient(fetcher *fetch.Client, baseURL string) *Client {
	return &Client{fetcher: fetcher, baseURL: strings.TrimRight(baseURL, "/")}
}

// Countries lists every country the upstream reports on.
func (client *Client) Countries(ctx context.Context) ([]CountryRef, error) {
	var body struct {
		Data []CountryRef `json:"data"`
	}
	if err := client.get(ctx, "/countries", &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// Country fetches the full record of the country with code.
func (client *Client) Country(ctx context.Context, code string) (*CountryStats, error) {
	var body struct {
		Data CountryStats `json:"data"`
	}
	if err := client.get(ctx, "/countries/"+url.PathEscape(code), &body); err != nil {
		return nil, err
	}
	return &body.Data, nil
}

// GlobalTimeline fetches the worldwide timeline.
func (client *Client) GlobalTimeline(ctx context.Context) ([]TimelineDay, error) {
	var body struct {
		Data []TimelineDay `json:"data"`
	}
	if err := client.get(ctx, "/timeline", &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

func (client *Client) get(ctx context.Context, endpoint string, target any) error {
	response, err := client.fetcher.Get(ctx, client.baseURL+endpoint, nil, nil)
	if err != nil {
		return err
	}

	if err := response.Decode(target); err != nil {
		return apperr.UpstreamFailure("statistics", 0, err)
	}
	return nil
}

// ValidateBody keeps bodies that are not JSON out of the fetch cache.
func ValidateBody(raw []byte) error {
	if !json.Valid(raw) {
		return apperr.UpstreamFailure("statistics", 0, errors.New("statistics api: body is not JSON"))
	}
	return nil
}
