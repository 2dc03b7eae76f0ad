// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/newsbridge/internal/core/reference"
	"github.com/taibuivan/newsbridge/internal/platform/apperr"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/fetch"
)

// Upstream endpoints, relative to the API base URL.
const (
	endpointSources      = "/v2/sources"
	endpointTopHeadlines = "/v2/top-headlines"
	endpointEverything   = "/v2/everything"
)

// envelope is the common shape of every news API body.
type envelope struct {
	Status       string             `json:"status"`
	Code         string             `json:"code"`
	Message      string             `json:"message"`
	TotalResults int                `json:"totalResults"`
	Articles     []Article          `json:"articles"`
	Sources      []reference.Source `json:"sources"`
}

// Client talks to the news API through the shared fetcher.
type Client struct {
	fetcher *fetch.Client
	baseURL string
	apiKey  string
}

// NewClient creates a news API client. The key is sent as a header on every call.
func NewClient(fetcher *fetch.Client, baseURL, apiKey string) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// ListSources fetches the full upstream source list.
func (client *Client) ListSources(ctx context.Context) ([]reference.Source, error) {
	body, err := client.get(ctx, endpointSources, nil)
	if err != nil {
		return nil, err
	}
	return body.Sources, nil
}

// TopHeadlines runs a validated top-headlines query.
func (client *Client) TopHeadlines(ctx context.Context, query Query) (*ArticlePage, error) {
	body, err := client.get(ctx, endpointTopHeadlines, query.Values())
	if err != nil {
		return nil, err
	}
	return &ArticlePage{TotalResults: body.TotalResults, Articles: nonNil(body.Articles)}, nil
}

// Everything runs a validated everything-search query.
func (client *Client) Everything(ctx context.Context, query Query) (*ArticlePage, error) {
	body, err := client.get(ctx, endpointEverything, query.Values())
	if err != nil {
		return nil, err
	}
	return &ArticlePage{TotalResults: body.TotalResults, Articles: nonNil(body.Articles)}, nil
}

// get fetches endpoint and rejects bodies that report an error in-band.
func (client *Client) get(ctx context.Context, endpoint string, params url.Values) (*envelope, error) {
	headers := http.Header{}
	headers.Set(constants.HeaderAPIKey, client.apiKey)

	response, err := client.fetcher.Get(ctx, client.baseURL+endpoint, params, headers)
	if err != nil {
		return nil, err
	}

	var body envelope
	if err := response.Decode(&body); err != nil {
		return nil, apperr.UpstreamFailure("news", 0, err)
	}

	if err := body.check(); err != nil {
		return nil, err
	}

	return &body, nil
}

// ValidateBody rejects news API bodies that are not JSON or report an error
// in-band. It is installed as the fetcher's [fetch.Options.Validate] so such
// bodies are never cached.
func ValidateBody(raw []byte) error {
	var body envelope
	if err := json.Unmarshal(raw, &body); err != nil {
		return apperr.UpstreamFailure("news", 0, fmt.Errorf("news api: decode body: %w", err))
	}
	return body.check()
}

func (body *envelope) check() error {
	if body.Status != "ok" {
		return apperr.UpstreamFailure("news", 0, fmt.Errorf("news api: %s: %s", body.Code, body.Message))
	}
	return nil
}

func nonNil(articles []Article) []Article {
	if articles == nil {
		return []Article{}
	}
	return articles
}
