// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/taibuivan/newsbridge/internal/platform/constants"
	"github.com/taibuivan/newsbridge/internal/platform/validate"
)

// Service validates article requests and forwards them upstream.
type Service struct {
	builder *Builder
	client  *Client
	logger  *slog.Logger
}

// NewService constructs a news [Service].
func NewService(builder *Builder, client *Client, logger *slog.Logger) *Service {
	return &Service{
		builder: builder,
		client:  client,
		logger:  logger,
	}
}

/*
Headlines validates input and fetches one page of top headlines.

Parameters:
  - context: context.Context
  - input: HeadlinesInput
  - page: int (1-based)

Returns:
  - *ArticlePage: Articles of the requested page (possibly empty)
  - error: Validation errors, UpstreamFailure or Timeout
*/
func (service *Service) Headlines(context context.Context, input HeadlinesInput, page int) (*ArticlePage, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}

	query, err := service.builder.TopHeadlines(context, input)
	if err != nil {
		return nil, err
	}
	query.Set(paramPage, strconv.Itoa(page))

	service.logger.DebugContext(context, "news_headlines_query", slog.Any("query", query))
	return service.client.TopHeadlines(context, query)
}

/*
Search validates input and fetches one page of the everything search.

Parameters:
  - context: context.Context
  - input: SearchInput
  - page: int (1-based)

Returns:
  - *ArticlePage: Articles of the requested page (possibly empty)
  - error: Validation errors, UpstreamFailure or Timeout
*/
func (service *Service) Search(context context.Context, input SearchInput, page int) (*ArticlePage, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}

	query, err := service.builder.Everything(context, input)
	if err != nil {
		return nil, err
	}
	query.Set(paramPage, strconv.Itoa(page))

	service.logger.DebugContext(context, "news_everything_query", slog.Any("query", query))
	return service.client.Everything(context, query)
}

func checkPage(page int) error {
	validator := &validate.Validator{}
	validator.Range("page", page, 1, constants.MaxNewsPage)
	return validator.Err()
}
