// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package news validates article queries and runs them against the news API.

Users describe what they want with display names ("Canada", "English",
"BBC News"). The [Builder] resolves those names to upstream codes, enforces
the upstream's cross-field rules and returns a [Query] that is safe to send.
A rejected query is never sent, not even partially.
*/
package news

import (
	"net/url"
	"strings"
	"time"
)

// # Query

// Query is a validated upstream parameter set. It never holds an empty value.
type Query map[string]string

// Set stores value under key, or removes key when value is blank.
func (query Query) Set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		delete(query, key)
		return
	}
	query[key] = value
}

// Values converts the query into URL parameters.
func (query Query) Values() url.Values {
	values := make(url.Values, len(query))
	for key, value := range query {
		values.Set(key, value)
	}
	return values
}

// # Articles

// ArticleSource identifies the outlet of an article.
type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is a single news article.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt time.Time     `json:"publishedAt"`
	Content     string        `json:"content"`
}

// ArticlePage is one page of an article listing.
type ArticlePage struct {
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}
