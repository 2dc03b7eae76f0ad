// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the slowly-changing reference data newsbridge needs to
turn free text into upstream identifiers.

It mirrors five collections locally so that a lookup never costs a network call:

  - Sources: news outlets, keyed by the upstream's stable source id.
  - Categories and SortMethods: closed enumerations.
  - Languages and Countries: display name to code mappings.

# Core Responsibility

  - Resolution: [Snapshot] answers name to code lookups from an immutable view.
  - Freshness: [Catalog] loads snapshots lazily and expires them after a TTL.
  - Sync: [Syncer] mirrors the upstream source list and the embedded taxonomy seed.
*/
package reference

// # Collections

// Collection names a reference document collection.
type Collection string

const (
	CollectionSources     Collection = "sources"
	CollectionCategories  Collection = "categories"
	CollectionLanguages   Collection = "languages"
	CollectionCountries   Collection = "countries"
	CollectionSortMethods Collection = "sort_methods"
)

// TaxonomyCollections are the collections populated from the embedded seed.
var TaxonomyCollections = []Collection{
	CollectionCategories,
	CollectionLanguages,
	CollectionCountries,
	CollectionSortMethods,
}

// Entry is one document of a reference collection.
type Entry interface {
	Collection() Collection
	Key() string
}

// # Source Domain

// Source is a news outlet known to the upstream news API.
//
// Sources are created and overwritten by the sync job only; they are immutable
// between syncs.
type Source struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Country     string `json:"country"`
}

func (s Source) Collection() Collection { return CollectionSources }
func (s Source) Key() string            { return s.ID }

// SourceFilter narrows a source listing. Blank fields match everything.
type SourceFilter struct {
	Category string
	Language string
	Country  string
}

// # Taxonomy Domain

// Category is a member of the closed set of article categories.
type Category struct {
	Name string `json:"name"`
}

func (c Category) Collection() Collection { return CollectionCategories }
func (c Category) Key() string            { return c.Name }

// Language maps a display name to the two-letter code the upstream expects.
type Language struct {
	DisplayName string `json:"name"`
	Code        string `json:"code"`
}

func (l Language) Collection() Collection { return CollectionLanguages }
func (l Language) Key() string            { return l.Code }

// Country maps a display name to the two-letter code the upstream expects.
type Country struct {
	DisplayName string `json:"name"`
	Code        string `json:"code"`
}

func (c Country) Collection() Collection { return CollectionCountries }
func (c Country) Key() string            { return c.Code }

// SortMethod is one of relevancy, popularity or publishedAt.
type SortMethod struct {
	Name string `json:"name"`
}

func (s SortMethod) Collection() Collection { return CollectionSortMethods }
func (s SortMethod) Key() string            { return s.Name }
