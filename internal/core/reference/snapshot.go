// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"cmp"
	"slices"
	"time"
)

// Snapshot is an immutable, indexed view of every reference collection.
//
// All lookups are exact and case-sensitive. A miss is reported through the
// second return value, never through an empty code. When two entries share a
// display name the one with the smallest key wins.
type Snapshot struct {
	sources     []Source
	categories  []Category
	languages   []Language
	countries   []Country
	sortMethods []SortMethod

	sourceByName   map[string]string
	sourceByID     map[string]Source
	languageByName map[string]string
	countryByName  map[string]string
	categorySet    map[string]struct{}
	sortMethodSet  map[string]struct{}

	loadedAt time.Time
}

// NewSnapshot indexes the given collections. The slices are copied.
func NewSnapshot(sources []Source, categories []Category, languages []Language, countries []Country, sortMethods []SortMethod, loadedAt time.Time) *Snapshot {
	snapshot := &Snapshot{
		sources:     sorted(sources),
		categories:  sorted(categories),
		languages:   sorted(languages),
		countries:   sorted(countries),
		sortMethods: sorted(sortMethods),

		sourceByName:   make(map[string]string, len(sources)),
		sourceByID:     make(map[string]Source, len(sources)),
		languageByName: make(map[string]string, len(languages)),
		countryByName:  make(map[string]string, len(countries)),
		categorySet:    make(map[string]struct{}, len(categories)),
		sortMethodSet:  make(map[string]struct{}, len(sortMethods)),

		loadedAt: loadedAt,
	}

	for _, source := range snapshot.sources {
		snapshot.sourceByID[source.ID] = source
		if _, taken := snapshot.sourceByName[source.Name]; !taken {
			snapshot.sourceByName[source.Name] = source.ID
		}
	}

	for _, lang := range snapshot.languages {
		if _, taken := snapshot.languageByName[lang.DisplayName]; !taken {
			snapshot.languageByName[lang.DisplayName] = lang.Code
		}
	}

	for _, country := range snapshot.countries {
		if _, taken := snapshot.countryByName[country.DisplayName]; !taken {
			snapshot.countryByName[country.DisplayName] = country.Code
		}
	}

	for _, category := range snapshot.categories {
		snapshot.categorySet[category.Name] = struct{}{}
	}

	for _, method := range snapshot.sortMethods {
		snapshot.sortMethodSet[method.Name] = struct{}{}
	}

	return snapshot
}

// # Resolution

// ResolveLanguageCode returns the code of the language displayed as name.
func (snapshot *Snapshot) ResolveLanguageCode(name string) (string, bool) {
	code, ok := snapshot.languageByName[name]
	return code, ok
}

// ResolveCountryCode returns the code of the country displayed as name.
func (snapshot *Snapshot) ResolveCountryCode(name string) (string, bool) {
	code, ok := snapshot.countryByName[name]
	return code, ok
}

// IsValidCountryName reports whether name is the display name of a known country.
func (snapshot *Snapshot) IsValidCountryName(name string) bool {
	_, ok := snapshot.countryByName[name]
	return ok
}

// IsValidCategory reports whether name is a known category.
func (snapshot *Snapshot) IsValidCategory(name string) bool {
	_, ok := snapshot.categorySet[name]
	return ok
}

// IsValidSortMethod reports whether name is a known sort method.
func (snapshot *Snapshot) IsValidSortMethod(name string) bool {
	_, ok := snapshot.sortMethodSet[name]
	return ok
}

// ResolveSourceID returns the stable id of the source named name. An exact
// source id is accepted as well, so already-resolved input stays stable.
func (snapshot *Snapshot) ResolveSourceID(name string) (string, bool) {
	if id, ok := snapshot.sourceByName[name]; ok {
		return id, true
	}

	if _, ok := snapshot.sourceByID[name]; ok {
		return name, true
	}

	return "", false
}

// SourceByID returns the source stored under id.
func (snapshot *Snapshot) SourceByID(id string) (Source, bool) {
	source, ok := snapshot.sourceByID[id]
	return source, ok
}

// # Listing

func (snapshot *Snapshot) Sources() []Source         { return slices.Clone(snapshot.sources) }
func (snapshot *Snapshot) Categories() []Category    { return slices.Clone(snapshot.categories) }
func (snapshot *Snapshot) Languages() []Language     { return slices.Clone(snapshot.languages) }
func (snapshot *Snapshot) Countries() []Country      { return slices.Clone(snapshot.countries) }
func (snapshot *Snapshot) SortMethods() []SortMethod { return slices.Clone(snapshot.sortMethods) }

// LoadedAt returns when the underlying collections were read.
func (snapshot *Snapshot) LoadedAt() time.Time { return snapshot.loadedAt }

// sorted copies entries ordered by key.
func sorted[T Entry](entries []T) []T {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	return out
}
