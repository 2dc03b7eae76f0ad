// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the taxonomy shipped with the binary.
type Seed struct {
	Categories  []Category
	Languages   []Language
	Countries   []Country
	SortMethods []SortMethod
}

type seedFile struct {
	Categories  []string    `yaml:"categories"`
	SortMethods []string    `yaml:"sort_methods"`
	Languages   []seedEntry `yaml:"languages"`
	Countries   []seedEntry `yaml:"countries"`
}

type seedEntry struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// DefaultSeed parses the embedded seed file.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(seedYAML)
}

/*
ParseSeed decodes a YAML taxonomy and fills in missing display names.

Parameters:
  - data: []byte (YAML document)

Returns:
  - *Seed: Decoded taxonomy
  - error: Malformed YAML, unknown codes or duplicate entries
*/
func ParseSeed(data []byte) (*Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("reference: parse seed: %w", err)
	}

	seed := &Seed{}

	for _, name := range file.Categories {
		seed.Categories = append(seed.Categories, Category{Name: name})
	}

	for _, name := range file.SortMethods {
		seed.SortMethods = append(seed.SortMethods, SortMethod{Name: name})
	}

	for _, entry := range file.Languages {
		name, err := languageName(entry)
		if err != nil {
			return nil, err
		}
		seed.Languages = append(seed.Languages, Language{DisplayName: name, Code: entry.Code})
	}

	for _, entry := range file.Countries {
		name, err := countryName(entry)
		if err != nil {
			return nil, err
		}
		seed.Countries = append(seed.Countries, Country{DisplayName: name, Code: entry.Code})
	}

	if err := seed.checkUnique(); err != nil {
		return nil, err
	}

	return seed, nil
}

// Entries flattens the seed into one slice, grouped by collection.
func (seed *Seed) Entries() map[Collection][]Entry {
	entries := make(map[Collection][]Entry, len(TaxonomyCollections))
	for _, category := range seed.Categories {
		entries[CollectionCategories] = append(entries[CollectionCategories], category)
	}
	for _, lang := range seed.Languages {
		entries[CollectionLanguages] = append(entries[CollectionLanguages], lang)
	}
	for _, country := range seed.Countries {
		entries[CollectionCountries] = append(entries[CollectionCountries], country)
	}
	for _, method := range seed.SortMethods {
		entries[CollectionSortMethods] = append(entries[CollectionSortMethods], method)
	}
	return entries
}

// checkUnique rejects duplicate keys and duplicate display names.
func (seed *Seed) checkUnique() error {
	for collection, entries := range seed.Entries() {
		keys := make(map[string]struct{}, len(entries))
		names := make(map[string]struct{}, len(entries))

		for _, entry := range entries {
			if _, dup := keys[entry.Key()]; dup {
				return fmt.Errorf("reference: duplicate %s entry %q in seed", collection, entry.Key())
			}
			keys[entry.Key()] = struct{}{}

			name := displayName(entry)
			if _, dup := names[name]; dup {
				return fmt.Errorf("reference: duplicate %s name %q in seed", collection, name)
			}
			names[name] = struct{}{}
		}
	}
	return nil
}

// # Display Names

func languageName(entry seedEntry) (string, error) {
	if entry.Name != "" {
		return entry.Name, nil
	}

	base, err := language.ParseBase(entry.Code)
	if err != nil {
		return "", fmt.Errorf("reference: seed language %q: %w", entry.Code, err)
	}

	name := display.English.Languages().Name(base)
	if name == "" {
		return "", fmt.Errorf("reference: seed language %q has no display name", entry.Code)
	}
	return name, nil
}

func countryName(entry seedEntry) (string, error) {
	if entry.Name != "" {
		return entry.Name, nil
	}

	region, err := language.ParseRegion(strings.ToUpper(entry.Code))
	if err != nil {
		return "", fmt.Errorf("reference: seed country %q: %w", entry.Code, err)
	}

	name := display.English.Regions().Name(region)
	if name == "" {
		return "", fmt.Errorf("reference: seed country %q has no display name", entry.Code)
	}
	return name, nil
}

func displayName(entry Entry) string {
	switch typed := entry.(type) {
	case Language:
		return typed.DisplayName
	case Country:
		return typed.DisplayName
	default:
		return entry.Key()
	}
}
