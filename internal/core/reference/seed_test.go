// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/newsbridge/internal/core/reference"
)

/*
TestDefaultSeed verifies the embedded taxonomy and its derived display names.
*/
func TestDefaultSeed(t *testing.T) {
	seed, err := reference.DefaultSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Categories, 7)
	assert.Equal(t, []reference.SortMethod{{Name: "relevancy"}, {Name: "popularity"}, {Name: "publishedAt"}}, seed.SortMethods)
	assert.Len(t, seed.Languages, 14)
	assert.Len(t, seed.Countries, 54)

	snapshot := reference.NewSnapshot(nil, seed.Categories, seed.Languages, seed.Countries, seed.SortMethods, time.Time{})

	code, ok := snapshot.ResolveCountryCode("Canada")
	assert.True(t, ok)
	assert.Equal(t, "ca", code)

	code, ok = snapshot.ResolveLanguageCode("English")
	assert.True(t, ok)
	assert.Equal(t, "en", code)

	code, ok = snapshot.ResolveLanguageCode("Urdu")
	assert.True(t, ok)
	assert.Equal(t, "ud", code)

	code, ok = snapshot.ResolveCountryCode("United States")
	assert.True(t, ok)
	assert.Equal(t, "us", code)
}

/*
TestParseSeed_Rejects covers malformed seed files.
*/
func TestParseSeed_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed", yaml: "categories: [business"},
		{name: "duplicate category", yaml: "categories: [business, business]"},
		{name: "unknown country code", yaml: "countries:\n  - code: zzzz\n"},
		{name: "duplicate language name", yaml: "languages:\n  - code: en\n    name: English\n  - code: eng\n    name: English\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reference.ParseSeed([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
