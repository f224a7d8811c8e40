package importer

import (
	"testing"

	"github.com/lysyi3m/related-nodes/app/catalog"
)

func TestFilterer_Run(t *testing.T) {
	entries := []Entry{
		{GUID: "1", Title: "Go release notes", Link: "https://example.com/go", Body: "Generics and iterators"},
		{GUID: "2", Title: "Weekly SPONSORED digest", Link: "https://example.com/ads", Body: "Buy now"},
		{GUID: "3", Title: "Rust release notes", Link: "https://example.com/rust", Body: "Borrow checker"},
	}

	tests := []struct {
		name     string
		filters  []catalog.Filter
		expected []bool
	}{
		{
			name:     "no filters",
			expected: []bool{false, false, false},
		},
		{
			name:     "exclude is case insensitive",
			filters:  []catalog.Filter{{Field: "title", Excludes: []string{"sponsored"}}},
			expected: []bool{false, true, false},
		},
		{
			name:     "include requires a match",
			filters:  []catalog.Filter{{Field: "title", Includes: []string{"release"}}},
			expected: []bool{false, true, false},
		},
		{
			name: "filters combine",
			filters: []catalog.Filter{
				{Field: "title", Includes: []string{"release"}},
				{Field: "body", Excludes: []string{"borrow"}},
			},
			expected: []bool{false, true, true},
		},
		{
			name:     "link field",
			filters:  []catalog.Filter{{Field: "link", Includes: []string{"/go"}}},
			expected: []bool{false, true, true},
		},
	}

	filterer := NewFilterer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterer.Run(entries, tt.filters)
			if len(result) != len(entries) {
				t.Fatalf("Expected %d entries, got %d", len(entries), len(result))
			}
			for i, entry := range result {
				if entry.IsFiltered != tt.expected[i] {
					t.Errorf("Entry %s: expected filtered %v, got %v (%s)", entry.GUID, tt.expected[i], entry.IsFiltered, entry.FilterReason)
				}
				if entry.IsFiltered && entry.FilterReason == "" {
					t.Errorf("Entry %s: expected a filter reason", entry.GUID)
				}
			}
		})
	}
}
