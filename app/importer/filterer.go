package importer

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/related-nodes/app/catalog"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks the entries rejected by the filters. Every entry is returned.
func (f *Filterer) Run(entries []Entry, filters []catalog.Filter) []Entry {
	if len(filters) == 0 {
		return entries
	}

	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		entry.IsFiltered, entry.FilterReason = f.applyFilters(entry, filters)
		filtered = append(filtered, entry)
	}

	return filtered
}

func (f *Filterer) applyFilters(entry Entry, filters []catalog.Filter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(entry, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(entry Entry, field string) string {
	switch field {
	case "title":
		return entry.Title
	case "body":
		return entry.Body
	case "link":
		return entry.Link
	default:
		return ""
	}
}
