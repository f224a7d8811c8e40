package token

import (
	"regexp"
	"sort"
)

// Source supplies token values for a single namespace.
type Source interface {
	Lookup(name string) (string, bool)
}

// Values is a fixed token table.
type Values map[string]string

func (v Values) Lookup(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (string, bool)

func (f SourceFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// Tokens look like [namespace:name]; names may contain further colons.
var tokenPattern = regexp.MustCompile(`\[([^\s\[\]:]+):([^\[\]]+)\]`)

// Replacer substitutes [namespace:name] tokens using per-namespace sources.
type Replacer struct {
	clear bool
}

// NewReplacer returns a replacer that leaves unknown tokens verbatim.
func NewReplacer() *Replacer {
	return &Replacer{}
}

// NewClearingReplacer returns a replacer that removes unknown tokens.
func NewClearingReplacer() *Replacer {
	return &Replacer{clear: true}
}

func (r *Replacer) Replace(text string, data map[string]Source) string {
	if text == "" {
		return text
	}

	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := tokenPattern.FindStringSubmatch(match)
		source, ok := data[parts[1]]
		if ok && source != nil {
			if value, found := source.Lookup(parts[2]); found {
				return value
			}
		}
		if r.clear {
			return ""
		}
		return match
	})
}

// Scan lists the tokens used in text grouped by namespace.
func Scan(text string) map[string][]string {
	found := make(map[string][]string)
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if seen[m[0]] {
			continue
		}
		seen[m[0]] = true
		found[m[1]] = append(found[m[1]], m[2])
	}
	for ns := range found {
		sort.Strings(found[ns])
	}
	return found
}
