package related

import "sort"

// Set is a set of selection keys.
type Set map[string]struct{}

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the members in lexical order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TrueSelection resolves a checkbox-style selection into the keys that count
// as selected. Nothing checked means everything is checked, and negate flips
// the result, so an empty selection yields every key without negate and no
// key with it.
func TrueSelection(selection map[string]bool, negate bool) Set {
	noneChecked := true
	for _, checked := range selection {
		if checked {
			noneChecked = false
			break
		}
	}

	result := make(Set, len(selection))
	for key, checked := range selection {
		if (noneChecked || checked) != negate {
			result[key] = struct{}{}
		}
	}
	return result
}
