package related

import "time"

// Query is a storage-neutral description of a candidate lookup. Repositories
// translate it into their own query language.
type Query struct {
	ExcludeID  int64
	ActiveOnly bool
	Types      TypeFilter
	Range      *TimeRange
	Sort       []SortKey
	Random     bool
	Skip       int
	Limit      int
}

type TypeMatch int

const (
	MatchAll TypeMatch = iota
	MatchAny
)

// TypeFilter combines an optional comparison against the reference item's
// content type with an optional set membership test.
type TypeFilter struct {
	Match TypeMatch

	RefType  string // no reference condition when empty
	RefEqual bool   // type == RefType when true, type != RefType otherwise

	Types       []string // no membership condition when empty
	NegateTypes bool     // NOT IN when true
}

// HasConditions reports whether the filter restricts content types at all.
func (f TypeFilter) HasConditions() bool {
	return f.RefType != "" || len(f.Types) > 0
}

// Matches evaluates the filter for a single content type.
func (f TypeFilter) Matches(contentType string) bool {
	var conds []bool
	if f.RefType != "" {
		conds = append(conds, (contentType == f.RefType) == f.RefEqual)
	}
	if len(f.Types) > 0 {
		in := false
		for _, t := range f.Types {
			if t == contentType {
				in = true
				break
			}
		}
		conds = append(conds, in != f.NegateTypes)
	}
	if len(conds) == 0 {
		return true
	}

	if f.Match == MatchAny {
		for _, c := range conds {
			if c {
				return true
			}
		}
		return false
	}
	for _, c := range conds {
		if !c {
			return false
		}
	}
	return true
}

type SortField string

const (
	SortCreated    SortField = "created"
	SortChanged    SortField = "changed"
	SortViewsToday SortField = "views_today"
	SortViewsTotal SortField = "views_total"
)

type SortKey struct {
	Field SortField
	Desc  bool
}

// TimeRange keeps candidates strictly before or strictly after Pivot.
type TimeRange struct {
	Field  SortField
	Pivot  time.Time
	Before bool
}

func (r TimeRange) Contains(ts time.Time) bool {
	if r.Before {
		return ts.Before(r.Pivot)
	}
	return ts.After(r.Pivot)
}

func timestampSortField(field TimestampField) SortField {
	if field == TimestampChanged {
		return SortChanged
	}
	return SortCreated
}
