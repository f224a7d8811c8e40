package related

import (
	"fmt"
	"time"
)

// Selection configuration types

type FilterMode string

const (
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
	FilterIgnore  FilterMode = "ignore"
)

type Ordering string

const (
	OrderPrev             Ordering = "prev"
	OrderNext             Ordering = "next"
	OrderMostViewedToday  Ordering = "most_viewed_today"
	OrderLeastViewedToday Ordering = "least_viewed_today"
	OrderMostViewed       Ordering = "most_viewed"
	OrderLeastViewed      Ordering = "least_viewed"
	OrderFirst            Ordering = "first"
	OrderLast             Ordering = "last"
	OrderRandom           Ordering = "random"
)

// Orderings lists every strategy in the order they are offered to users.
var Orderings = []Ordering{
	OrderPrev, OrderNext,
	OrderMostViewedToday, OrderLeastViewedToday,
	OrderMostViewed, OrderLeastViewed,
	OrderFirst, OrderLast,
	OrderRandom,
}

type TimestampField string

const (
	TimestampCreated TimestampField = "node_created"
	TimestampChanged TimestampField = "node_changed"
)

// DisplayTypeSpecific is the display type reported when a single specific
// item is configured instead of an ordering strategy.
const DisplayTypeSpecific = "specific"

func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(s); m {
	case FilterInclude, FilterExclude, FilterIgnore:
		return m, nil
	}
	return "", fmt.Errorf("invalid content type filter mode: %q", s)
}

func ParseOrdering(s string) (Ordering, error) {
	for _, o := range Orderings {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid ordering strategy: %q", s)
}

func ParseTimestampField(s string) (TimestampField, error) {
	switch f := TimestampField(s); f {
	case TimestampCreated, TimestampChanged:
		return f, nil
	}
	return "", fmt.Errorf("invalid reference timestamp: %q", s)
}

// SelectionCriteria describes how related items are chosen for a reference item.
// When SpecificID is set, all other fields are ignored.
type SelectionCriteria struct {
	SpecificID string

	ContentTypeFilterMode FilterMode
	ContentTypes          map[string]bool // checkbox-style selection, see TrueSelection
	NegateContentTypes    bool

	OrderingStrategy        Ordering
	ReferenceTimestampField TimestampField

	Limit        int
	Skip         int
	ReverseOrder bool
}

// Normalize returns a copy with empty enum values and out-of-range window
// values replaced by their defaults.
func (c SelectionCriteria) Normalize() SelectionCriteria {
	if c.ContentTypeFilterMode == "" {
		c.ContentTypeFilterMode = FilterInclude
	}
	if c.ReferenceTimestampField == "" {
		c.ReferenceTimestampField = TimestampCreated
	}
	if c.OrderingStrategy == "" {
		c.OrderingStrategy = OrderPrev
	}
	if c.Limit < 1 {
		c.Limit = 1
	}
	if c.Skip < 0 {
		c.Skip = 0
	}
	return c
}

// DisplayType is the value exposed through the display-type token.
func (c SelectionCriteria) DisplayType() string {
	if c.SpecificID != "" {
		return DisplayTypeSpecific
	}
	return string(c.OrderingStrategy)
}

// ReferenceItem is the item related items are computed relative to.
type ReferenceItem struct {
	ID          int64
	ContentType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r ReferenceItem) Timestamp(field TimestampField) time.Time {
	if field == TimestampChanged {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// SelectedItem is a related item produced by a selection pass.
type SelectedItem struct {
	ID              int64
	ContentType     string
	Title           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Active          bool
	PopularityToday *int64 // nil when no counter row exists
	PopularityTotal *int64
}

func (i SelectedItem) Reference() ReferenceItem {
	return ReferenceItem{
		ID:          i.ID,
		ContentType: i.ContentType,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (i SelectedItem) Timestamp(field TimestampField) time.Time {
	return i.Reference().Timestamp(field)
}

func (i SelectedItem) ViewsToday() int64 {
	if i.PopularityToday == nil {
		return 0
	}
	return *i.PopularityToday
}

func (i SelectedItem) ViewsTotal() int64 {
	if i.PopularityTotal == nil {
		return 0
	}
	return *i.PopularityTotal
}
