package related

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidReference  = errors.New("invalid reference")
	ErrRepositoryFailure = errors.New("repository failure")
)

// Selector runs the filter, order and paginate pass over a Repository.
type Selector struct {
	repo   Repository
	logger *slog.Logger
}

func NewSelector(repo Repository, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{repo: repo, logger: logger}
}

// Select returns the related items for ref. Failures are logged and produce
// an empty, non-nil result.
func (s *Selector) Select(ctx context.Context, ref ReferenceItem, criteria SelectionCriteria) []SelectedItem {
	items, err := s.Run(ctx, ref, criteria)
	if err != nil {
		s.logger.Error("Related item selection failed",
			"reference", ref.ID,
			"display_type", criteria.DisplayType(),
			"error", err)
		return []SelectedItem{}
	}
	return items
}

// Run is Select with the error exposed. Errors wrap ErrInvalidReference or
// ErrRepositoryFailure.
func (s *Selector) Run(ctx context.Context, ref ReferenceItem, criteria SelectionCriteria) ([]SelectedItem, error) {
	if criteria.SpecificID != "" {
		return s.selectSpecific(ctx, ref, criteria.SpecificID)
	}

	q := BuildQuery(ref, criteria)

	ids, err := s.repo.FindRelated(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find related items: %w", ErrRepositoryFailure, err)
	}
	if len(ids) == 0 {
		return []SelectedItem{}, nil
	}

	loaded, err := s.repo.LoadMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load related items: %w", ErrRepositoryFailure, err)
	}

	items := make([]SelectedItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := loaded[id]; ok {
			items = append(items, item)
		}
	}

	if criteria.ReverseOrder {
		slices.Reverse(items)
	}

	return items, nil
}

func (s *Selector) selectSpecific(ctx context.Context, ref ReferenceItem, specific string) ([]SelectedItem, error) {
	id, ok := ParseSpecificID(specific)
	if !ok {
		return nil, fmt.Errorf("%w: specific node id %q is not numeric", ErrInvalidReference, specific)
	}
	if id == ref.ID {
		return nil, fmt.Errorf("%w: specific node %d is the reference node", ErrInvalidReference, id)
	}

	item, err := s.repo.LoadByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load specific node %d: %w", ErrRepositoryFailure, id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: specific node %d not found", ErrInvalidReference, id)
	}

	return []SelectedItem{*item}, nil
}

// BuildQuery translates criteria into a repository query for ref.
func BuildQuery(ref ReferenceItem, criteria SelectionCriteria) Query {
	c := criteria.Normalize()

	q := Query{
		ExcludeID:  ref.ID,
		ActiveOnly: true,
		Skip:       c.Skip,
		Limit:      c.Limit,
	}

	switch c.ContentTypeFilterMode {
	case FilterInclude:
		q.Types = TypeFilter{Match: MatchAny, RefType: ref.ContentType, RefEqual: true}
	case FilterExclude:
		q.Types = TypeFilter{Match: MatchAll, RefType: ref.ContentType, RefEqual: false}
	default:
		q.Types = TypeFilter{Match: MatchAll}
	}
	if selected := TrueSelection(c.ContentTypes, false); len(selected) > 0 {
		q.Types.Types = selected.Keys()
		q.Types.NegateTypes = c.NegateContentTypes
	}

	ts := timestampSortField(c.ReferenceTimestampField)
	pivot := ref.Timestamp(c.ReferenceTimestampField)

	switch c.OrderingStrategy {
	case OrderPrev:
		q.Range = &TimeRange{Field: ts, Pivot: pivot, Before: true}
		q.Sort = []SortKey{{Field: ts, Desc: true}}
	case OrderNext:
		q.Range = &TimeRange{Field: ts, Pivot: pivot, Before: false}
		q.Sort = []SortKey{{Field: ts}}
	case OrderMostViewedToday:
		q.Sort = []SortKey{{Field: SortViewsToday, Desc: true}, {Field: ts, Desc: true}}
	case OrderLeastViewedToday:
		q.Sort = []SortKey{{Field: SortViewsToday}, {Field: ts, Desc: true}}
	case OrderMostViewed:
		q.Sort = []SortKey{{Field: SortViewsTotal, Desc: true}, {Field: ts, Desc: true}}
	case OrderLeastViewed:
		q.Sort = []SortKey{{Field: SortViewsTotal}, {Field: ts, Desc: true}}
	case OrderFirst:
		q.Sort = []SortKey{{Field: ts}}
	case OrderLast:
		q.Sort = []SortKey{{Field: ts, Desc: true}}
	case OrderRandom:
		q.Random = true
	}

	return q
}

// Autocomplete values look like "Some title (42)".
var specificIDPattern = regexp.MustCompile(`.+\s\(([^)]+)\)`)

// ParseSpecificID extracts a node id from either a bare number or an
// autocomplete value.
func ParseSpecificID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	candidate := value
	if m := specificIDPattern.FindStringSubmatch(value); m != nil {
		candidate = m[1]
	}

	id, err := strconv.ParseInt(strings.TrimSpace(candidate), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
