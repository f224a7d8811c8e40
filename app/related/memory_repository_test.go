package related

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"
)

// memoryRepository evaluates queries over a slice, mirroring the SQL repository.
type memoryRepository struct {
	items     []SelectedItem
	findErr   error
	loadErr   error
	findCalls int
	lastQuery Query
}

func (m *memoryRepository) FindRelated(ctx context.Context, q Query) ([]int64, error) {
	m.findCalls++
	m.lastQuery = q
	if m.findErr != nil {
		return nil, m.findErr
	}

	var candidates []SelectedItem
	for _, item := range m.items {
		if item.ID == q.ExcludeID {
			continue
		}
		if q.ActiveOnly && !item.Active {
			continue
		}
		if !q.Types.Matches(item.ContentType) {
			continue
		}
		if q.Range != nil && !q.Range.Contains(fieldTime(item, q.Range.Field)) {
			continue
		}
		candidates = append(candidates, item)
	}

	if q.Random {
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	} else {
		sort.SliceStable(candidates, func(i, j int) bool {
			for _, key := range q.Sort {
				a, b := fieldValue(candidates[i], key.Field), fieldValue(candidates[j], key.Field)
				if a == b {
					continue
				}
				if key.Desc {
					return a > b
				}
				return a < b
			}
			return candidates[i].ID < candidates[j].ID
		})
	}

	ids := make([]int64, 0, len(candidates))
	for i, item := range candidates {
		if i < q.Skip {
			continue
		}
		if len(ids) >= q.Limit {
			break
		}
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (m *memoryRepository) LoadByID(ctx context.Context, id int64) (*SelectedItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	for _, item := range m.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) LoadMany(ctx context.Context, ids []int64) (map[int64]SelectedItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	result := make(map[int64]SelectedItem, len(ids))
	for _, id := range ids {
		for _, item := range m.items {
			if item.ID == id {
				result[id] = item
			}
		}
	}
	return result, nil
}

func fieldTime(item SelectedItem, field SortField) time.Time {
	if field == SortChanged {
		return item.UpdatedAt
	}
	return item.CreatedAt
}

func fieldValue(item SelectedItem, field SortField) int64 {
	switch field {
	case SortViewsToday:
		return item.ViewsToday()
	case SortViewsTotal:
		return item.ViewsTotal()
	}
	return fieldTime(item, field).Unix()
}

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func count(n int64) *int64 {
	return &n
}

func newItem(id int64, contentType string, created int64) SelectedItem {
	return SelectedItem{
		ID:          id,
		ContentType: contentType,
		Title:       "Node " + string(rune('A'+id-1)),
		CreatedAt:   ts(created),
		UpdatedAt:   ts(created),
		Active:      true,
	}
}

func itemIDs(items []SelectedItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
