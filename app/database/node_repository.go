package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/lysyi3m/related-nodes/app/related"
)

type SQLNodeRepository struct {
	db *DB
}

func NewNodeRepository(db *DB) *SQLNodeRepository {
	return &SQLNodeRepository{db: db}
}

const selectedItemColumns = `n.id, n.type, n.title, n.created, n.changed, n.status, c.daycount, c.totalcount`

const selectedItemFrom = `FROM nodes n LEFT JOIN node_counter c ON c.nid = n.id`

// FindRelated translates q into SQL. Rows are ordered by q.Sort with the node
// id as final tie-break, so identical queries return identical pages.
func (r *SQLNodeRepository) FindRelated(ctx context.Context, q related.Query) ([]int64, error) {
	query, args := buildRelatedQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find related nodes: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, q.Limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan related node id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related node rows: %w", err)
	}

	return ids, nil
}

func buildRelatedQuery(q related.Query) (string, []any) {
	var sb strings.Builder
	args := []any{q.ExcludeID}

	sb.WriteString("SELECT n.id ")
	sb.WriteString(selectedItemFrom)
	sb.WriteString(" WHERE n.id != ?")

	if q.ActiveOnly {
		sb.WriteString(" AND n.status = 1")
	}

	if cond, condArgs := typeCondition(q.Types); cond != "" {
		sb.WriteString(" AND ")
		sb.WriteString(cond)
		args = append(args, condArgs...)
	}

	if q.Range != nil {
		op := ">"
		if q.Range.Before {
			op = "<"
		}
		fmt.Fprintf(&sb, " AND %s %s ?", sortColumn(q.Range.Field), op)
		args = append(args, q.Range.Pivot.Unix())
	}

	if q.Random {
		sb.WriteString(" ORDER BY RANDOM()")
	} else {
		sb.WriteString(" ORDER BY ")
		for _, key := range q.Sort {
			sb.WriteString(sortColumn(key.Field))
			if key.Desc {
				sb.WriteString(" DESC, ")
			} else {
				sb.WriteString(" ASC, ")
			}
		}
		sb.WriteString("n.id ASC")
	}

	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, q.Limit, q.Skip)

	return sb.String(), args
}

func typeCondition(f related.TypeFilter) (string, []any) {
	var conds []string
	var args []any

	if f.RefType != "" {
		if f.RefEqual {
			conds = append(conds, "n.type = ?")
		} else {
			conds = append(conds, "n.type != ?")
		}
		args = append(args, f.RefType)
	}

	if len(f.Types) > 0 {
		op := "IN"
		if f.NegateTypes {
			op = "NOT IN"
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Types)), ", ")
		conds = append(conds, fmt.Sprintf("n.type %s (%s)", op, placeholders))
		for _, t := range f.Types {
			args = append(args, t)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}

	joiner := " AND "
	if f.Match == related.MatchAny {
		joiner = " OR "
	}
	return "(" + strings.Join(conds, joiner) + ")", args
}

func sortColumn(field related.SortField) string {
	switch field {
	case related.SortChanged:
		return "n.changed"
	case related.SortViewsToday:
		return "COALESCE(c.daycount, 0)"
	case related.SortViewsTotal:
		return "COALESCE(c.totalcount, 0)"
	}
	return "n.created"
}

func (r *SQLNodeRepository) LoadByID(ctx context.Context, id int64) (*related.SelectedItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectedItemColumns+` `+selectedItemFrom+` WHERE n.id = ?`, id)

	item, err := scanSelectedItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load node: %w", err)
	}

	return item, nil
}

func (r *SQLNodeRepository) LoadMany(ctx context.Context, ids []int64) (map[int64]related.SelectedItem, error) {
	items := make(map[int64]related.SelectedItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+selectedItemColumns+` `+selectedItemFrom+` WHERE n.id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanSelectedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		items[item.ID] = *item
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating node rows: %w", err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSelectedItem(s scanner) (*related.SelectedItem, error) {
	var item related.SelectedItem
	var created, changed int64
	var dayCount, totalCount sql.NullInt64

	if err := s.Scan(&item.ID, &item.ContentType, &item.Title, &created, &changed, &item.Active, &dayCount, &totalCount); err != nil {
		return nil, err
	}

	item.CreatedAt = time.Unix(created, 0).UTC()
	item.UpdatedAt = time.Unix(changed, 0).UTC()
	if dayCount.Valid {
		item.PopularityToday = &dayCount.Int64
	}
	if totalCount.Valid {
		item.PopularityTotal = &totalCount.Int64
	}

	return &item, nil
}

const nodeColumns = `id, type, title, body, body_format, link, COALESCE(guid, ''), status, created, changed`

func (r *SQLNodeRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)

	node, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return node, nil
}

func scanNode(s scanner) (*Node, error) {
	var node Node
	var created, changed int64

	err := s.Scan(&node.ID, &node.Type, &node.Title, &node.Body, &node.BodyFormat, &node.Link,
		&node.GUID, &node.Status, &created, &changed)
	if err != nil {
		return nil, err
	}

	node.CreatedAt = time.Unix(created, 0).UTC()
	node.UpdatedAt = time.Unix(changed, 0).UTC()
	return &node, nil
}

func (r *SQLNodeRepository) GetNodeCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get node count: %w", err)
	}

	return count, nil
}

func (r *SQLNodeRepository) CreateNode(ctx context.Context, node Node) (int64, error) {
	node = withNodeDefaults(node)

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO nodes (type, title, body, body_format, link, guid, status, created, changed)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?)
	`, node.Type, node.Title, node.Body, node.BodyFormat, node.Link, node.GUID, node.Status,
		node.CreatedAt.Unix(), node.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create node: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get node id: %w", err)
	}

	return id, nil
}

// UpsertNodeByGUID inserts a node or updates the one with the same GUID.
// The boolean reports whether a new node was created.
func (r *SQLNodeRepository) UpsertNodeByGUID(ctx context.Context, node Node) (int64, bool, error) {
	if node.GUID == "" {
		return 0, false, fmt.Errorf("guid is required")
	}
	node = withNodeDefaults(node)

	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM nodes WHERE guid = ?`, node.GUID).Scan(&id)
	if err != nil && err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("failed to check existing node: %w", err)
	}

	if err == sql.ErrNoRows {
		id, err = r.CreateNode(ctx, node)
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE nodes
		SET type = ?, title = ?, body = ?, body_format = ?, link = ?, status = ?, changed = ?
		WHERE id = ?
	`, node.Type, node.Title, node.Body, node.BodyFormat, node.Link, node.Status, node.UpdatedAt.Unix(), id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to update node: %w", err)
	}

	return id, false, nil
}

func withNodeDefaults(node Node) Node {
	if node.BodyFormat == "" {
		node.BodyFormat = "html"
	}
	if node.CreatedAt.IsZero() {
		node.CreatedAt = time.Now().UTC()
	}
	if node.UpdatedAt.IsZero() {
		node.UpdatedAt = node.CreatedAt
	}
	return node
}

// Autocomplete suggests published nodes whose "Title (id)" label fuzzily
// matches input, best match first.
func (r *SQLNodeRepository) Autocomplete(ctx context.Context, input string, limit int) ([]AutocompleteMatch, error) {
	input = strings.TrimSpace(input)
	if input == "" || limit < 1 {
		return []AutocompleteMatch{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM nodes WHERE status = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list node titles: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var labels []string
	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("failed to scan node title: %w", err)
		}
		ids = append(ids, id)
		labels = append(labels, fmt.Sprintf("%s (%d)", title, id))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating node titles: %w", err)
	}

	matches := fuzzy.Find(input, labels)

	result := make([]AutocompleteMatch, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(result) >= limit {
			break
		}
		result = append(result, AutocompleteMatch{ID: ids[m.Index], Label: labels[m.Index], Score: m.Score})
	}

	return result, nil
}
