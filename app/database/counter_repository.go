package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SQLCounterRepository struct {
	db *DB
}

func NewCounterRepository(db *DB) *SQLCounterRepository {
	return &SQLCounterRepository{db: db}
}

// IncrementViews counts one view of a node. The day counter restarts when the
// previous view happened on an earlier local day.
func (r *SQLCounterRepository) IncrementViews(ctx context.Context, nodeID int64, viewedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO node_counter (nid, totalcount, daycount, timestamp)
		VALUES (?, 1, 1, ?)
		ON CONFLICT (nid) DO UPDATE SET
			totalcount = totalcount + 1,
			daycount = CASE WHEN timestamp < ? THEN 1 ELSE daycount + 1 END,
			timestamp = excluded.timestamp
	`, nodeID, viewedAt.Unix(), StartOfDay(viewedAt).Unix())
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	return nil
}

func (r *SQLCounterRepository) GetCounter(ctx context.Context, nodeID int64) (*Counter, error) {
	var counter Counter
	var ts int64

	err := r.db.QueryRowContext(ctx, `
		SELECT nid, totalcount, daycount, timestamp FROM node_counter WHERE nid = ?
	`, nodeID).Scan(&counter.NodeID, &counter.TotalCount, &counter.DayCount, &ts)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get counter: %w", err)
	}

	counter.Timestamp = time.Unix(ts, 0).UTC()
	return &counter, nil
}

// ResetDayCounts zeroes the day counter of nodes last viewed before dayStart
// and returns the number of rows reset.
func (r *SQLCounterRepository) ResetDayCounts(ctx context.Context, dayStart time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE node_counter SET daycount = 0 WHERE daycount != 0 AND timestamp < ?
	`, dayStart.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to reset day counts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get reset row count: %w", err)
	}

	return affected, nil
}

// StartOfDay returns local midnight of the day t falls on.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
