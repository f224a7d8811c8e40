package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/related-nodes/app/database"
)

type ResetDayCountsTask struct {
	Task
	DayStart    time.Time
	counterRepo database.CounterRepository
}

func NewResetDayCountsTask(dayStart time.Time, counterRepo database.CounterRepository) *ResetDayCountsTask {
	return &ResetDayCountsTask{
		Task:        NewTask(TaskTypeResetDayCounts, dayStart.Format(time.DateOnly)),
		DayStart:    dayStart,
		counterRepo: counterRepo,
	}
}

func (t *ResetDayCountsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	reset, err := t.counterRepo.ResetDayCounts(ctx, t.DayStart)
	if err != nil {
		return fmt.Errorf("failed to reset day counts: %w", err)
	}

	slog.Info("Task completed",
		"type", "ResetDayCounts",
		"day", t.Subject,
		"duration", t.GetDuration(),
		"reset", reset)

	return nil
}
