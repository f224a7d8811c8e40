package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/related-nodes/app/catalog"
)

type ImportFeedTask struct {
	Task
	Import   catalog.Import
	importer FeedImporter
}

func NewImportFeedTask(imp catalog.Import, importer FeedImporter) *ImportFeedTask {
	return &ImportFeedTask{
		Task:     NewTask(TaskTypeImportFeed, imp.Name),
		Import:   imp,
		importer: importer,
	}
}

func (t *ImportFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Import.Enabled {
		slog.Debug("Import disabled, skipping", "import", t.Subject)
		return nil
	}

	result, err := t.importer.Run(ctx, t.Import)
	if err != nil {
		return fmt.Errorf("failed to import feed %s: %w", t.Subject, err)
	}

	slog.Info("Task completed",
		"type", "ImportFeed",
		"import", t.Subject,
		"duration", t.GetDuration(),
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"filtered", result.Filtered)

	return nil
}
