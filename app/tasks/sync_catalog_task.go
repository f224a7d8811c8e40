package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/related-nodes/app/catalog"
	"github.com/lysyi3m/related-nodes/app/database"
)

type SyncCatalogTask struct {
	Task
	Catalog     *catalog.Catalog
	catalogRepo database.CatalogRepository
}

func NewSyncCatalogTask(c *catalog.Catalog, catalogRepo database.CatalogRepository) *SyncCatalogTask {
	return &SyncCatalogTask{
		Task:        NewTask(TaskTypeSyncCatalog, "catalog"),
		Catalog:     c,
		catalogRepo: catalogRepo,
	}
}

func (t *SyncCatalogTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := catalog.Sync(ctx, t.catalogRepo, t.Catalog); err != nil {
		return fmt.Errorf("failed to sync catalog to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncCatalog",
		"content_types", len(t.Catalog.ContentTypes),
		"duration", t.GetDuration())

	return nil
}
