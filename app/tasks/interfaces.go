package tasks

import (
	"context"

	"github.com/lysyi3m/related-nodes/app/catalog"
	"github.com/lysyi3m/related-nodes/app/importer"
)

// TaskSchedulerInterface is the background task queue used by the main
// application.
//
//	scheduler := NewScheduler(catalog, catalogRepo, counterRepo, feedImporter)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewImportFeedTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// FeedImporter stores the entries of one catalog import.
type FeedImporter interface {
	Run(ctx context.Context, imp catalog.Import) (importer.Result, error)
}

var _ FeedImporter = (*importer.Importer)(nil)
