package api

import (
	"github.com/lysyi3m/related-nodes/app/block"
	"github.com/lysyi3m/related-nodes/app/database"
	"github.com/lysyi3m/related-nodes/app/related"
	"github.com/lysyi3m/related-nodes/app/render"
	"github.com/lysyi3m/related-nodes/app/tasks"
)

type GeneratorInterface interface {
	Run(block *render.Block) (string, error)
}

var _ GeneratorInterface = (*render.Generator)(nil)

type HealthReporter interface {
	Health() map[string]any
}

var _ HealthReporter = (*tasks.Scheduler)(nil)

type Handler struct {
	blocks      *block.ConfigCache
	nodeRepo    database.NodeRepository
	counterRepo database.CounterRepository
	catalogRepo database.CatalogRepository
	selector    *related.Selector
	builder     *render.Builder
	generator   GeneratorInterface
	scheduler   HealthReporter
}
