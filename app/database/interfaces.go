package database

import (
	"context"
	"time"

	"github.com/lysyi3m/related-nodes/app/related"
)

// NodeRepository stores content nodes and answers related item queries.
type NodeRepository interface {
	related.Repository

	GetNode(ctx context.Context, id int64) (*Node, error)
	GetNodeCount(ctx context.Context) (int, error)
	Autocomplete(ctx context.Context, input string, limit int) ([]AutocompleteMatch, error)

	CreateNode(ctx context.Context, node Node) (int64, error)
	UpsertNodeByGUID(ctx context.Context, node Node) (int64, bool, error)
}

// CounterRepository tracks node popularity.
type CounterRepository interface {
	IncrementViews(ctx context.Context, nodeID int64, viewedAt time.Time) error
	GetCounter(ctx context.Context, nodeID int64) (*Counter, error)
	ResetDayCounts(ctx context.Context, dayStart time.Time) (int64, error)
}

// CatalogRepository stores content types and the view modes they offer.
type CatalogRepository interface {
	related.DisplayOptions

	GetContentTypes(ctx context.Context) ([]ContentType, error)
	GetContentTypeNames(ctx context.Context) ([]string, error)

	UpsertContentType(ctx context.Context, contentType ContentType) error
	ReplaceViewModes(ctx context.Context, contentType string, modes []ViewMode) error
}

var (
	_ NodeRepository    = (*SQLNodeRepository)(nil)
	_ CounterRepository = (*SQLCounterRepository)(nil)
	_ CatalogRepository = (*SQLCatalogRepository)(nil)
)
