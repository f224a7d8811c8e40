package related

import (
	"context"

	"github.com/lysyi3m/related-nodes/app/token"
)

// Repository is the content store related items are selected from.
type Repository interface {
	// FindRelated returns candidate ids in query order, windowed by Skip and Limit.
	FindRelated(ctx context.Context, q Query) ([]int64, error)
	// LoadByID returns nil without error when the item does not exist.
	LoadByID(ctx context.Context, id int64) (*SelectedItem, error)
	LoadMany(ctx context.Context, ids []int64) (map[int64]SelectedItem, error)
}

// DisplayOptions exposes the view modes each content type can be rendered with.
type DisplayOptions interface {
	ViewModeOptions(ctx context.Context, contentType string) (map[string]string, error)
}

// TokenResolver replaces [namespace:name] placeholders.
type TokenResolver interface {
	Replace(text string, data map[string]token.Source) string
}

var _ TokenResolver = (*token.Replacer)(nil)
