package block

import (
	"context"
	"fmt"

	"github.com/lysyi3m/related-nodes/app/related"
)

// ViewModeChoices lists the view modes a block can be configured with: those
// of the specific node's content type, or the union over the content types the
// block may show.
func (c *Config) ViewModeChoices(ctx context.Context, knownTypes []string, nodes NodeLookup, options related.DisplayOptions) ([]related.ViewModeOption, error) {
	contentTypes, err := c.candidateContentTypes(ctx, knownTypes, nodes)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string)
	for _, contentType := range contentTypes {
		modes, err := options.ViewModeOptions(ctx, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to get view modes for content type %s: %w", contentType, err)
		}
		for id, label := range modes {
			merged[id] = label
		}
	}

	return related.AvailableViewModes(merged), nil
}

func (c *Config) candidateContentTypes(ctx context.Context, knownTypes []string, nodes NodeLookup) ([]string, error) {
	if c.RowFilter.Specific {
		id, ok := related.ParseSpecificID(c.RowFilter.NodeTitleID)
		if !ok {
			return nil, nil
		}
		node, err := nodes.LoadByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load specific node %d: %w", id, err)
		}
		if node == nil {
			return nil, nil
		}
		return []string{node.ContentType}, nil
	}

	selection := c.ContentTypeSelection(knownTypes)
	if c.RowFilter.ContentTypeCurrNode == related.FilterInclude {
		return related.Set(mapKeys(selection)).Keys(), nil
	}
	return related.TrueSelection(selection, c.RowFilter.ContentTypesNegate).Keys(), nil
}
