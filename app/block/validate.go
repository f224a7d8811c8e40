package block

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/lysyi3m/related-nodes/app/related"
)

// NodeLookup resolves the node a specific block points at.
type NodeLookup interface {
	LoadByID(ctx context.Context, id int64) (*related.SelectedItem, error)
}

// Validate checks the settings that can be verified without the content store.
// All problems are reported together.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("block config is nil")
	}

	var errs error

	if c.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("block name is required"))
	}
	if c.RowDisplay.Limit < 1 {
		errs = multierr.Append(errs, fmt.Errorf("limit must be at least 1, got %d", c.RowDisplay.Limit))
	}
	if c.RowDisplay.Skip < 0 {
		errs = multierr.Append(errs, fmt.Errorf("skip must be non-negative, got %d", c.RowDisplay.Skip))
	}
	if c.RowDisplay.ModeOptions.LinkedTextMaxLen < 0 {
		errs = multierr.Append(errs, fmt.Errorf("linked text max length must be non-negative, got %d", c.RowDisplay.ModeOptions.LinkedTextMaxLen))
	}

	switch c.RowDisplay.Mode {
	case related.ModeLinkedText:
		if strings.TrimSpace(c.RowDisplay.ModeOptions.LinkedText) == "" {
			errs = multierr.Append(errs, fmt.Errorf("linked text is required with mode %q", related.ModeLinkedText))
		}
	case related.ModeViewMode:
		if c.RowDisplay.ModeOptions.ViewMode == "" {
			errs = multierr.Append(errs, fmt.Errorf("view mode is required with mode %q", related.ModeViewMode))
		}
	}

	if c.RowFilter.Specific {
		if _, ok := related.ParseSpecificID(c.RowFilter.NodeTitleID); !ok {
			errs = multierr.Append(errs, fmt.Errorf("specific node %q could not be parsed", c.RowFilter.NodeTitleID))
		}
	}

	return errs
}

// ValidateContentTypes checks that the effective content type selection is
// large enough for the filter mode: ignore needs at least one type and
// exclude at least two.
func (c *Config) ValidateContentTypes(knownTypes []string) error {
	if c.RowFilter.Specific {
		return nil
	}

	var errs error
	effective := related.TrueSelection(c.ContentTypeSelection(knownTypes), c.RowFilter.ContentTypesNegate)

	switch c.RowFilter.ContentTypeCurrNode {
	case related.FilterIgnore:
		if len(effective) < 1 {
			errs = multierr.Append(errs, fmt.Errorf("at least 1 effective content type is required with content_type_curr_node %q", related.FilterIgnore))
		}
	case related.FilterExclude:
		if len(effective) < 2 {
			errs = multierr.Append(errs, fmt.Errorf("at least 2 effective content types are required with content_type_curr_node %q", related.FilterExclude))
		}
	}

	for _, contentType := range related.Set(mapKeys(c.RowFilter.ContentTypes)).Keys() {
		if !slices.Contains(knownTypes, contentType) {
			errs = multierr.Append(errs, fmt.Errorf("unknown content type %q", contentType))
		}
	}

	return errs
}

// ValidateReferences checks the settings that depend on the content store.
func (c *Config) ValidateReferences(ctx context.Context, knownTypes []string, nodes NodeLookup) error {
	errs := c.ValidateContentTypes(knownTypes)

	if c.RowFilter.Specific {
		errs = multierr.Append(errs, c.validateSpecific(ctx, nodes))
	}

	return errs
}

func (c *Config) validateSpecific(ctx context.Context, nodes NodeLookup) error {
	id, ok := related.ParseSpecificID(c.RowFilter.NodeTitleID)
	if !ok {
		return fmt.Errorf("specific node %q could not be parsed", c.RowFilter.NodeTitleID)
	}

	node, err := nodes.LoadByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load specific node %d: %w", id, err)
	}
	if node == nil {
		return fmt.Errorf("specific node %d could not be validated", id)
	}
	return nil
}

// Errors splits a validation error into its individual problems.
func Errors(err error) []string {
	errs := multierr.Errors(err)
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return messages
}

func mapKeys(m map[string]bool) map[string]struct{} {
	keys := make(map[string]struct{}, len(m))
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys
}
