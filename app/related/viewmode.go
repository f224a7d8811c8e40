package related

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

type DisplayMode string

const (
	ModeLinkedText DisplayMode = "linked_text"
	ModeViewMode   DisplayMode = "view_mode"
)

// DefaultViewMode is pinned to the top of view mode listings.
const DefaultViewMode = "teaser"

// ViewModeDecision is the render mode chosen for a whole selected set.
type ViewModeDecision struct {
	Mode     DisplayMode
	ViewMode string // set only when Mode is ModeViewMode
	Reason   string
}

// ResolveViewMode renders every item with the requested view mode, or falls
// back to linked text for every item as soon as one item's content type does
// not offer it. Options are fetched once per content type.
func ResolveViewMode(ctx context.Context, provider DisplayOptions, items []SelectedItem, requested string) ViewModeDecision {
	if requested == "" {
		return ViewModeDecision{Mode: ModeLinkedText, Reason: "no view mode requested"}
	}

	options := make(map[string]map[string]string)
	for _, item := range items {
		modes, ok := options[item.ContentType]
		if !ok {
			var err error
			modes, err = provider.ViewModeOptions(ctx, item.ContentType)
			if err != nil {
				return ViewModeDecision{
					Mode:   ModeLinkedText,
					Reason: fmt.Sprintf("view modes of content type %q unavailable: %v", item.ContentType, err),
				}
			}
			options[item.ContentType] = modes
		}

		if _, ok := modes[requested]; !ok {
			return ViewModeDecision{
				Mode:   ModeLinkedText,
				Reason: fmt.Sprintf("content type %q of node %d has no view mode %q", item.ContentType, item.ID, requested),
			}
		}
	}

	return ViewModeDecision{Mode: ModeViewMode, ViewMode: requested, Reason: "all items support the view mode"}
}

type ViewModeOption struct {
	ID    string
	Label string
}

// AvailableViewModes lists view modes for presentation: sorted by label with
// the default view mode first, diagnostic and email modes removed.
func AvailableViewModes(options map[string]string) []ViewModeOption {
	var pinned *ViewModeOption
	result := make([]ViewModeOption, 0, len(options))

	for id, label := range options {
		switch {
		case id == DefaultViewMode:
			pinned = &ViewModeOption{ID: id, Label: label}
		case id == "diff", strings.HasPrefix(id, "email"):
		default:
			result = append(result, ViewModeOption{ID: id, Label: label})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Label == result[j].Label {
			return result[i].ID < result[j].ID
		}
		return natural.Less(result[i].Label, result[j].Label)
	})

	if pinned != nil {
		result = append([]ViewModeOption{*pinned}, result...)
	}
	return result
}
