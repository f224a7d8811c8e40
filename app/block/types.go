package block

import (
	"github.com/lysyi3m/related-nodes/app/related"
)

// Configuration types

type Config struct {
	Name         string       // Derived from filename (without .yml extension)
	Title        string       `yaml:"title"`
	RowFilter    RowFilter    `yaml:"row_filter"`
	RowDisplay   RowDisplay   `yaml:"row_display"`
	BlockDisplay BlockDisplay `yaml:"block_display"`
}

type RowFilter struct {
	Specific            bool                   `yaml:"specific"`
	NodeTitleID         string                 `yaml:"node_title_id"` // "Title (42)" or "42"
	ContentTypes        map[string]bool        `yaml:"content_types"`
	ContentTypesNegate  bool                   `yaml:"content_types_negate"`
	ContentTypeCurrNode related.FilterMode     `yaml:"content_type_curr_node"`
	RefTS               related.TimestampField `yaml:"ref_ts"`
}

type RowDisplay struct {
	Type           related.Ordering    `yaml:"type"`
	Limit          int                 `yaml:"limit"`
	Skip           int                 `yaml:"skip"`
	ReverseOrder   bool                `yaml:"reverse_order"`
	Mode           related.DisplayMode `yaml:"mode"`
	ModeOptions    ModeOptions         `yaml:"mode_options"`
	Attr           string              `yaml:"attr"`
	AddlCSSClasses bool                `yaml:"addl_css_classes"`
}

type ModeOptions struct {
	LinkedText       string `yaml:"linked_text"`
	LinkedTextMaxLen int    `yaml:"linked_text_maxlen"` // 0 disables truncation
	ViewMode         string `yaml:"view_mode"`
	PrefixSuffixDiv  bool   `yaml:"prefix_suffix_div"`
	Prefix           string `yaml:"prefix"`
	Suffix           string `yaml:"suffix"`
}

type BlockDisplay struct {
	Prefix         string `yaml:"prefix"`
	Suffix         string `yaml:"suffix"`
	Attr           string `yaml:"attr"`
	AddlCSSClasses bool   `yaml:"addl_css_classes"`
}

// DisplayType is the value of the display-type token for this block.
func (c *Config) DisplayType() string {
	if c.RowFilter.Specific {
		return related.DisplayTypeSpecific
	}
	return string(c.RowDisplay.Type)
}

// ContentTypeSelection returns the configured checkbox selection completed
// with every known content type, unknown keys defaulting to unchecked.
func (c *Config) ContentTypeSelection(knownTypes []string) map[string]bool {
	selection := make(map[string]bool, len(knownTypes)+len(c.RowFilter.ContentTypes))
	for _, t := range knownTypes {
		selection[t] = false
	}
	for t, checked := range c.RowFilter.ContentTypes {
		selection[t] = checked
	}
	return selection
}

// Criteria builds the selection criteria of the block.
func (c *Config) Criteria(knownTypes []string) related.SelectionCriteria {
	criteria := related.SelectionCriteria{
		ContentTypeFilterMode:   c.RowFilter.ContentTypeCurrNode,
		ContentTypes:            c.ContentTypeSelection(knownTypes),
		NegateContentTypes:      c.RowFilter.ContentTypesNegate,
		OrderingStrategy:        c.RowDisplay.Type,
		ReferenceTimestampField: c.RowFilter.RefTS,
		Limit:                   c.RowDisplay.Limit,
		Skip:                    c.RowDisplay.Skip,
		ReverseOrder:            c.RowDisplay.ReverseOrder,
	}
	if c.RowFilter.Specific {
		criteria.SpecificID = c.RowFilter.NodeTitleID
	}
	return criteria.Normalize()
}

// raw mirrors Config with pointers where the zero value differs from the default.
type rawConfig struct {
	Title        string          `yaml:"title"`
	RowFilter    rawRowFilter    `yaml:"row_filter"`
	RowDisplay   rawRowDisplay   `yaml:"row_display"`
	BlockDisplay rawBlockDisplay `yaml:"block_display"`
}

type rawRowFilter struct {
	Specific            bool            `yaml:"specific"`
	NodeTitleID         string          `yaml:"node_title_id"`
	ContentTypes        map[string]bool `yaml:"content_types"`
	ContentTypesNegate  *bool           `yaml:"content_types_negate"`
	ContentTypeCurrNode string          `yaml:"content_type_curr_node"`
	RefTS               string          `yaml:"ref_ts"`
}

type rawRowDisplay struct {
	Type           string         `yaml:"type"`
	Limit          *int           `yaml:"limit"`
	Skip           int            `yaml:"skip"`
	ReverseOrder   bool           `yaml:"reverse_order"`
	Mode           string         `yaml:"mode"`
	ModeOptions    rawModeOptions `yaml:"mode_options"`
	Attr           string         `yaml:"attr"`
	AddlCSSClasses *bool          `yaml:"addl_css_classes"`
}

type rawModeOptions struct {
	LinkedText       *string `yaml:"linked_text"`
	LinkedTextMaxLen *int    `yaml:"linked_text_maxlen"`
	ViewMode         *string `yaml:"view_mode"`
	PrefixSuffixDiv  bool    `yaml:"prefix_suffix_div"`
	Prefix           string  `yaml:"prefix"`
	Suffix           string  `yaml:"suffix"`
}

type rawBlockDisplay struct {
	Prefix         string `yaml:"prefix"`
	Suffix         string `yaml:"suffix"`
	Attr           string `yaml:"attr"`
	AddlCSSClasses *bool  `yaml:"addl_css_classes"`
}
