package render

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lysyi3m/related-nodes/app/block"
	"github.com/lysyi3m/related-nodes/app/related"
	"github.com/lysyi3m/related-nodes/app/token"
)

// Builder assembles the render tree of a block from its selected items.
type Builder struct {
	module  string // token namespace, e.g. related_nodes_block
	dashed  string // CSS class prefix, e.g. related-nodes-block
	tokens  *related.TokenRenderer
	options related.DisplayOptions
	views   ViewBuilder
	urls    URLFunc
	text    *bluemonday.Policy
	logger  *slog.Logger
}

func NewBuilder(moduleName string, resolver related.TokenResolver, options related.DisplayOptions,
	views ViewBuilder, urls URLFunc, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	items := func(item related.SelectedItem) token.Source {
		base := related.ItemTokens(item)
		return token.SourceFunc(func(name string) (string, bool) {
			if name == "url" {
				return urls(item.ID), true
			}
			return base.Lookup(name)
		})
	}
	return &Builder{
		module:  moduleName,
		dashed:  strings.ReplaceAll(moduleName, "_", "-"),
		tokens:  related.NewTokenRenderer(resolver, moduleName, items),
		options: options,
		views:   views,
		urls:    urls,
		text:    bluemonday.StrictPolicy(),
		logger:  logger,
	}
}

type rowStore struct {
	prefix string
	suffix string
	url    string
}

// Build returns nil when there is nothing to render.
func (b *Builder) Build(ctx context.Context, cfg *block.Config, items []related.SelectedItem) (*Block, error) {
	if len(items) == 0 {
		return nil, nil
	}

	displayType := cfg.DisplayType()
	display := cfg.RowDisplay
	rowPrefix := nonBlank(display.ModeOptions.Prefix)
	rowSuffix := nonBlank(display.ModeOptions.Suffix)

	displayMode := display.Mode
	contents := make([]Container, len(items))

	if displayMode == related.ModeViewMode {
		decision := related.ResolveViewMode(ctx, b.options, items, display.ModeOptions.ViewMode)
		if decision.Mode == related.ModeLinkedText {
			b.logger.Info("View mode unavailable, falling back to linked text",
				"block", cfg.Name, "view_mode", display.ModeOptions.ViewMode, "reason", decision.Reason)
			displayMode = related.ModeLinkedText
		} else if rendered, err := b.renderViews(ctx, items, decision.ViewMode); err != nil {
			b.logger.Error("View rendering failed, falling back to linked text",
				"block", cfg.Name, "view_mode", decision.ViewMode, "error", err)
			displayMode = related.ModeLinkedText
		} else {
			contents = rendered
		}
	}

	tc := related.TokenContext{DisplayType: displayType}

	stores := make([]rowStore, len(items))
	for i := range items {
		tc.Counter++
		stores[i] = rowStore{
			prefix: b.tokens.Render(rowPrefix, tc, &items[i]),
			suffix: b.tokens.Render(rowSuffix, tc, &items[i]),
			url:    b.urls(items[i].ID),
		}
	}

	if displayMode == related.ModeLinkedText {
		tc.Counter = 0
		for i := range items {
			tc.Counter++
			text := b.plainText(b.tokens.Render(display.ModeOptions.LinkedText, tc, &items[i]))
			text = related.Truncate(text, display.ModeOptions.LinkedTextMaxLen)
			if !display.ModeOptions.PrefixSuffixDiv {
				text = stores[i].prefix + text + stores[i].suffix
			}
			contents[i] = Container{Class: b.class("row", "content"), Link: &Link{Text: text, URL: stores[i].url}}
		}
	}

	rowDefaults := []related.Directive{{Name: "class", Value: b.class("row")}}
	if display.AddlCSSClasses {
		rowDefaults = append(rowDefaults,
			related.Directive{Name: "class", Value: b.class("row", b.token("display-type-dashed"))},
			related.Directive{Name: "class", Value: b.class("row", b.token("display-type-dashed"), b.token("counter"))},
		)
	}
	rowUser := related.ParseDirectives(display.Attr)

	separate := display.ModeOptions.PrefixSuffixDiv || displayMode == related.ModeViewMode

	rows := make([]Row, len(items))
	tc.Counter = 0
	for i := range items {
		tc.Counter++
		resolve := func(s string) string { return b.tokens.Render(s, tc, &items[i]) }

		row := Row{
			NodeID:     items[i].ID,
			Attributes: related.MergeAttributes(related.ResolveDirectives(rowDefaults, resolve), related.ResolveDirectives(rowUser, resolve)),
			Content:    contents[i],
		}
		if separate && stores[i].prefix != "" {
			row.Prefix = &Container{Class: b.class("row", "prefix"), Link: &Link{Text: stores[i].prefix, URL: stores[i].url}}
		}
		if separate && stores[i].suffix != "" {
			row.Suffix = &Container{Class: b.class("row", "suffix"), Link: &Link{Text: stores[i].suffix, URL: stores[i].url}}
		}
		rows[i] = row
	}

	blockDefaults := []related.Directive{{Name: "class", Value: b.class("container")}}
	if cfg.BlockDisplay.AddlCSSClasses {
		blockDefaults = append(blockDefaults,
			related.Directive{Name: "class", Value: b.class("container", b.token("display-type-dashed"))},
			related.Directive{Name: "class", Value: b.class("container", strings.ReplaceAll(string(displayMode), "_", "-"))},
		)
	}
	resolveBlock := func(s string) string { return b.tokens.Render(s, tc, nil) }

	return &Block{
		Attributes: related.MergeAttributes(
			related.ResolveDirectives(blockDefaults, resolveBlock),
			related.ResolveDirectives(related.ParseDirectives(cfg.BlockDisplay.Attr), resolveBlock),
		),
		DisplayType: displayType,
		DisplayMode: displayMode,
		Prefix:      nonBlank(cfg.BlockDisplay.Prefix),
		Suffix:      nonBlank(cfg.BlockDisplay.Suffix),
		RowsClass:   b.class("rows"),
		PrefixClass: "h2 " + b.class("container", "prefix"),
		SuffixClass: "h2 " + b.class("container", "suffix"),
		Rows:        rows,
	}, nil
}

// class joins parts into a "<prefix>--a--b" class name.
func (b *Builder) class(parts ...string) string {
	return b.dashed + "--" + strings.Join(parts, "--")
}

func (b *Builder) token(name string) string {
	return "[" + b.module + ":" + name + "]"
}

// plainText strips markup that token values may carry.
func (b *Builder) plainText(s string) string {
	return html.UnescapeString(b.text.Sanitize(s))
}

func nonBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// renderViews renders every item in viewMode or none of them.
func (b *Builder) renderViews(ctx context.Context, items []related.SelectedItem, viewMode string) ([]Container, error) {
	contents := make([]Container, len(items))
	for i, item := range items {
		rendered, err := b.views.View(ctx, item, viewMode)
		if err != nil {
			return nil, fmt.Errorf("failed to render node %d in view mode %s: %w", item.ID, viewMode, err)
		}
		contents[i] = Container{Class: b.class("row", "content"), HTML: rendered}
	}
	return contents, nil
}
