package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/lysyi3m/related-nodes/app/database"
	"github.com/lysyi3m/related-nodes/app/related"
)

// Body formats a node can be stored with.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

const (
	ViewModeFull = "full"
	summaryLen   = 200
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

type NodeLoader interface {
	GetNode(ctx context.Context, id int64) (*database.Node, error)
}

// NodeViewBuilder renders stored nodes. The full view mode shows the whole
// body, every other mode shows a plain text summary.
type NodeViewBuilder struct {
	nodes  NodeLoader
	urls   URLFunc
	body   *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewNodeViewBuilder(nodes NodeLoader, urls URLFunc) *NodeViewBuilder {
	return &NodeViewBuilder{
		nodes:  nodes,
		urls:   urls,
		body:   bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true),
	}
}

func (v *NodeViewBuilder) View(ctx context.Context, item related.SelectedItem, viewMode string) (template.HTML, error) {
	node, err := v.nodes.GetNode(ctx, item.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load node: %w", err)
	}
	if node == nil {
		return "", fmt.Errorf("node %d not found", item.ID)
	}

	body, err := v.Body(node)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("<article class=\"node node--type-%s node--view-mode-%s\">",
		html.EscapeString(cssName(node.Type)), html.EscapeString(cssName(viewMode))))
	buf.WriteString(fmt.Sprintf("<h3 class=\"node__title\"><a href=\"%s\">%s</a></h3>",
		html.EscapeString(v.urls(node.ID)), html.EscapeString(node.Title)))

	buf.WriteString(`<div class="node__content">`)
	if viewMode == ViewModeFull {
		buf.WriteString(string(body))
	} else if summary := v.Summary(body); summary != "" {
		buf.WriteString("<p>")
		buf.WriteString(html.EscapeString(summary))
		buf.WriteString("</p>")
	}
	buf.WriteString("</div></article>")

	return template.HTML(buf.String()), nil
}

// Body returns the sanitized HTML body of a node.
func (v *NodeViewBuilder) Body(node *database.Node) (template.HTML, error) {
	var raw []byte
	switch node.BodyFormat {
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(node.Body), &buf); err != nil {
			return "", fmt.Errorf("failed to render markdown: %w", err)
		}
		raw = buf.Bytes()
	case FormatPlain:
		if node.Body == "" {
			return "", nil
		}
		raw = []byte("<p>" + strings.ReplaceAll(html.EscapeString(node.Body), "\n\n", "</p><p>") + "</p>")
	default:
		raw = []byte(node.Body)
	}
	return template.HTML(v.body.SanitizeBytes(raw)), nil
}

// Summary turns a rendered body into truncated plain text.
func (v *NodeViewBuilder) Summary(body template.HTML) string {
	text := html.UnescapeString(v.strict.Sanitize(string(body)))
	return related.Truncate(strings.Join(strings.Fields(text), " "), summaryLen)
}

func cssName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}
