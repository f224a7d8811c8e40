package render

import (
	"context"
	"fmt"
	"html/template"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lysyi3m/related-nodes/app/block"
	"github.com/lysyi3m/related-nodes/app/related"
	"github.com/lysyi3m/related-nodes/app/token"
)

const testModule = "related_nodes_block"

type fakeOptions map[string]map[string]string

func (f fakeOptions) ViewModeOptions(ctx context.Context, contentType string) (map[string]string, error) {
	return f[contentType], nil
}

type fakeViews struct {
	calls []string
	fail  map[int64]bool
}

func (f *fakeViews) View(ctx context.Context, item related.SelectedItem, viewMode string) (template.HTML, error) {
	f.calls = append(f.calls, fmt.Sprintf("%d:%s", item.ID, viewMode))
	if f.fail[item.ID] {
		return "", fmt.Errorf("node %d not found", item.ID)
	}
	return template.HTML(fmt.Sprintf("<article>%s</article>", item.Title)), nil
}

func nodeURL(id int64) string {
	return fmt.Sprintf("/node/%d", id)
}

func testItems(titles ...string) []related.SelectedItem {
	items := make([]related.SelectedItem, len(titles))
	for i, title := range titles {
		items[i] = related.SelectedItem{ID: int64(i + 1), ContentType: "article", Title: title, Active: true}
	}
	return items
}

func parseBlock(t *testing.T, content string) *block.Config {
	t.Helper()
	cfg, err := block.ParseConfig("test", []byte(content))
	if err != nil {
		t.Fatalf("Failed to parse block config: %v", err)
	}
	return cfg
}

func newTestBuilder(options related.DisplayOptions, views ViewBuilder) *Builder {
	return NewBuilder(testModule, token.NewReplacer(), options, views, nodeURL, nil)
}

func TestBuilder_EmptyItems(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})

	result, err := builder.Build(context.Background(), parseBlock(t, "{}"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != nil {
		t.Errorf("Expected no block for empty items, got %+v", result)
	}
}

func TestBuilder_LinkedTextDefaults(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})

	result, err := builder.Build(context.Background(), parseBlock(t, "{}"), testItems("First", "Second"))
	if err != nil {
		t.Fatal(err)
	}

	if result.DisplayMode != related.ModeLinkedText {
		t.Errorf("Expected linked text mode, got %s", result.DisplayMode)
	}
	wantContainer := []string{
		"related-nodes-block--container",
		"related-nodes-block--container--prev",
		"related-nodes-block--container--linked-text",
	}
	if diff := cmp.Diff(wantContainer, result.Attributes.Classes()); diff != "" {
		t.Errorf("Container classes mismatch (-want +got):\n%s", diff)
	}
	if result.RowsClass != "related-nodes-block--rows" {
		t.Errorf("Expected rows class 'related-nodes-block--rows', got '%s'", result.RowsClass)
	}

	if len(result.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(result.Rows))
	}
	second := result.Rows[1]
	wantRow := []string{
		"related-nodes-block--row",
		"related-nodes-block--row--prev",
		"related-nodes-block--row--prev--2",
	}
	if diff := cmp.Diff(wantRow, second.Attributes.Classes()); diff != "" {
		t.Errorf("Row classes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&Link{Text: "Second", URL: "/node/2"}, second.Content.Link); diff != "" {
		t.Errorf("Row link mismatch (-want +got):\n%s", diff)
	}
	if second.Content.Class != "related-nodes-block--row--content" {
		t.Errorf("Expected content class, got '%s'", second.Content.Class)
	}
	if second.Prefix != nil || second.Suffix != nil {
		t.Error("Expected no prefix/suffix containers")
	}
}

func TestBuilder_LinkedTextIsPlainAndTruncated(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})
	cfg := parseBlock(t, `
row_display:
  mode_options:
    linked_text_maxlen: 8
`)

	result, err := builder.Build(context.Background(), cfg, testItems("<em>Hello</em>, world", "Tom & Jerry"))
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Rows[0].Content.Link.Text; got != "Hello,…" {
		t.Errorf("Expected 'Hello,…', got '%s'", got)
	}
	if got := result.Rows[1].Content.Link.Text; got != "Tom &…" {
		t.Errorf("Expected 'Tom &…', got '%s'", got)
	}
}

func TestBuilder_InlinePrefixSuffix(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})
	cfg := parseBlock(t, `
row_display:
  type: first
  mode_options:
    linked_text: "[node:title] ([node:url])"
    linked_text_maxlen: 0
    prefix: "[related_nodes_block:counter]. "
    suffix: " ([related_nodes_block:display-type-label])"
`)

	result, err := builder.Build(context.Background(), cfg, testItems("A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"1. A (/node/1) (First)", "2. B (/node/2) (First)"}
	for i, row := range result.Rows {
		if row.Content.Link.Text != want[i] {
			t.Errorf("Row %d: expected '%s', got '%s'", i, want[i], row.Content.Link.Text)
		}
	}
}

func TestBuilder_PrefixSuffixDiv(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})
	cfg := parseBlock(t, `
row_display:
  mode_options:
    prefix_suffix_div: true
    prefix: "#[related_nodes_block:counter]"
    suffix: "   "
`)

	result, err := builder.Build(context.Background(), cfg, testItems("A"))
	if err != nil {
		t.Fatal(err)
	}

	row := result.Rows[0]
	if row.Content.Link.Text != "A" {
		t.Errorf("Expected bare linked text, got '%s'", row.Content.Link.Text)
	}
	want := &Container{Class: "related-nodes-block--row--prefix", Link: &Link{Text: "#1", URL: "/node/1"}}
	if diff := cmp.Diff(want, row.Prefix); diff != "" {
		t.Errorf("Prefix container mismatch (-want +got):\n%s", diff)
	}
	if row.Suffix != nil {
		t.Errorf("Blank suffix must not produce a container, got %+v", row.Suffix)
	}
}

func TestBuilder_ViewMode(t *testing.T) {
	views := &fakeViews{}
	builder := newTestBuilder(fakeOptions{"article": {"teaser": "Teaser"}}, views)
	cfg := parseBlock(t, `
row_display:
  limit: 2
  mode: view_mode
  mode_options:
    prefix: "Read"
`)

	result, err := builder.Build(context.Background(), cfg, testItems("A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	if result.DisplayMode != related.ModeViewMode {
		t.Errorf("Expected view mode, got %s", result.DisplayMode)
	}
	if diff := cmp.Diff([]string{"1:teaser", "2:teaser"}, views.calls); diff != "" {
		t.Errorf("View calls mismatch (-want +got):\n%s", diff)
	}
	row := result.Rows[1]
	if row.Content.HTML != "<article>B</article>" || row.Content.Link != nil {
		t.Errorf("Expected rendered view content, got %+v", row.Content)
	}
	if row.Prefix == nil || row.Prefix.Link.Text != "Read" {
		t.Errorf("View mode rows always get a prefix container, got %+v", row.Prefix)
	}
	if classes := result.Attributes.Classes(); classes[len(classes)-1] != "related-nodes-block--container--view-mode" {
		t.Errorf("Expected view mode container class, got %v", classes)
	}
}

func TestBuilder_ViewModeFallsBackForAllRows(t *testing.T) {
	views := &fakeViews{}
	builder := newTestBuilder(fakeOptions{"article": {"teaser": "Teaser"}}, views)
	cfg := parseBlock(t, `
row_display:
  mode: view_mode
`)
	items := testItems("A", "B")
	items[1].ContentType = "page"

	result, err := builder.Build(context.Background(), cfg, items)
	if err != nil {
		t.Fatal(err)
	}

	if result.DisplayMode != related.ModeLinkedText {
		t.Errorf("Expected linked text fallback, got %s", result.DisplayMode)
	}
	if len(views.calls) != 0 {
		t.Errorf("Expected no view rendering, got %v", views.calls)
	}
	for i, row := range result.Rows {
		if row.Content.Link == nil {
			t.Errorf("Row %d: expected a link", i)
		}
	}
}

func TestBuilder_ViewRenderErrorFallsBackToLinkedText(t *testing.T) {
	views := &fakeViews{fail: map[int64]bool{2: true}}
	builder := newTestBuilder(fakeOptions{"article": {"teaser": "Teaser"}}, views)
	cfg := parseBlock(t, `
row_display:
  limit: 3
  mode: view_mode
`)

	result, err := builder.Build(context.Background(), cfg, testItems("A", "B", "C"))
	if err != nil {
		t.Fatalf("Expected a degraded block, got error: %v", err)
	}

	if result.DisplayMode != related.ModeLinkedText {
		t.Errorf("Expected linked text fallback, got %s", result.DisplayMode)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(result.Rows))
	}
	for i, row := range result.Rows {
		if row.Content.Link == nil || row.Content.HTML != "" {
			t.Errorf("Row %d: expected linked text only, got %+v", i, row.Content)
		}
	}
	if result.Rows[2].Content.Link.Text != "C" {
		t.Errorf("Expected link text 'C', got '%s'", result.Rows[2].Content.Link.Text)
	}
}

func TestBuilder_AttributesPerRow(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})
	cfg := parseBlock(t, `
row_display:
  addl_css_classes: false
  attr: |
    class|pos-[related_nodes_block:counter]
    style|order: [related_nodes_block:counter]
block_display:
  addl_css_classes: false
  attr: "class|mine"
`)

	result, err := builder.Build(context.Background(), cfg, testItems("A", "B"))
	if err != nil {
		t.Fatal(err)
	}

	want := ` class="related-nodes-block--row pos-2" style="order: 2;"`
	if got := result.Rows[1].Attributes.String(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if got := result.Attributes.String(); got != ` class="related-nodes-block--container mine"` {
		t.Errorf("Unexpected container attributes: %s", got)
	}
}

func TestBuilder_SpecificDisplayType(t *testing.T) {
	builder := newTestBuilder(fakeOptions{}, &fakeViews{})
	cfg := parseBlock(t, `
row_filter:
  specific: true
  node_title_id: "A (1)"
block_display:
  prefix: "See also"
`)

	result, err := builder.Build(context.Background(), cfg, testItems("A"))
	if err != nil {
		t.Fatal(err)
	}

	if result.DisplayType != related.DisplayTypeSpecific {
		t.Errorf("Expected display type 'specific', got '%s'", result.DisplayType)
	}
	if got := result.Rows[0].Attributes.Classes()[1]; got != "related-nodes-block--row--specific" {
		t.Errorf("Expected specific row class, got '%s'", got)
	}
	if result.Prefix != "See also" || result.PrefixClass != "h2 related-nodes-block--container--prefix" {
		t.Errorf("Unexpected block prefix: '%s' '%s'", result.Prefix, result.PrefixClass)
	}
}
