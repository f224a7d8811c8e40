package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
)

const testCatalog = `
content_types:
  - type: article
    name: Article
    view_modes:
      teaser: Teaser
      full: Full content
  - type: page
    name: Basic page

imports:
  - name: blog
    url: "https://example.com/feed.xml"
    content_type: article
  - name: docs
    url: "https://example.com/docs.atom"
    content_type: page
    body_format: markdown
    enabled: false
    timeout: 5
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"article", "page"}, c.ContentTypeNames()); diff != "" {
		t.Errorf("Content types mismatch (-want +got):\n%s", diff)
	}
	if c.ContentTypes[0].ViewModes["full"] != "Full content" {
		t.Errorf("Expected view mode label 'Full content', got '%s'", c.ContentTypes[0].ViewModes["full"])
	}

	want := []Import{
		{Name: "blog", URL: "https://example.com/feed.xml", ContentType: "article", BodyFormat: "html", Enabled: true, Timeout: 30},
		{Name: "docs", URL: "https://example.com/docs.atom", ContentType: "page", BodyFormat: "markdown", Enabled: false, Timeout: 5},
	}
	if diff := cmp.Diff(want, c.Imports); diff != "" {
		t.Errorf("Imports mismatch (-want +got):\n%s", diff)
	}

	enabled := c.EnabledImports()
	if len(enabled) != 1 || enabled[0].Name != "blog" {
		t.Errorf("Expected only 'blog' enabled, got %+v", enabled)
	}
	if c.GetImport("docs") == nil || c.GetImport("missing") != nil {
		t.Error("GetImport returned unexpected result")
	}
}

func TestParse_ValidationErrorsAccumulate(t *testing.T) {
	content := `
content_types:
  - type: article
  - type: article
  - name: Nameless
imports:
  - url: "not a url"
    content_type: recipe
    body_format: rtf
    timeout: 0
    filters:
      - field: author
        excludes: [spam]
`
	_, err := Parse([]byte(content))
	if err == nil {
		t.Fatal("Expected validation error")
	}

	errs := multierr.Errors(err)
	if len(errs) != 8 {
		t.Errorf("Expected 8 errors, got %d: %v", len(errs), err)
	}
	for _, fragment := range []string{"declared twice", "type is required", "name is required", "invalid url", "unknown content type", "invalid body format", "timeout", "invalid filter field"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Expected error to mention '%s', got: %v", fragment, err)
		}
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("content_types: [")); err == nil {
		t.Error("Expected YAML error")
	}
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "catalog.yml")
	if err := os.WriteFile(path, []byte(testCatalog), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.ContentTypes) != 2 || len(c.Imports) != 2 {
		t.Errorf("Expected 2 content types and 2 imports, got %d and %d", len(c.ContentTypes), len(c.Imports))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.ContentTypes) != 0 || len(c.Imports) != 0 {
		t.Errorf("Expected empty catalog, got %+v", c)
	}
}
