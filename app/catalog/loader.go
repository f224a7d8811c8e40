package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBodyFormat = "html"
	DefaultTimeout    = 30
)

var bodyFormats = map[string]bool{"html": true, "markdown": true, "plain": true}

var filterFields = map[string]bool{"title": true, "body": true, "link": true}

// Load reads the catalog file. A missing file yields an empty catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Catalog file not found, starting with an empty catalog", "path", path)
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	return c, nil
}

// Parse decodes a catalog, applies defaults and validates it.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	c := &Catalog{ContentTypes: raw.ContentTypes}
	for _, ri := range raw.Imports {
		imp := Import{
			Name:        strings.TrimSpace(ri.Name),
			URL:         strings.TrimSpace(ri.URL),
			ContentType: ri.ContentType,
			BodyFormat:  ri.BodyFormat,
			Enabled:     true,
			Timeout:     DefaultTimeout,
			Filters:     ri.Filters,
		}
		if imp.BodyFormat == "" {
			imp.BodyFormat = DefaultBodyFormat
		}
		if ri.Enabled != nil {
			imp.Enabled = *ri.Enabled
		}
		if ri.Timeout != nil {
			imp.Timeout = *ri.Timeout
		}
		c.Imports = append(c.Imports, imp)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports every problem in the catalog at once.
func (c *Catalog) Validate() error {
	var errs error

	types := make(map[string]bool, len(c.ContentTypes))
	for i, ct := range c.ContentTypes {
		if ct.Type == "" {
			errs = multierr.Append(errs, fmt.Errorf("content type #%d: type is required", i+1))
			continue
		}
		if types[ct.Type] {
			errs = multierr.Append(errs, fmt.Errorf("content type %q is declared twice", ct.Type))
		}
		types[ct.Type] = true
	}

	names := make(map[string]bool, len(c.Imports))
	for i, imp := range c.Imports {
		label := imp.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			errs = multierr.Append(errs, fmt.Errorf("import %s: name is required", label))
		} else if names[imp.Name] {
			errs = multierr.Append(errs, fmt.Errorf("import %q is declared twice", imp.Name))
		}
		names[imp.Name] = true

		if u, err := url.Parse(imp.URL); imp.URL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			errs = multierr.Append(errs, fmt.Errorf("import %s: invalid url %q", label, imp.URL))
		}
		if !types[imp.ContentType] {
			errs = multierr.Append(errs, fmt.Errorf("import %s: unknown content type %q", label, imp.ContentType))
		}
		if !bodyFormats[imp.BodyFormat] {
			errs = multierr.Append(errs, fmt.Errorf("import %s: invalid body format %q", label, imp.BodyFormat))
		}
		if imp.Timeout < 1 {
			errs = multierr.Append(errs, fmt.Errorf("import %s: timeout must be at least 1 second", label))
		}
		for _, filter := range imp.Filters {
			if !filterFields[filter.Field] {
				errs = multierr.Append(errs, fmt.Errorf("import %s: invalid filter field %q", label, filter.Field))
			}
		}
	}

	return errs
}
