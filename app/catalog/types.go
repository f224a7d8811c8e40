package catalog

// Catalog declares the content types known to the service, the view modes
// each of them can be rendered with and the feeds nodes are imported from.
type Catalog struct {
	ContentTypes []ContentType `yaml:"content_types"`
	Imports      []Import      `yaml:"imports"`
}

type ContentType struct {
	Type      string            `yaml:"type"`
	Name      string            `yaml:"name"`
	ViewModes map[string]string `yaml:"view_modes"` // machine name -> label
}

type Import struct {
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	ContentType string   `yaml:"content_type"`
	BodyFormat  string   `yaml:"body_format"`
	Enabled     bool     `yaml:"enabled"`
	Timeout     int      `yaml:"timeout"` // seconds
	Filters     []Filter `yaml:"filters"`
}

// Filter unpublishes imported entries by case-insensitive substring match on
// one field (title, body or link).
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type rawImport struct {
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	ContentType string   `yaml:"content_type"`
	BodyFormat  string   `yaml:"body_format"`
	Enabled     *bool    `yaml:"enabled"`
	Timeout     *int     `yaml:"timeout"`
	Filters     []Filter `yaml:"filters"`
}

type rawCatalog struct {
	ContentTypes []ContentType `yaml:"content_types"`
	Imports      []rawImport   `yaml:"imports"`
}

// ContentTypeNames returns the declared machine names in file order.
func (c *Catalog) ContentTypeNames() []string {
	names := make([]string, 0, len(c.ContentTypes))
	for _, ct := range c.ContentTypes {
		names = append(names, ct.Type)
	}
	return names
}

func (c *Catalog) GetImport(name string) *Import {
	for i := range c.Imports {
		if c.Imports[i].Name == name {
			return &c.Imports[i]
		}
	}
	return nil
}

// EnabledImports returns the imports that should be fetched.
func (c *Catalog) EnabledImports() []Import {
	var enabled []Import
	for _, imp := range c.Imports {
		if imp.Enabled {
			enabled = append(enabled, imp)
		}
	}
	return enabled
}
