package render

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/lysyi3m/related-nodes/app/related"
)

// Block is the render tree of one related nodes block.
type Block struct {
	Attributes  *related.Attributes
	DisplayType string
	DisplayMode related.DisplayMode
	Prefix      string // plain text shown in an <h2> before the rows
	Suffix      string
	RowsClass   string
	PrefixClass string
	SuffixClass string
	Rows        []Row
}

type Row struct {
	NodeID     int64
	Attributes *related.Attributes
	Prefix     *Container // set only when prefix and suffix get their own containers
	Content    Container
	Suffix     *Container
}

// Container is a <div> wrapping either a link or pre-rendered HTML.
type Container struct {
	Class string
	Link  *Link
	HTML  template.HTML
}

type Link struct {
	Text string
	URL  string
}

// ViewBuilder renders a node in a view mode.
type ViewBuilder interface {
	View(ctx context.Context, item related.SelectedItem, viewMode string) (template.HTML, error)
}

// URLFunc returns the canonical URL of a node.
type URLFunc func(id int64) string

// NodeURLs builds node URLs of the form <baseURL>/node/<id>.
func NodeURLs(baseURL string) URLFunc {
	base := strings.TrimRight(baseURL, "/")
	return func(id int64) string {
		return fmt.Sprintf("%s/node/%d", base, id)
	}
}
