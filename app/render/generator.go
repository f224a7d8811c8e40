package render

import (
	"bytes"
	"fmt"
	"html"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run writes the HTML of a block. A nil block produces empty output.
func (g *Generator) Run(block *Block) (string, error) {
	if block == nil || len(block.Rows) == 0 {
		return "", nil
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("<div%s>\n", block.Attributes.String()))

	if block.Prefix != "" {
		g.writeHeading(&buf, block.PrefixClass, block.Prefix)
	}

	buf.WriteString(fmt.Sprintf("  <div class=\"%s\">\n", html.EscapeString(block.RowsClass)))
	for _, row := range block.Rows {
		g.writeRow(&buf, row)
	}
	buf.WriteString("  </div>\n")

	if block.Suffix != "" {
		g.writeHeading(&buf, block.SuffixClass, block.Suffix)
	}

	buf.WriteString("</div>\n")

	return buf.String(), nil
}

func (g *Generator) writeHeading(buf *bytes.Buffer, class, text string) {
	buf.WriteString(fmt.Sprintf("  <h2 class=\"%s\">%s</h2>\n", html.EscapeString(class), html.EscapeString(text)))
}

func (g *Generator) writeRow(buf *bytes.Buffer, row Row) {
	buf.WriteString(fmt.Sprintf("    <div%s>\n", row.Attributes.String()))

	if row.Prefix != nil {
		g.writeContainer(buf, *row.Prefix)
	}
	g.writeContainer(buf, row.Content)
	if row.Suffix != nil {
		g.writeContainer(buf, *row.Suffix)
	}

	buf.WriteString("    </div>\n")
}

func (g *Generator) writeContainer(buf *bytes.Buffer, c Container) {
	buf.WriteString(fmt.Sprintf("      <div class=\"%s\">", html.EscapeString(c.Class)))
	if c.Link != nil {
		buf.WriteString(fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(c.Link.URL), html.EscapeString(c.Link.Text)))
	} else {
		buf.WriteString(string(c.HTML))
	}
	buf.WriteString("</div>\n")
}
