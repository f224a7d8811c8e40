package importer

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		GUID:  strings.TrimSpace(cmp.Or(item.GUID, item.Link)),
		Title: strings.TrimSpace(item.Title),
		Link:  item.Link,
		Body:  cmp.Or(item.Content, item.Description),
	}

	if item.PublishedParsed != nil {
		entry.PublishedAt = *item.PublishedParsed
	}

	if item.UpdatedParsed != nil {
		entry.UpdatedAt = item.UpdatedParsed
	}

	return entry
}
