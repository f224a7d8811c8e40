package database

import (
	"time"
)

type Node struct {
	ID         int64
	Type       string
	Title      string
	Body       string
	BodyFormat string // html, markdown or plain
	Link       string // external link for imported nodes
	GUID       string // empty for nodes not created by an import
	Status     bool   // published
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ContentType struct {
	Type string
	Name string
}

type ViewMode struct {
	Type  string
	Mode  string
	Label string
}

type Counter struct {
	NodeID     int64
	TotalCount int64
	DayCount   int64
	Timestamp  time.Time // last time the node was viewed
}

// AutocompleteMatch is a node suggestion formatted as "Title (id)".
type AutocompleteMatch struct {
	ID    int64
	Label string
	Score int
}
