package importer

import (
	"time"
)

// Entry is a normalized feed item ready to become a node.
type Entry struct {
	GUID        string
	Title       string
	Link        string
	Body        string
	PublishedAt time.Time
	UpdatedAt   *time.Time

	IsFiltered   bool // stored unpublished
	FilterReason string
}

type Result struct {
	Total    int
	Created  int
	Updated  int
	Skipped  int
	Filtered int
}
