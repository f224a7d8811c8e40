package importer

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/related-nodes/app/catalog"
	"github.com/lysyi3m/related-nodes/app/database"
)

// Importer fetches feeds declared in the catalog and stores their items as
// published nodes keyed by GUID.
type Importer struct {
	httpClient *http.Client
	parser     *Parser
	filterer   *Filterer
	nodeRepo   database.NodeRepository
	userAgent  string
	now        func() time.Time
}

func NewImporter(httpClient *http.Client, parser *Parser, filterer *Filterer, nodeRepo database.NodeRepository, userAgent string) *Importer {
	return &Importer{
		httpClient: httpClient,
		parser:     parser,
		filterer:   filterer,
		nodeRepo:   nodeRepo,
		userAgent:  userAgent,
		now:        time.Now,
	}
}

func (i *Importer) Run(ctx context.Context, imp catalog.Import) (Result, error) {
	var result Result

	data, err := i.fetch(ctx, imp)
	if err != nil {
		return result, fmt.Errorf("failed to fetch feed: %w", err)
	}

	entries, err := i.parser.Run(data)
	if err != nil {
		return result, err
	}
	result.Total = len(entries)

	for _, entry := range i.filterer.Run(entries, imp.Filters) {
		if entry.GUID == "" || entry.Title == "" {
			slog.Debug("Skipping feed entry without GUID or title", "import", imp.Name, "link", entry.Link)
			result.Skipped++
			continue
		}

		_, created, err := i.nodeRepo.UpsertNodeByGUID(ctx, i.toNode(imp, entry))
		if err != nil {
			return result, fmt.Errorf("failed to store entry %s: %w", entry.GUID, err)
		}
		if entry.IsFiltered {
			slog.Debug("Feed entry filtered", "import", imp.Name, "guid", entry.GUID, "reason", entry.FilterReason)
			result.Filtered++
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

func (i *Importer) toNode(imp catalog.Import, entry Entry) database.Node {
	createdAt := entry.PublishedAt
	if createdAt.IsZero() {
		createdAt = i.now()
	}
	updatedAt := createdAt
	if entry.UpdatedAt != nil {
		updatedAt = *entry.UpdatedAt
	}

	return database.Node{
		Type:       imp.ContentType,
		Title:      entry.Title,
		Body:       entry.Body,
		BodyFormat: cmp.Or(imp.BodyFormat, catalog.DefaultBodyFormat),
		Link:       entry.Link,
		GUID:       entry.GUID,
		Status:     !entry.IsFiltered,
		CreatedAt:  createdAt.UTC(),
		UpdatedAt:  updatedAt.UTC(),
	}
}

func (i *Importer) fetch(ctx context.Context, imp catalog.Import) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(imp.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", imp.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", i.userAgent)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
