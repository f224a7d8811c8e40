package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/lysyi3m/related-nodes/app/database"
)

// Sync stores the declared content types and replaces their view modes.
// Content types present only in the database are left untouched.
func Sync(ctx context.Context, repo database.CatalogRepository, c *Catalog) error {
	for _, ct := range c.ContentTypes {
		name := ct.Name
		if name == "" {
			name = ct.Type
		}

		if err := repo.UpsertContentType(ctx, database.ContentType{Type: ct.Type, Name: name}); err != nil {
			return fmt.Errorf("failed to sync content type %s: %w", ct.Type, err)
		}

		modes := make([]database.ViewMode, 0, len(ct.ViewModes))
		for mode, label := range ct.ViewModes {
			modes = append(modes, database.ViewMode{Type: ct.Type, Mode: mode, Label: label})
		}
		sort.Slice(modes, func(i, j int) bool { return modes[i].Mode < modes[j].Mode })

		if err := repo.ReplaceViewModes(ctx, ct.Type, modes); err != nil {
			return fmt.Errorf("failed to sync view modes of %s: %w", ct.Type, err)
		}
	}

	return nil
}
