package database

import (
	"context"
	"fmt"
	"time"
)

type SQLCatalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *SQLCatalogRepository {
	return &SQLCatalogRepository{db: db}
}

func (r *SQLCatalogRepository) GetContentTypes(ctx context.Context) ([]ContentType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT type, name FROM content_types ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to get content types: %w", err)
	}
	defer rows.Close()

	var contentTypes []ContentType
	for rows.Next() {
		var ct ContentType
		if err := rows.Scan(&ct.Type, &ct.Name); err != nil {
			return nil, fmt.Errorf("failed to scan content type row: %w", err)
		}
		contentTypes = append(contentTypes, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content type rows: %w", err)
	}

	return contentTypes, nil
}

// GetContentTypeNames returns the machine names of all known content types,
// including types only used by stored nodes.
func (r *SQLCatalogRepository) GetContentTypeNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type FROM content_types
		UNION
		SELECT DISTINCT type FROM nodes
		ORDER BY type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get content type names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan content type name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content type names: %w", err)
	}

	return names, nil
}

func (r *SQLCatalogRepository) UpsertContentType(ctx context.Context, contentType ContentType) error {
	now := time.Now().Unix()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO content_types (type, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (type) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`, contentType.Type, contentType.Name, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert content type: %w", err)
	}

	return nil
}

// ReplaceViewModes sets the complete list of view modes of a content type.
func (r *SQLCatalogRepository) ReplaceViewModes(ctx context.Context, contentType string, modes []ViewMode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM view_modes WHERE type = ?`, contentType); err != nil {
		return fmt.Errorf("failed to clear view modes: %w", err)
	}

	for _, mode := range modes {
		_, err := tx.ExecContext(ctx, `INSERT INTO view_modes (type, mode, label) VALUES (?, ?, ?)`,
			contentType, mode.Mode, mode.Label)
		if err != nil {
			return fmt.Errorf("failed to insert view mode %s: %w", mode.Mode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit view modes: %w", err)
	}

	return nil
}

// ViewModeOptions returns the view modes of a content type keyed by machine
// name. An unknown content type has no view modes.
func (r *SQLCatalogRepository) ViewModeOptions(ctx context.Context, contentType string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT mode, label FROM view_modes WHERE type = ?`, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to get view modes: %w", err)
	}
	defer rows.Close()

	options := make(map[string]string)
	for rows.Next() {
		var mode, label string
		if err := rows.Scan(&mode, &label); err != nil {
			return nil, fmt.Errorf("failed to scan view mode row: %w", err)
		}
		options[mode] = label
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating view mode rows: %w", err)
	}

	return options, nil
}
