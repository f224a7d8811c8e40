package database

import (
	"context"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	return db
}

func unix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// seedNode creates a published node and returns its id.
func seedNode(t *testing.T, repo *SQLNodeRepository, contentType, title string, created int64) int64 {
	t.Helper()

	id, err := repo.CreateNode(context.Background(), Node{
		Type:      contentType,
		Title:     title,
		Status:    true,
		CreatedAt: unix(created),
		UpdatedAt: unix(created),
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestRunMigrations(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected re-running migrations to be a no-op, got %v", err)
	}
	if version != 1 {
		t.Errorf("Expected migration version 1, got %d", version)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}

	for _, table := range []string{"content_types", "view_modes", "nodes", "node_counter"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestNewConnectionCreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/related.db"

	db, err := NewConnection(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}
}
