package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

var createPages = Migration{
	Version:     1,
	Description: "Add pages table",
	Up: `
		CREATE TABLE IF NOT EXISTS pages (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)
	`,
	Down: `
		DROP TABLE IF EXISTS pages
	`,
}

var addPageRotation = Migration{
	Version:     2,
	Description: "Add rotation to pages",
	Up:          `ALTER TABLE pages ADD COLUMN rotation INTEGER NOT NULL DEFAULT 0`,
	Down:        `ALTER TABLE pages DROP COLUMN rotation`,
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrations.db")+"?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	manager := NewManager(addPageRotation, createPages)

	applied, err := manager.Apply(ctx, db)
	if err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}

	version, err := CurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	if _, err := db.Exec("INSERT INTO pages (id, name, rotation) VALUES (1, 'front', 90)"); err != nil {
		t.Fatalf("migrated table not usable: %v", err)
	}

	// Second apply is a no-op
	applied, err = manager.Apply(ctx, db)
	if err != nil {
		t.Fatalf("re-apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no migrations on re-apply, got %d", applied)
	}

	if err := manager.Rollback(ctx, db); err != nil {
		t.Fatalf("failed to rollback migration: %v", err)
	}
	version, _ = CurrentVersion(ctx, db)
	if version != 1 {
		t.Errorf("expected version 1 after rollback, got %d", version)
	}
	if _, err := db.Exec("INSERT INTO pages (id, name, rotation) VALUES (2, 'back', 0)"); err == nil {
		t.Error("rotation column should have been dropped")
	}

	if err := manager.Rollback(ctx, db); err != nil {
		t.Fatalf("failed to rollback first migration: %v", err)
	}
	if err := manager.Rollback(ctx, db); err == nil {
		t.Error("expected error rolling back an empty database")
	}
}

func TestApplyStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	broken := Migration{Version: 2, Description: "broken", Up: "ALTER TABLE missing ADD COLUMN x INTEGER"}
	manager := NewManager(createPages, broken)

	applied, err := manager.Apply(ctx, db)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", applied)
	}
	version, _ := CurrentVersion(ctx, db)
	if version != 1 {
		t.Errorf("failed migration must not be recorded, version = %d", version)
	}
}

func TestMigrationOrdering(t *testing.T) {
	manager := NewManager()

	manager.Register(Migration{Version: 3, Description: "Third"})
	manager.Register(Migration{Version: 1, Description: "First"})
	manager.Register(Migration{Version: 2, Description: "Second"})

	manager.sortMigrations()

	if len(manager.migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(manager.migrations))
	}
	for i, want := range []int{1, 2, 3} {
		if manager.migrations[i].Version != want {
			t.Errorf("migration %d: expected version %d, got %d", i, want, manager.migrations[i].Version)
		}
	}
	if manager.Latest() != 3 {
		t.Errorf("expected latest 3, got %d", manager.Latest())
	}
}
