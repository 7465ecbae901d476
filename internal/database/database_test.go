package database

import (
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestConnectAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Connect(path)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	goose.SetBaseFS(nil)

	// All expected tables should exist after migration.
	tables := []string{"content", "qr_records", "profile_config", "users", "sessions", "settings", "activity_log"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing after migration: %v", table, err)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Connect(path)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	goose.SetBaseFS(nil)

	if err := Seed(db); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count after double seed: got %d, want 1", count)
	}
}
