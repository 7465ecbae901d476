// store_test.go provides a shared test database helper for all store
// tests. Each test gets its own temp-file SQLite database with the full
// schema applied.
package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	"lexcms/internal/database"
)

// testDB opens a fresh database in the test's temp dir and runs migrations.
// A cleanup function is registered to close the connection when the test
// finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store_test.db")
	db, err := database.Connect(path)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}
