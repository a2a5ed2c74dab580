package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB opens a migrated database in a temp dir and closes it when t ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
