package database

import (
	"context"
	"path/filepath"
	"testing"
)

// OpenTest returns a migrated SQLite database in a temporary directory that
// is closed when the test ends.
func OpenTest(t testing.TB) *DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	if err := RunMigrations(SQLite, dsn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	db, err := Open(context.Background(), SQLite, dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
