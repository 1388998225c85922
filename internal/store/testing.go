package store

import (
	"path/filepath"
	"testing"
)

// OpenTest opens a fresh database in a temp directory for tests.
func OpenTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
