package db

import (
	"path/filepath"
	"testing"
)

func strPtr(s string) *string { return &s }

// newTestDB opens a migrated database in a temporary directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
