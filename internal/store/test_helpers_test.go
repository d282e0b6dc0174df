package store

import (
	"path/filepath"
	"testing"
)

// newSQLite opens a fresh SQLite store in a temp dir and closes it when the
// test ends.
func newSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "careloop.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends returns one instance of every Store backend. Contract tests run
// against all of them; the contract must hold identically.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"sqlite": newSQLite(t),
		"memory": NewMemory(),
	}
}
