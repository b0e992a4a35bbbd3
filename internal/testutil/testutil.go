// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/veslatte/clipdex/internal/metacache"
	"github.com/veslatte/clipdex/internal/storage"
)

// TestCache creates a temporary SQLite metadata cache that is automatically
// cleaned up.
func TestCache(t *testing.T) *metacache.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "clipdex-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := metacache.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}
