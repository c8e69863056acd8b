package storage

import (
	"path/filepath"
	"testing"
)

// NewTestService opens a migrated file-backed database under t.TempDir.
// It is exported for tests in packages that sit on top of storage.
func NewTestService(t testing.TB) *Service {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	config := DefaultConfig(dbPath)
	config.AutoMigrate = true
	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := NewService(db)
	t.Cleanup(func() {
		_ = service.Close()
	})

	return service
}
