package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

func TestMigrationManager_UpDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migration-test.db")

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to create migration manager: %v", err)
	}
	defer mgr.Close()

	if err := mgr.Up(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// A second Up is a no-op.
	if err := mgr.Up(); err != nil {
		t.Fatalf("Second Up() should be a no-op, got %v", err)
	}

	version, dirty, err := mgr.Version()
	if err != nil {
		t.Fatalf("Failed to get migration version: %v", err)
	}
	if dirty {
		t.Error("Database is in dirty state after migrations")
	}
	if version != 1 {
		t.Errorf("Expected migration version 1, got %d", version)
	}

	if err := mgr.Down(); err != nil {
		t.Fatalf("Failed to roll back migrations: %v", err)
	}

	version, _, err = mgr.Version()
	if err != nil {
		t.Fatalf("Failed to get migration version after rollback: %v", err)
	}
	if version != 0 {
		t.Errorf("Expected version 0 after rollback, got %d", version)
	}
}

func TestResetDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reset-test.db")
	ctx := context.Background()

	config := DefaultConfig(dbPath)
	config.AutoMigrate = true
	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	service := NewService(db)
	if err := service.SaveCardMetadata(ctx, cards.Metadata{Name: "Forest", SetCode: "ANA"}); err != nil {
		t.Fatalf("Failed to save card: %v", err)
	}
	if err := service.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	if err := ResetDatabase(dbPath); err != nil {
		t.Fatalf("ResetDatabase() error = %v", err)
	}

	db, err = Open(config)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	service = NewService(db)
	defer service.Close()

	count, err := service.CountCardMetadata(ctx)
	if err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected empty cache after reset, got %d cards", count)
	}
}

func TestResetDatabase_NewFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")

	if err := ResetDatabase(dbPath); err != nil {
		t.Fatalf("ResetDatabase() on a new file error = %v", err)
	}

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to create migration manager: %v", err)
	}
	defer mgr.Close()

	version, dirty, err := mgr.Version()
	if err != nil {
		t.Fatalf("Failed to get migration version: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected clean version 1 after reset, got %d (dirty=%v)", version, dirty)
	}
}
