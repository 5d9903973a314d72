package service

import (
	"path/filepath"
	"testing"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
)

// newTestDB opens a throwaway sqlite database with the full schema applied
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// seedChild creates a child with their default active course
func seedChild(t *testing.T, roster *RosterService, name string) (*models.Child, *models.Gradebook) {
	t.Helper()

	child, err := roster.CreateChild(name)
	if err != nil {
		t.Fatalf("Failed to create child: %v", err)
	}

	gradebook, err := roster.EnsureActive(child.ID)
	if err != nil {
		t.Fatalf("Failed to resolve active gradebook: %v", err)
	}

	return child, gradebook
}
