package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
)

// GradebookRepository handles database operations for gradebooks (courses)
type GradebookRepository struct {
	db database.DBTX
}

// NewGradebookRepository creates a new gradebook repository
func NewGradebookRepository(db database.DBTX) *GradebookRepository {
	return &GradebookRepository{db: db}
}

// Create inserts a new gradebook with default totals
func (r *GradebookRepository) Create(childID int64, name string, isActive bool) (*models.Gradebook, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO gradebooks (child_id, name, homework_total, test_total, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	gradebookID, err := r.db.ExecReturningID(query,
		childID, name, models.DefaultHomeworkTotal, models.DefaultTestTotal, isActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create gradebook: %w", err)
	}

	return &models.Gradebook{
		ID:            gradebookID,
		ChildID:       childID,
		Name:          name,
		HomeworkTotal: models.DefaultHomeworkTotal,
		TestTotal:     models.DefaultTestTotal,
		IsActive:      isActive,
		CreatedAt:     now,
	}, nil
}

const gradebookColumns = "id, child_id, name, homework_total, test_total, is_active, created_at"

func scanGradebook(row *sql.Row) (*models.Gradebook, error) {
	gb := &models.Gradebook{}
	err := row.Scan(&gb.ID, &gb.ChildID, &gb.Name, &gb.HomeworkTotal, &gb.TestTotal, &gb.IsActive, &gb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gb, nil
}

// GetByID retrieves a gradebook by ID, returning nil when no row exists
func (r *GradebookRepository) GetByID(gradebookID int64) (*models.Gradebook, error) {
	query := "SELECT " + gradebookColumns + " FROM gradebooks WHERE id = ?"
	gb, err := scanGradebook(r.db.QueryRow(query, gradebookID))
	if err != nil {
		return nil, fmt.Errorf("failed to get gradebook: %w", err)
	}
	return gb, nil
}

// GetByChild retrieves all gradebooks for a child in insertion order
func (r *GradebookRepository) GetByChild(childID int64) ([]models.Gradebook, error) {
	query := "SELECT " + gradebookColumns + " FROM gradebooks WHERE child_id = ? ORDER BY id ASC"
	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gradebooks: %w", err)
	}
	defer rows.Close()

	var gradebooks []models.Gradebook
	for rows.Next() {
		var gb models.Gradebook
		if err := rows.Scan(&gb.ID, &gb.ChildID, &gb.Name, &gb.HomeworkTotal, &gb.TestTotal, &gb.IsActive, &gb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gradebook: %w", err)
		}
		gradebooks = append(gradebooks, gb)
	}

	return gradebooks, rows.Err()
}

// GetActiveForChild retrieves the child's active gradebook, nil when none is active
func (r *GradebookRepository) GetActiveForChild(childID int64) (*models.Gradebook, error) {
	query := "SELECT " + gradebookColumns + " FROM gradebooks WHERE child_id = ? AND is_active = ? LIMIT 1"
	gb, err := scanGradebook(r.db.QueryRow(query, childID, true))
	if err != nil {
		return nil, fmt.Errorf("failed to get active gradebook: %w", err)
	}
	return gb, nil
}

// GetFirstForChild retrieves the child's oldest gradebook, nil when the child has none
func (r *GradebookRepository) GetFirstForChild(childID int64) (*models.Gradebook, error) {
	query := "SELECT " + gradebookColumns + " FROM gradebooks WHERE child_id = ? ORDER BY id ASC LIMIT 1"
	gb, err := scanGradebook(r.db.QueryRow(query, childID))
	if err != nil {
		return nil, fmt.Errorf("failed to get first gradebook: %w", err)
	}
	return gb, nil
}

// GetByChildAndName retrieves a child's gradebook by exact name, nil when no row exists
func (r *GradebookRepository) GetByChildAndName(childID int64, name string) (*models.Gradebook, error) {
	query := "SELECT " + gradebookColumns + " FROM gradebooks WHERE child_id = ? AND name = ?"
	gb, err := scanGradebook(r.db.QueryRow(query, childID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get gradebook by name: %w", err)
	}
	return gb, nil
}

// CountForChild returns how many gradebooks a child has
func (r *GradebookRepository) CountForChild(childID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM gradebooks WHERE child_id = ?"
	if err := r.db.QueryRow(query, childID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count gradebooks: %w", err)
	}
	return count, nil
}

// SetActive marks one gradebook active
func (r *GradebookRepository) SetActive(gradebookID int64) error {
	query := "UPDATE gradebooks SET is_active = ? WHERE id = ?"
	if _, err := r.db.Exec(query, true, gradebookID); err != nil {
		return fmt.Errorf("failed to activate gradebook: %w", err)
	}
	return nil
}

// DeactivateAllForChild clears the active flag on every gradebook of a child
func (r *GradebookRepository) DeactivateAllForChild(childID int64) error {
	query := "UPDATE gradebooks SET is_active = ? WHERE child_id = ?"
	if _, err := r.db.Exec(query, false, childID); err != nil {
		return fmt.Errorf("failed to deactivate gradebooks: %w", err)
	}
	return nil
}

// Rename changes a gradebook's name
func (r *GradebookRepository) Rename(gradebookID int64, name string) error {
	query := "UPDATE gradebooks SET name = ? WHERE id = ?"
	if _, err := r.db.Exec(query, name, gradebookID); err != nil {
		return fmt.Errorf("failed to rename gradebook: %w", err)
	}
	return nil
}

// UpdateTotals sets the default homework and test totals for a gradebook
func (r *GradebookRepository) UpdateTotals(gradebookID int64, homeworkTotal, testTotal int) error {
	query := "UPDATE gradebooks SET homework_total = ?, test_total = ? WHERE id = ?"
	if _, err := r.db.Exec(query, homeworkTotal, testTotal, gradebookID); err != nil {
		return fmt.Errorf("failed to update totals: %w", err)
	}
	return nil
}

// Delete removes a gradebook; its grades cascade at the database level
func (r *GradebookRepository) Delete(gradebookID int64) error {
	query := "DELETE FROM gradebooks WHERE id = ?"
	if _, err := r.db.Exec(query, gradebookID); err != nil {
		return fmt.Errorf("failed to delete gradebook: %w", err)
	}
	return nil
}
