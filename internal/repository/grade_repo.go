package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
)

// GradeRepository handles database operations for grade entries
type GradeRepository struct {
	db database.DBTX
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db database.DBTX) *GradeRepository {
	return &GradeRepository{db: db}
}

const gradeColumns = "id, gradebook_id, grade_type, label, score, total, redo_number, created_at"

// Create inserts a grade entry
func (r *GradeRepository) Create(gradebookID int64, gradeType models.GradeType, label string, score, total float64, redoNumber int) (*models.Grade, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO grades (gradebook_id, grade_type, label, score, total, redo_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	gradeID, err := r.db.ExecReturningID(query, gradebookID, string(gradeType), label, score, total, redoNumber, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create grade: %w", err)
	}

	return &models.Grade{
		ID:          gradeID,
		GradebookID: gradebookID,
		GradeType:   gradeType,
		Label:       label,
		Score:       score,
		Total:       total,
		RedoNumber:  redoNumber,
		CreatedAt:   now,
	}, nil
}

func scanGrades(rows *sql.Rows) ([]models.Grade, error) {
	var grades []models.Grade
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(&g.ID, &g.GradebookID, &g.GradeType, &g.Label, &g.Score, &g.Total, &g.RedoNumber, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// GetByLabel retrieves all attempts recorded under one label in a gradebook,
// ordered by redo_number ascending.
func (r *GradeRepository) GetByLabel(gradebookID int64, label string) ([]models.Grade, error) {
	query := "SELECT " + gradeColumns + " FROM grades WHERE gradebook_id = ? AND label = ? ORDER BY redo_number ASC"
	rows, err := r.db.Query(query, gradebookID, label)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades by label: %w", err)
	}
	defer rows.Close()

	return scanGrades(rows)
}

// GetByType retrieves all grades of one type in a gradebook, ordered by
// label then redo_number, for the report page.
func (r *GradeRepository) GetByType(gradebookID int64, gradeType models.GradeType) ([]models.Grade, error) {
	query := "SELECT " + gradeColumns + " FROM grades WHERE gradebook_id = ? AND grade_type = ? ORDER BY label ASC, redo_number ASC"
	rows, err := r.db.Query(query, gradebookID, string(gradeType))
	if err != nil {
		return nil, fmt.Errorf("failed to query grades by type: %w", err)
	}
	defer rows.Close()

	return scanGrades(rows)
}

// GetLatestByType retrieves the most recently created grade of a type in a
// gradebook, nil when none exists.
func (r *GradeRepository) GetLatestByType(gradebookID int64, gradeType models.GradeType) (*models.Grade, error) {
	query := "SELECT " + gradeColumns + " FROM grades WHERE gradebook_id = ? AND grade_type = ? ORDER BY created_at DESC, id DESC LIMIT 1"
	g := &models.Grade{}
	err := r.db.QueryRow(query, gradebookID, string(gradeType)).Scan(
		&g.ID, &g.GradebookID, &g.GradeType, &g.Label, &g.Score, &g.Total, &g.RedoNumber, &g.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest grade: %w", err)
	}

	return g, nil
}

// UpdateScore overwrites one grade's score, total and timestamp in place
func (r *GradeRepository) UpdateScore(gradeID int64, score, total float64) error {
	query := "UPDATE grades SET score = ?, total = ?, created_at = ? WHERE id = ?"
	if _, err := r.db.Exec(query, score, total, time.Now().UTC(), gradeID); err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	return nil
}

// AttemptExists reports whether a (gradebook, label, redo_number) row already exists
func (r *GradeRepository) AttemptExists(gradebookID int64, label string, redoNumber int) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM grades WHERE gradebook_id = ? AND label = ? AND redo_number = ?"
	if err := r.db.QueryRow(query, gradebookID, label, redoNumber).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check grade existence: %w", err)
	}
	return count > 0, nil
}

// GetAllForExport retrieves every grade joined through gradebook and child,
// in child, gradebook, grade insertion order.
func (r *GradeRepository) GetAllForExport() ([]models.GradeExportRow, error) {
	query := `
		SELECT c.name, gb.name, g.grade_type, g.label, g.score, g.total, g.redo_number, g.created_at
		FROM grades g
		JOIN gradebooks gb ON gb.id = g.gradebook_id
		JOIN children c ON c.id = gb.child_id
		ORDER BY c.id ASC, gb.id ASC, g.id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades for export: %w", err)
	}
	defer rows.Close()

	var exportRows []models.GradeExportRow
	for rows.Next() {
		var row models.GradeExportRow
		if err := rows.Scan(&row.ChildName, &row.Subject, &row.GradeType, &row.Label, &row.Score, &row.Total, &row.RedoNumber, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		exportRows = append(exportRows, row)
	}

	return exportRows, rows.Err()
}
