package service

import (
	"fmt"
	"strings"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
	"gradekeeper/internal/repository"
)

// RosterService manages children and their courses
type RosterService struct {
	db *database.DB
}

// NewRosterService creates a new roster service
func NewRosterService(db *database.DB) *RosterService {
	return &RosterService{db: db}
}

// CreateChild adds a child together with their default active Math course,
// in one transaction.
func (s *RosterService) CreateChild(name string) (*models.Child, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	child, err := repository.NewChildRepository(tx).Create(name)
	if err != nil {
		return nil, err
	}

	if _, err := repository.NewGradebookRepository(tx).Create(child.ID, models.DefaultCourseName, true); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return child, nil
}

// DeleteChild removes a child; courses and grades cascade away with it
func (s *RosterService) DeleteChild(childID int64) error {
	childRepo := repository.NewChildRepository(s.db)

	child, err := childRepo.GetByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("child %d: %w", childID, ErrNotFound)
	}

	return childRepo.Delete(childID)
}

// ListChildren returns all children in insertion order
func (s *RosterService) ListChildren() ([]models.Child, error) {
	return repository.NewChildRepository(s.db).GetAll()
}

// EnsureActive returns the child's active gradebook, repairing the invariant
// when no course is marked active by activating the child's first course.
// Returns ErrNotFound when the child has no courses at all.
func (s *RosterService) EnsureActive(childID int64) (*models.Gradebook, error) {
	gbRepo := repository.NewGradebookRepository(s.db)

	active, err := gbRepo.GetActiveForChild(childID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return active, nil
	}

	first, err := gbRepo.GetFirstForChild(childID)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("no courses for child %d: %w", childID, ErrNotFound)
	}

	if err := gbRepo.SetActive(first.ID); err != nil {
		return nil, err
	}
	first.IsActive = true
	return first, nil
}

// ChildrenWithCourses returns every child that has courses, with the active
// course resolved, for the settings page.
func (s *RosterService) ChildrenWithCourses() ([]models.ChildWithCourses, error) {
	children, err := s.ListChildren()
	if err != nil {
		return nil, err
	}

	gbRepo := repository.NewGradebookRepository(s.db)

	var result []models.ChildWithCourses
	for _, child := range children {
		gradebooks, err := gbRepo.GetByChild(child.ID)
		if err != nil {
			return nil, err
		}
		if len(gradebooks) == 0 {
			continue
		}

		active, err := s.EnsureActive(child.ID)
		if err != nil {
			return nil, err
		}

		// Reflect the repair in the slice we hand to the caller
		for i := range gradebooks {
			gradebooks[i].IsActive = gradebooks[i].ID == active.ID
		}

		result = append(result, models.ChildWithCourses{
			Child:      child,
			Gradebooks: gradebooks,
			Active:     active,
		})
	}

	return result, nil
}

// CourseOwner resolves a gradebook together with the child who owns it
func (s *RosterService) CourseOwner(gradebookID int64) (*models.Child, *models.Gradebook, error) {
	gb, err := repository.NewGradebookRepository(s.db).GetByID(gradebookID)
	if err != nil {
		return nil, nil, err
	}
	if gb == nil {
		return nil, nil, fmt.Errorf("gradebook %d: %w", gradebookID, ErrNotFound)
	}

	child, err := repository.NewChildRepository(s.db).GetByID(gb.ChildID)
	if err != nil {
		return nil, nil, err
	}
	if child == nil {
		return nil, nil, fmt.Errorf("child %d: %w", gb.ChildID, ErrNotFound)
	}

	return child, gb, nil
}

// SetActiveCourse marks one course active and deactivates its siblings,
// in one transaction.
func (s *RosterService) SetActiveCourse(gradebookID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	gbRepo := repository.NewGradebookRepository(tx)

	gb, err := gbRepo.GetByID(gradebookID)
	if err != nil {
		return err
	}
	if gb == nil {
		return fmt.Errorf("gradebook %d: %w", gradebookID, ErrNotFound)
	}

	if err := gbRepo.DeactivateAllForChild(gb.ChildID); err != nil {
		return err
	}
	if err := gbRepo.SetActive(gradebookID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddCourse creates an inactive course for a child. A duplicate name for the
// same child is silently refused so retries stay idempotent.
func (s *RosterService) AddCourse(childID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	childRepo := repository.NewChildRepository(s.db)
	child, err := childRepo.GetByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("child %d: %w", childID, ErrNotFound)
	}

	gbRepo := repository.NewGradebookRepository(s.db)
	existing, err := gbRepo.GetByChildAndName(childID, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = gbRepo.Create(childID, name, false)
	return err
}

// RenameCourse renames a course. A name already used by a sibling course is
// silently refused.
func (s *RosterService) RenameCourse(gradebookID int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil
	}

	gbRepo := repository.NewGradebookRepository(s.db)

	gb, err := gbRepo.GetByID(gradebookID)
	if err != nil {
		return err
	}
	if gb == nil {
		return fmt.Errorf("gradebook %d: %w", gradebookID, ErrNotFound)
	}

	existing, err := gbRepo.GetByChildAndName(gb.ChildID, newName)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != gradebookID {
		return nil
	}

	return gbRepo.Rename(gradebookID, newName)
}

// DeleteCourse removes a course and its grades. Deleting a child's only
// course is silently refused; deleting the active course promotes another.
func (s *RosterService) DeleteCourse(gradebookID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	gbRepo := repository.NewGradebookRepository(tx)

	gb, err := gbRepo.GetByID(gradebookID)
	if err != nil {
		return err
	}
	if gb == nil {
		return fmt.Errorf("gradebook %d: %w", gradebookID, ErrNotFound)
	}

	count, err := gbRepo.CountForChild(gb.ChildID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return nil
	}

	if err := gbRepo.Delete(gradebookID); err != nil {
		return err
	}

	if gb.IsActive {
		next, err := gbRepo.GetFirstForChild(gb.ChildID)
		if err != nil {
			return err
		}
		if next != nil {
			if err := gbRepo.SetActive(next.ID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateCourseTotals sets the default homework and test totals for a course.
// A nil value leaves the current setting unchanged.
func (s *RosterService) UpdateCourseTotals(gradebookID int64, homeworkTotal, testTotal *int) error {
	gbRepo := repository.NewGradebookRepository(s.db)

	gb, err := gbRepo.GetByID(gradebookID)
	if err != nil {
		return err
	}
	if gb == nil {
		return fmt.Errorf("gradebook %d: %w", gradebookID, ErrNotFound)
	}

	hw := gb.HomeworkTotal
	if homeworkTotal != nil {
		hw = *homeworkTotal
	}
	test := gb.TestTotal
	if testTotal != nil {
		test = *testTotal
	}

	return gbRepo.UpdateTotals(gradebookID, hw, test)
}
