package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
	"gradekeeper/internal/repository"
)

// SubmitStatus tells the caller how a submission was handled
type SubmitStatus string

const (
	// StatusCommitted means the grade was persisted immediately
	StatusCommitted SubmitStatus = "committed"
	// StatusNeedsConfirmation means the label already has attempts and a
	// human has to choose between cancel, redo and overwrite
	StatusNeedsConfirmation SubmitStatus = "needs_confirmation"
)

// ConfirmAction resolves a duplicate-label submission
type ConfirmAction string

const (
	ActionCancel    ConfirmAction = "cancel"
	ActionRedo      ConfirmAction = "redo"
	ActionOverwrite ConfirmAction = "overwrite"
)

// SubmitResult reports the outcome of a grade submission
type SubmitResult struct {
	Status  SubmitStatus
	Percent int // set when Status is StatusCommitted

	// Set when Status is StatusNeedsConfirmation
	CurrentPercent int
	NewPercent     int
	RedoCount      int
}

// ConfirmResult reports the outcome of a confirmation decision
type ConfirmResult struct {
	Committed  bool
	Percent    int
	RedoNumber int
}

// GradeService owns grade entry: numbering inference and the two-phase
// submit/confirm reconciliation of duplicate labels.
type GradeService struct {
	db     *database.DB
	roster *RosterService
}

// NewGradeService creates a new grade service
func NewGradeService(db *database.DB, roster *RosterService) *GradeService {
	return &GradeService{db: db, roster: roster}
}

// NextLabelNumber suggests the number for the next homework or test label in
// a gradebook: the trailing number of the most recently created entry plus
// one, or 1 when there is no usable previous label.
func (s *GradeService) NextLabelNumber(gradebookID int64, gradeType models.GradeType) (int, error) {
	last, err := repository.NewGradeRepository(s.db).GetLatestByType(gradebookID, gradeType)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 1, nil
	}
	return nextNumberFromLabel(last.Label), nil
}

// nextNumberFromLabel parses the trailing token of a label as an integer and
// returns it plus one. Any label that doesn't end in a number yields 1.
func nextNumberFromLabel(label string) int {
	parts := strings.Fields(label)
	if len(parts) == 0 {
		return 1
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 1
	}
	return n + 1
}

// ChildrenForEntry builds the grade entry page rows: every child with at
// least one course, their active gradebook, and the suggested next number
// for the given type.
func (s *GradeService) ChildrenForEntry(gradeType models.GradeType) ([]models.ChildEntryContext, error) {
	children, err := s.roster.ListChildren()
	if err != nil {
		return nil, err
	}

	var result []models.ChildEntryContext
	for _, child := range children {
		gradebook, err := s.roster.EnsureActive(child.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		nextNum, err := s.NextLabelNumber(gradebook.ID, gradeType)
		if err != nil {
			return nil, err
		}

		result = append(result, models.ChildEntryContext{
			Child:      child,
			Gradebook:  *gradebook,
			NextNumber: nextNum,
		})
	}

	return result, nil
}

// Submit records a new grade. A label never seen before in the gradebook is
// persisted immediately with redo number 0. A label that already has
// attempts persists nothing and instead asks the caller for a decision.
func (s *GradeService) Submit(gradebookID int64, gradeType models.GradeType, label string, score, total float64) (*SubmitResult, error) {
	if err := s.requireGradebook(gradebookID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	gradeRepo := repository.NewGradeRepository(tx)

	existing, err := gradeRepo.GetByLabel(gradebookID, label)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		// Most recent attempt is the one with the highest redo number
		current := existing[len(existing)-1]
		return &SubmitResult{
			Status:         StatusNeedsConfirmation,
			CurrentPercent: current.Percent(),
			NewPercent:     models.Percent(score, total),
			RedoCount:      len(existing),
		}, nil
	}

	if _, err := gradeRepo.Create(gradebookID, gradeType, label, score, total, 0); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &SubmitResult{
		Status:  StatusCommitted,
		Percent: models.Percent(score, total),
	}, nil
}

// Confirm applies the human decision for a duplicate-label submission.
func (s *GradeService) Confirm(gradebookID int64, gradeType models.GradeType, label string, score, total float64, action ConfirmAction) (*ConfirmResult, error) {
	if action == ActionCancel {
		return &ConfirmResult{Committed: false}, nil
	}

	if err := s.requireGradebook(gradebookID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	gradeRepo := repository.NewGradeRepository(tx)

	existing, err := gradeRepo.GetByLabel(gradebookID, label)
	if err != nil {
		return nil, err
	}

	var result *ConfirmResult

	switch action {
	case ActionRedo:
		// The redo number is the count of existing attempts, not the stored
		// maximum plus one; the two only differ when overwrites left gaps.
		redoNumber := len(existing)
		if _, err := gradeRepo.Create(gradebookID, gradeType, label, score, total, redoNumber); err != nil {
			return nil, err
		}
		result = &ConfirmResult{
			Committed:  true,
			Percent:    models.Percent(score, total),
			RedoNumber: redoNumber,
		}

	case ActionOverwrite:
		if len(existing) == 0 {
			return nil, fmt.Errorf("no attempt to overwrite for label %q: %w", label, ErrNotFound)
		}
		latest := existing[len(existing)-1]
		if err := gradeRepo.UpdateScore(latest.ID, score, total); err != nil {
			return nil, err
		}
		result = &ConfirmResult{
			Committed:  true,
			Percent:    models.Percent(score, total),
			RedoNumber: latest.RedoNumber,
		}

	default:
		return nil, fmt.Errorf("unknown confirm action %q", action)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

func (s *GradeService) requireGradebook(gradebookID int64) error {
	gb, err := repository.NewGradebookRepository(s.db).GetByID(gradebookID)
	if err != nil {
		return err
	}
	if gb == nil {
		return fmt.Errorf("gradebook %d: %w", gradebookID, ErrNotFound)
	}
	return nil
}
