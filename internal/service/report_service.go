package service

import (
	"errors"
	"fmt"

	"gradekeeper/internal/database"
	"gradekeeper/internal/models"
	"gradekeeper/internal/repository"
)

// ReportService computes per-child grade reports over the active gradebook
type ReportService struct {
	db     *database.DB
	roster *RosterService
}

// NewReportService creates a new report service
func NewReportService(db *database.DB, roster *RosterService) *ReportService {
	return &ReportService{db: db, roster: roster}
}

// ReportForChild builds the grade report for one child's active gradebook
func (s *ReportService) ReportForChild(childID int64) (*models.GradeReport, error) {
	child, err := repository.NewChildRepository(s.db).GetByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, fmt.Errorf("child %d: %w", childID, ErrNotFound)
	}

	gradebook, err := s.roster.EnsureActive(childID)
	if err != nil {
		return nil, err
	}

	gradeRepo := repository.NewGradeRepository(s.db)

	homework, err := gradeRepo.GetByType(gradebook.ID, models.GradeTypeHomework)
	if err != nil {
		return nil, err
	}
	tests, err := gradeRepo.GetByType(gradebook.ID, models.GradeTypeTest)
	if err != nil {
		return nil, err
	}

	homeworkAvg := averagePercent(homework)
	testAvg := averagePercent(tests)

	return &models.GradeReport{
		Child:       *child,
		Gradebook:   *gradebook,
		Homework:    homework,
		Tests:       tests,
		HomeworkAvg: homeworkAvg,
		TestAvg:     testAvg,
		TotalAvg:    combineAverages(homeworkAvg, testAvg),
	}, nil
}

// Reports builds reports for every child that has courses
func (s *ReportService) Reports() ([]models.GradeReport, error) {
	children, err := s.roster.ListChildren()
	if err != nil {
		return nil, err
	}

	var reports []models.GradeReport
	for _, child := range children {
		report, err := s.ReportForChild(child.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	return reports, nil
}

// averagePercent is the arithmetic mean percentage over every attempt,
// redos included. Counting each attempt is deliberate: a retaken lesson
// keeps dragging the average instead of being hidden by its latest score.
// Returns nil for an empty slice.
func averagePercent(grades []models.Grade) *float64 {
	if len(grades) == 0 {
		return nil
	}
	sum := 0.0
	for _, g := range grades {
		sum += g.Score / g.Total * 100
	}
	avg := sum / float64(len(grades))
	return &avg
}

// combineAverages is the mean of both averages when both exist, otherwise
// whichever one exists, otherwise nil.
func combineAverages(homeworkAvg, testAvg *float64) *float64 {
	switch {
	case homeworkAvg != nil && testAvg != nil:
		total := (*homeworkAvg + *testAvg) / 2
		return &total
	case homeworkAvg != nil:
		v := *homeworkAvg
		return &v
	case testAvg != nil:
		v := *testAvg
		return &v
	default:
		return nil
	}
}
