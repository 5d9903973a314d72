package models

import (
	"math"
	"time"
)

// GradeType distinguishes homework entries from test entries
type GradeType string

const (
	GradeTypeHomework GradeType = "homework"
	GradeTypeTest     GradeType = "test"
)

// Valid reports whether the type is one of the two known kinds
func (t GradeType) Valid() bool {
	return t == GradeTypeHomework || t == GradeTypeTest
}

// Grade represents a single scored entry in a gradebook. RedoNumber 0 is the
// original attempt; retakes of the same label get 1, 2, and so on. Rows are
// immutable after creation except for the explicit overwrite path, which
// updates score, total and created_at of the latest attempt in place.
type Grade struct {
	ID          int64
	GradebookID int64
	GradeType   GradeType
	Label       string
	Score       float64
	Total       float64
	RedoNumber  int
	CreatedAt   time.Time
}

// Percent returns the entry's score as a whole-number percentage,
// rounded half away from zero.
func (g Grade) Percent() int {
	return Percent(g.Score, g.Total)
}

// Percent computes round(score/total*100)
func Percent(score, total float64) int {
	return int(math.Round(score / total * 100))
}

// GradeReport holds everything the grades page shows for one child's
// active gradebook. Averages are nil when no entries of that kind exist.
type GradeReport struct {
	Child       Child
	Gradebook   Gradebook
	Homework    []Grade
	Tests       []Grade
	HomeworkAvg *float64
	TestAvg     *float64
	TotalAvg    *float64
}
