package models

import "time"

// Default values applied when a gradebook is created without explicit settings
const (
	DefaultCourseName    = "Math"
	DefaultHomeworkTotal = 30
	DefaultTestTotal     = 20
)

// Gradebook represents a per-child course: a named container for grades.
// At most one gradebook per child is active at a time.
type Gradebook struct {
	ID            int64
	ChildID       int64
	Name          string
	HomeworkTotal int
	TestTotal     int
	IsActive      bool
	CreatedAt     time.Time
}
