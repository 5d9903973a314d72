package models

import "time"

// Child represents one child tracked by the household gradebook
type Child struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// ChildWithCourses combines a child with all their gradebooks and the
// currently active one, for the settings page.
type ChildWithCourses struct {
	Child      Child
	Gradebooks []Gradebook
	Active     *Gradebook
}

// ChildEntryContext is one row of the grade entry page: a child, their
// active gradebook, and the suggested number for the next label.
type ChildEntryContext struct {
	Child      Child
	Gradebook  Gradebook
	NextNumber int
}
