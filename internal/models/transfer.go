package models

import "time"

// GradeExportRow is one line of the bulk CSV transfer: a grade joined
// through its gradebook and child.
type GradeExportRow struct {
	ChildName  string
	Subject    string
	GradeType  GradeType
	Label      string
	Score      float64
	Total      float64
	RedoNumber int
	CreatedAt  time.Time
}
