package handlers

import (
	"gradekeeper/internal/models"
)

// EntryFlash carries the post-redirect success banner on the entry pages
type EntryFlash struct {
	GradebookID string
	Percent     string
	Label       string
	RedoNumber  string
}

type EntryViewData struct {
	Title     string
	GradeType models.GradeType
	Children  []models.ChildEntryContext
	Flash     *EntryFlash
}

type ConfirmViewData struct {
	Title          string
	ChildName      string
	GradebookID    int64
	GradeType      models.GradeType
	Label          string
	Score          string
	Total          string
	CurrentPercent int
	NewPercent     int
	RedoCount      int
}

type GradesViewData struct {
	Title   string
	Reports []models.GradeReport
}

type ChildrenViewData struct {
	Title    string
	Children []models.Child
}

type SettingsViewData struct {
	Title    string
	Children []models.ChildWithCourses
	Flash    string
}
