package handlers

import (
	"html/template"
	"log"
	"net/http"

	"gradekeeper/internal/service"
)

// ReportHandler renders the per-child grade report page
type ReportHandler struct {
	reports   *service.ReportService
	templates *template.Template
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, templates *template.Template) *ReportHandler {
	return &ReportHandler{reports: reports, templates: templates}
}

// ShowGrades renders the grades overview for every child's active course
func (h *ReportHandler) ShowGrades(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.Reports()
	if err != nil {
		respondWithServiceError(w, "Error building grade reports", err)
		return
	}

	data := GradesViewData{
		Title:   "Grades - GradeKeeper",
		Reports: reports,
	}

	if err := h.templates.ExecuteTemplate(w, "grades.tmpl", data); err != nil {
		log.Printf("Error rendering grades template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
