package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"gradekeeper/internal/service"
)

// RosterHandler handles the children and settings pages
type RosterHandler struct {
	roster    *service.RosterService
	templates *template.Template
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(roster *service.RosterService, templates *template.Template) *RosterHandler {
	return &RosterHandler{roster: roster, templates: templates}
}

// ShowChildren renders the children management page
func (h *RosterHandler) ShowChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.roster.ListChildren()
	if err != nil {
		respondWithServiceError(w, "Error listing children", err)
		return
	}

	data := ChildrenViewData{
		Title:    "Children - GradeKeeper",
		Children: children,
	}

	if err := h.templates.ExecuteTemplate(w, "children.tmpl", data); err != nil {
		log.Printf("Error rendering children template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// CreateChild adds a child with their default Math course
func (h *RosterHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name != "" {
		if _, err := h.roster.CreateChild(name); err != nil {
			respondWithServiceError(w, "Error creating child", err)
			return
		}
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// DeleteChild removes a child and everything they own
func (h *RosterHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid child ID", http.StatusBadRequest)
		return
	}

	if err := h.roster.DeleteChild(childID); err != nil {
		respondWithServiceError(w, "Error deleting child", err)
		return
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// ShowSettings renders the settings page with every child's courses
func (h *RosterHandler) ShowSettings(w http.ResponseWriter, r *http.Request) {
	children, err := h.roster.ChildrenWithCourses()
	if err != nil {
		respondWithServiceError(w, "Error loading settings", err)
		return
	}

	data := SettingsViewData{
		Title:    "Settings - GradeKeeper",
		Children: children,
		Flash:    r.URL.Query().Get("flash"),
	}

	if err := h.templates.ExecuteTemplate(w, "settings.tmpl", data); err != nil {
		log.Printf("Error rendering settings template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ActivateCourse makes a course the child's active one
func (h *RosterHandler) ActivateCourse(w http.ResponseWriter, r *http.Request) {
	gradebookID, err := parsePathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	if err := h.roster.SetActiveCourse(gradebookID); err != nil {
		respondWithServiceError(w, "Error activating course", err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// AddCourse adds a course for a child
func (h *RosterHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	childID, err := parsePathID(r, "childId")
	if err != nil {
		http.Error(w, "Invalid child ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if err := h.roster.AddCourse(childID, r.FormValue("course_name")); err != nil {
		respondWithServiceError(w, "Error adding course", err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// RenameCourse renames a course
func (h *RosterHandler) RenameCourse(w http.ResponseWriter, r *http.Request) {
	gradebookID, err := parsePathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if err := h.roster.RenameCourse(gradebookID, r.FormValue("new_name")); err != nil {
		respondWithServiceError(w, "Error renaming course", err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// DeleteCourse removes a course unless it is the child's only one
func (h *RosterHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	gradebookID, err := parsePathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	if err := h.roster.DeleteCourse(gradebookID); err != nil {
		respondWithServiceError(w, "Error deleting course", err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// UpdateTotals updates a course's default homework and test totals.
// Blank fields leave the current values unchanged.
func (h *RosterHandler) UpdateTotals(w http.ResponseWriter, r *http.Request) {
	gradebookID, err := parsePathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	homeworkTotal := parseOptionalInt(r.FormValue("homework_total"))
	testTotal := parseOptionalInt(r.FormValue("test_total"))

	if err := h.roster.UpdateCourseTotals(gradebookID, homeworkTotal, testTotal); err != nil {
		respondWithServiceError(w, "Error updating totals", err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// parseOptionalInt returns nil for blank or non-numeric input
func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
