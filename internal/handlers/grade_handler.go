package handlers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"gradekeeper/internal/models"
	"gradekeeper/internal/service"
)

// GradeHandler handles grade entry and the duplicate-label confirm flow
type GradeHandler struct {
	grades    *service.GradeService
	roster    *service.RosterService
	templates *template.Template
}

// NewGradeHandler creates a new grade handler
func NewGradeHandler(grades *service.GradeService, roster *service.RosterService, templates *template.Template) *GradeHandler {
	return &GradeHandler{grades: grades, roster: roster, templates: templates}
}

// ShowHomework renders the homework entry page
func (h *GradeHandler) ShowHomework(w http.ResponseWriter, r *http.Request) {
	h.showEntry(w, r, models.GradeTypeHomework, "Homework - GradeKeeper")
}

// ShowTests renders the test entry page
func (h *GradeHandler) ShowTests(w http.ResponseWriter, r *http.Request) {
	h.showEntry(w, r, models.GradeTypeTest, "Tests - GradeKeeper")
}

func (h *GradeHandler) showEntry(w http.ResponseWriter, r *http.Request, gradeType models.GradeType, title string) {
	children, err := h.grades.ChildrenForEntry(gradeType)
	if err != nil {
		respondWithServiceError(w, "Error building entry page", err)
		return
	}

	data := EntryViewData{
		Title:     title,
		GradeType: gradeType,
		Children:  children,
		Flash:     entryFlashFromQuery(r),
	}

	if err := h.templates.ExecuteTemplate(w, "entry.tmpl", data); err != nil {
		log.Printf("Error rendering entry template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// entryFlashFromQuery reads the post-redirect success banner parameters
func entryFlashFromQuery(r *http.Request) *EntryFlash {
	q := r.URL.Query()
	if q.Get("success") == "" {
		return nil
	}
	return &EntryFlash{
		GradebookID: q.Get("success"),
		Percent:     q.Get("pct"),
		Label:       q.Get("label"),
		RedoNumber:  q.Get("redo"),
	}
}

// AddGrade handles a grade submission. First-time labels commit and redirect
// with a success banner; duplicate labels render the confirm page instead.
func (h *GradeHandler) AddGrade(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	gradebookIDStr := r.FormValue("gradebook_id")
	gradeType := models.GradeType(r.FormValue("grade_type"))
	labelPrefix := r.FormValue("label_prefix")
	labelNum := r.FormValue("label_num")
	scoreStr := r.FormValue("score")
	totalStr := r.FormValue("total")

	redirectTo := entryPath(gradeType)

	// A missing field means nothing is persisted, just go back
	if gradebookIDStr == "" || !gradeType.Valid() || labelPrefix == "" || labelNum == "" || scoreStr == "" || totalStr == "" {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	gradebookID, err := strconv.ParseInt(gradebookIDStr, 10, 64)
	if err != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	total, err := strconv.ParseFloat(totalStr, 64)
	if err != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	label := labelPrefix + " " + labelNum

	result, err := h.grades.Submit(gradebookID, gradeType, label, score, total)
	if err != nil {
		respondWithServiceError(w, "Error submitting grade", err)
		return
	}

	if result.Status == service.StatusNeedsConfirmation {
		child, _, err := h.roster.CourseOwner(gradebookID)
		if err != nil {
			respondWithServiceError(w, "Error loading confirm page", err)
			return
		}

		data := ConfirmViewData{
			Title:          "Confirm Grade - GradeKeeper",
			ChildName:      child.Name,
			GradebookID:    gradebookID,
			GradeType:      gradeType,
			Label:          label,
			Score:          scoreStr,
			Total:          totalStr,
			CurrentPercent: result.CurrentPercent,
			NewPercent:     result.NewPercent,
			RedoCount:      result.RedoCount,
		}
		if err := h.templates.ExecuteTemplate(w, "confirm_grade.tmpl", data); err != nil {
			log.Printf("Error rendering confirm template: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, successURL(redirectTo, gradebookIDStr, result.Percent, label, nil), http.StatusSeeOther)
}

// ConfirmGrade applies the decision from the confirm page
func (h *GradeHandler) ConfirmGrade(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	action := service.ConfirmAction(r.FormValue("action"))
	gradebookIDStr := r.FormValue("gradebook_id")
	gradeType := models.GradeType(r.FormValue("grade_type"))
	label := r.FormValue("label")
	scoreStr := r.FormValue("score")
	totalStr := r.FormValue("total")

	redirectTo := entryPath(gradeType)

	if action == service.ActionCancel {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	gradebookID, err := strconv.ParseInt(gradebookIDStr, 10, 64)
	if err != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}
	total, err := strconv.ParseFloat(totalStr, 64)
	if err != nil {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	result, err := h.grades.Confirm(gradebookID, gradeType, label, score, total, action)
	if err != nil {
		respondWithServiceError(w, "Error confirming grade", err)
		return
	}
	if !result.Committed {
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		return
	}

	var redo *int
	if action == service.ActionRedo {
		redo = &result.RedoNumber
	}
	http.Redirect(w, r, successURL(redirectTo, gradebookIDStr, result.Percent, label, redo), http.StatusSeeOther)
}

// entryPath maps a grade type to its entry page
func entryPath(gradeType models.GradeType) string {
	if gradeType == models.GradeTypeTest {
		return "/tests"
	}
	return "/"
}

// successURL builds the post-redirect URL carrying the success banner
func successURL(path, gradebookID string, percent int, label string, redo *int) string {
	params := url.Values{}
	params.Set("success", gradebookID)
	params.Set("pct", strconv.Itoa(percent))
	params.Set("label", label)
	if redo != nil {
		params.Set("redo", strconv.Itoa(*redo))
	}
	return fmt.Sprintf("%s?%s", path, params.Encode())
}
