package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gradekeeper/internal/service"
)

// maxImportSize caps uploaded CSV files at 5MB
const maxImportSize = 5 << 20

// TransferHandler handles CSV download and upload
type TransferHandler struct {
	transfer *service.TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transfer *service.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// ExportCSV streams every grade as a CSV attachment
func (h *TransferHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=gradebook_export.csv")

	if err := h.transfer.Export(w); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error exporting grades", err)
	}
}

// ImportCSV reads an uploaded CSV and imports the grade rows it contains.
// The outcome, success or failure, lands back on the settings page as a
// flash message.
func (h *TransferHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		redirectWithFlash(w, r, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		redirectWithFlash(w, r, "No file selected")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		redirectWithFlash(w, r, "Please upload a CSV file")
		return
	}

	imported, err := h.transfer.Import(file)
	if err != nil {
		redirectWithFlash(w, r, fmt.Sprintf("Error importing file: %v", err))
		return
	}

	redirectWithFlash(w, r, fmt.Sprintf("Imported %d grades", imported))
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/settings?flash="+url.QueryEscape(msg), http.StatusSeeOther)
}
