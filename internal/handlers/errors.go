package handlers

import (
	"errors"
	"log"
	"net/http"

	"gradekeeper/internal/service"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

// respondWithServiceError maps service failures onto HTTP statuses:
// missing children/gradebooks are the caller's fault, anything else is ours.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Not found", logMsg, err)
		return
	}
	respondWithError(w, http.StatusInternalServerError, "Internal server error", logMsg, err)
}
