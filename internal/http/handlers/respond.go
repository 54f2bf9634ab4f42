package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kisanmitra/server/internal/model"
)

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]string{"error": message}
	_ = json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusForError maps domain errors to HTTP status codes. Ownership
// failures read as not-found on purpose.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidPhone),
		errors.Is(err, model.ErrInvalidOTP),
		errors.Is(err, model.ErrOTPExpired),
		errors.Is(err, model.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAIUnavailable),
		errors.Is(err, model.ErrTTSUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError sends the mapped status with the domain error message,
// hiding internal details behind a generic message for 500s.
func respondDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	respondWithError(w, status, message)
}
