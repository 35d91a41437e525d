package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// ValidationResponse is the field-keyed validation report body.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Code   int               `json:"code"`
	Errors map[string]string `json:"errors"`
}

// PartialCascadeResponse reports a delete whose relational half committed
// while one or more blob deletions failed. The listed paths are orphaned.
type PartialCascadeResponse struct {
	Error         string   `json:"error"`
	Code          int      `json:"code"`
	Message       string   `json:"message"`
	OrphanedPaths []string `json:"orphanedPaths"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

// WriteValidation writes a 400 response carrying the field-keyed report.
func WriteValidation(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ValidationResponse{
		Error:  http.StatusText(http.StatusBadRequest),
		Code:   http.StatusBadRequest,
		Errors: fields,
	})
}

// WritePartialCascade writes a 502 response for a delete that committed in
// the relational store but failed blob cleanup.
func WritePartialCascade(w http.ResponseWriter, message string, orphaned []string) {
	WriteJSON(w, http.StatusBadGateway, PartialCascadeResponse{
		Error:         "Partial Cascade Failure",
		Code:          http.StatusBadGateway,
		Message:       message,
		OrphanedPaths: orphaned,
	})
}

// WriteBadRequest writes a 400 Bad Request response
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized")
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error response
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
