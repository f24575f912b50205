package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/movie-catalog/internal/auth"
	"github.com/nerrad567/movie-catalog/internal/crud"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps err onto a status code and writes it. Errors that are
// not domain errors are logged and rendered as 500 without detail.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, ErrCodeForbidden, "insufficient permissions")
	case errors.Is(err, auth.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "token has expired")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid token")
	case errors.Is(err, crud.ErrInvalidArgument):
		writeBadRequest(w, crud.Message(err))
	case errors.Is(err, crud.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, crud.Message(err))
	case errors.Is(err, crud.ErrConflict):
		writeError(w, http.StatusConflict, ErrCodeConflict, crud.Message(err))
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
		writeInternalError(w, "internal server error")
	}
}
