// Package httpx holds the JSON request/response conventions shared by every
// HTTP handler.
package httpx

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/pelicanmedia/pelican/pkg/errors"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the body of confirmation-only responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a confirmation body with the given status.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}

// Error writes err as a JSON error response, mapping its classification to
// an HTTP status. Duplicate watchlist adds and other conflicts answer 400,
// matching what API clients already branch on.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusOf(err), ErrorResponse{Message: errors.Message(err)})
}

// StatusOf maps an error classification to its HTTP status.
func StatusOf(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeBadRequest, errors.ErrorTypeConflict:
		return http.StatusBadRequest
	case errors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrorTypeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads the request body as JSON into v. A body that does not parse
// is a bad request.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}
