// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding/decoding, and request parsing.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tackboard/tack/pkg/account"
	"github.com/tackboard/tack/pkg/auth"
	"github.com/tackboard/tack/pkg/board"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteErrorMessage(w, status, err.Error())
}

// WriteErrorMessage writes a JSON error response with a custom message
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// WriteCreated writes a successful creation response (201 Created) with JSON data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteBadRequest writes a bad request error (400)
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes an unauthorized error (401)
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a forbidden error (403)
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusForbidden, message)
}

// WriteTooManyRequests writes a rate limit error (429)
func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusTooManyRequests, message)
}

// WriteServiceError translates the service error taxonomy into HTTP
// statuses. Anything outside the taxonomy is reported as a 500 with a
// generic message so internals never leak to clients.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board.ErrValidation):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, auth.ErrInvalidToken):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, account.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, err)
	case errors.Is(err, board.ErrForbidden):
		WriteError(w, http.StatusForbidden, err)
	case errors.Is(err, board.ErrNotFound):
		WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, board.ErrAlreadyExists), errors.Is(err, board.ErrOwnerCannotBeMember):
		WriteError(w, http.StatusConflict, err)
	case errors.Is(err, board.ErrAlreadyMember):
		// already-a-member is an idempotency outcome, not a failure
		WriteError(w, http.StatusAlreadyReported, err)
	case errors.Is(err, board.ErrUnchanged):
		WriteError(w, http.StatusOK, err)
	default:
		WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
