// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the JSON error envelope. Handlers map store-level
// sentinel errors onto these before writing a response.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeProfileNotFound = "profile_not_found"
	CodeNotFound        = "not_found"
	CodeValidation      = "validation_error"
	CodeConflict        = "conflict"
	CodeStorage         = "storage_error"
	CodeRateLimited     = "rate_limited"
)

// envelope is the wire shape of every error response:
//
//	{ "error": { "code": "validation_error", "message": "title is required" } }
type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write sends a JSON error envelope with the given status, code, and message.
func Write(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: body{Code: code, Message: message}})
}

// WriteUnauthenticated sends a 401 with the unauthenticated code.
func WriteUnauthenticated(w http.ResponseWriter) {
	Write(w, http.StatusUnauthorized, CodeUnauthenticated, "sign in required")
}

// WriteForbidden sends a 403 with the forbidden code.
func WriteForbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "you don't have permission to do this"
	}
	Write(w, http.StatusForbidden, CodeForbidden, message)
}

// WriteProfileNotFound sends a 403 indicating the signed-in user has no
// profile yet. The frontend routes this to profile creation.
func WriteProfileNotFound(w http.ResponseWriter) {
	Write(w, http.StatusForbidden, CodeProfileNotFound, "profile not found")
}

// WriteNotFound sends a 404.
func WriteNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not found"
	}
	Write(w, http.StatusNotFound, CodeNotFound, message)
}

// WriteValidation sends a 400 with the validation_error code.
func WriteValidation(w http.ResponseWriter, message string) {
	Write(w, http.StatusBadRequest, CodeValidation, message)
}

// WriteConflict sends a 409 with the conflict code.
func WriteConflict(w http.ResponseWriter, message string) {
	Write(w, http.StatusConflict, CodeConflict, message)
}

// WriteRateLimited sends a 429.
func WriteRateLimited(w http.ResponseWriter, message string) {
	if message == "" {
		message = "too many requests; please wait and try again"
	}
	Write(w, http.StatusTooManyRequests, CodeRateLimited, message)
}
