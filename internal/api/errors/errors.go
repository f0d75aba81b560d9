// Package errors provides the response envelope and error codes for the admin API.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
)

// Error codes carried in the envelope's error_code field.
const (
	CodeFetchSigningLog    = "error-fetch-signinglog"
	CodeInvalidSigningLog  = "error-invalid-signinglog"
	CodeDeletingSigningLog = "error-deleting-signinglog"
	CodeAuth               = "error-auth"
	CodeInternalError      = "internal-error"
)

// Subcodes narrow an error code down.
const (
	SubcodeNotFound = "not-found"
	SubcodeBadID    = "bad-id"
	SubcodeExpired  = "token-expired"
	SubcodeMissing  = "missing-credentials"
)

// Envelope is the wrapper every admin API response is sent in.
type Envelope struct {
	Success      bool   `json:"success"`
	ErrorCode    string `json:"error_code"`
	ErrorSubcode string `json:"error_subcode"`
	Message      string `json:"message"`
}

// APIError is a failed request ready to be written as an envelope.
type APIError struct {
	Status  int
	Code    string
	Subcode string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Subcode != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Subcode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Envelope returns the failure envelope for the error.
func (e *APIError) Envelope() Envelope {
	return Envelope{
		Success:      false,
		ErrorCode:    e.Code,
		ErrorSubcode: e.Subcode,
		Message:      e.Message,
	}
}

// New creates a new APIError.
func New(status int, code, subcode, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Subcode: subcode,
		Message: message,
	}
}

// NewBadRequest creates a 400 error.
func NewBadRequest(code, subcode, message string) *APIError {
	return New(http.StatusBadRequest, code, subcode, message)
}

// NewNotFound creates a 404 error.
func NewNotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, SubcodeNotFound, message)
}

// NewUnauthorized creates a 401 error.
func NewUnauthorized(subcode, message string) *APIError {
	return New(http.StatusUnauthorized, CodeAuth, subcode, message)
}

// NewInternalError creates a 500 error.
func NewInternalError(code, message string) *APIError {
	return New(http.StatusInternalServerError, code, "", message)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an APIError as an envelope.
func WriteError(w http.ResponseWriter, err *APIError) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, err.Envelope())
}

// GetStackTrace returns the current stack trace as a string.
func GetStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
