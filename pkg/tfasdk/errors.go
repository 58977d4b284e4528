package tfasdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/twofactor/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeUnknownProvider = "unknown_provider"
	ErrorCodeNotEnrolled     = "not_enrolled"
	ErrorCodeInvalidToken    = "invalid_token"
	ErrorCodeInvalidAPIKey   = "invalid_api_key"
	ErrorCodeRemoteFailure   = "remote_failure"
	ErrorCodeServerError     = "server_error"
)

// APIError is the error shape every endpoint returns. It implements the
// error interface so the SDK client can hand it back directly, and the
// server uses WriteError to emit it.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy of the error carrying a specific
// description.
func (e *APIError) WithDescription(desc string) *APIError {
	out := *e
	out.Description = desc
	return &out
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrUnknownProvider = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUnknownProvider,
		Description: "no two-factor provider with that id is registered",
	}

	ErrNotEnrolled = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotEnrolled,
		Description: "the user is not enrolled in two-factor authentication",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the submitted token was not accepted",
	}

	ErrInvalidAPIKey = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidAPIKey,
		Description: "the API key was rejected by the remote service",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an internal error occurred",
	}
)
