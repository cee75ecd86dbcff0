package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/harborline/accountd/pkg/httpx"
)

// Error codes returned by the account service.
const (
	ErrorCodeInvalidRequest        = "invalid_request"
	ErrorCodeValidation            = "validation_error"
	ErrorCodeDuplicateEmail        = "duplicate_email"
	ErrorCodeInvalidCredentials    = "invalid_credentials"
	ErrorCodeNotVerified           = "not_verified"
	ErrorCodeInvalidOrExpiredToken = "invalid_or_expired_token"
	ErrorCodeIncorrectPassword     = "incorrect_password"
	ErrorCodeNotAuthorized         = "not_authorized"
	ErrorCodeNotFound              = "not_found"
	ErrorCodeServerError           = "server_error"
)

// APIError is a typed error response. It implements the error interface and
// is shared by the server handlers (to write responses) and SDK clients
// (to represent them).
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

// Error implements the error interface.
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

var (
	// ErrInvalidRequest is returned for malformed bodies or missing
	// required parameters.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrDuplicateEmail is returned when a registration collides with an
	// existing account in the same namespace.
	ErrDuplicateEmail = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateEmail,
		Description: "an account with this email already exists",
	}

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrNotVerified is returned when credentials match but the account has
	// not completed verification.
	ErrNotVerified = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeNotVerified,
		Description: "account is not verified",
	}

	// ErrInvalidOrExpiredToken covers missing, expired, and already
	// consumed one-time tokens, deliberately indistinguishable.
	ErrInvalidOrExpiredToken = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidOrExpiredToken,
		Description: "token is invalid or has expired",
	}

	// ErrIncorrectPassword is returned when the current password check on a
	// password change fails. The caller is already authenticated, so this
	// may be surfaced distinctly.
	ErrIncorrectPassword = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeIncorrectPassword,
		Description: "current password is incorrect",
	}

	// ErrNotAuthorized is returned when the session is missing or carries
	// the wrong role for the target operation.
	ErrNotAuthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeNotAuthorized,
		Description: "not authorized",
	}

	// ErrNotFound is returned when the target account does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "account not found",
	}

	// ErrServerError is returned for store or downstream failures. Detail
	// stays in the server logs.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewValidationError builds a 400 validation response with per-field detail.
func NewValidationError(details map[string]string) *ValidationErrorResponse {
	return &ValidationErrorResponse{
		Code:    ErrorCodeValidation,
		Message: "request validation failed",
		Details: details,
	}
}

// ValidationErrorResponse carries field-specific validation failures.
type ValidationErrorResponse struct {
	// Code is always "validation_error".
	Code string `json:"code"`

	// Message is a human-readable summary.
	Message string `json:"message"`

	// Details maps field name to the violation for that field.
	Details map[string]string `json:"details,omitempty"`
}

// WriteError writes the validation response with a 400 status.
func (e *ValidationErrorResponse) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, e)
}

// Error implements the error interface.
func (e *ValidationErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
