package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/settings"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnknownIdentity     = "UNKNOWN_IDENTITY"
	CodeDuplicateUsername   = "DUPLICATE_USERNAME"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeNoSession           = "NO_SESSION"
	CodeNotCreator          = "NOT_CREATOR"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeGenerationFailed    = "GENERATION_FAILED"
	CodeModuleBusy          = "MODULE_BUSY"
	CodeUnknownVoice        = "UNKNOWN_VOICE"
	CodeEmptyInput          = "EMPTY_INPUT"
	CodeInvalidImage        = "INVALID_IMAGE"
	CodeInvalidPreference   = "INVALID_PREFERENCE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// Body returns the error payload an error maps to
func Body(err error) ErrorResponse {
	return ErrorResponse{Error: toHTTPError(err).apiError}
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Identity
	case errors.Is(err, model.ErrUnknownIdentity):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownIdentity, "No account exists for this email"}}
	case errors.Is(err, model.ErrDuplicateUsername):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateUsername, "Username is already taken"}}
	case errors.Is(err, model.ErrDuplicateEmail):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateEmail, "Email is already registered"}}
	case errors.Is(err, model.ErrNoSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeNoSession, "No active session"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Creator access required"}}

	// Ledger
	case errors.Is(err, model.ErrInsufficientCredits):
		return &httpError{http.StatusPaymentRequired, APIError{CodeInsufficientCredits, "Not enough credits"}}

	// Studio
	case errors.Is(err, model.ErrGenerationFailed):
		return &httpError{http.StatusBadGateway, APIError{CodeGenerationFailed, "Generation failed, credits were not charged"}}
	case errors.Is(err, model.ErrModuleBusy):
		return &httpError{http.StatusTooManyRequests, APIError{CodeModuleBusy, "Module is already processing a request"}}
	case errors.Is(err, model.ErrUnknownVoice):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownVoice, "Unknown voice"}}
	case errors.Is(err, model.ErrEmptyInput):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyInput, "Input is empty"}}
	case errors.Is(err, model.ErrInvalidImage):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidImage, "Input is not a supported image"}}

	case errors.Is(err, settings.ErrInvalidPreference):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPreference, "Unsupported preference value"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
