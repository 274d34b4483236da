package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to enumerate registered addresses.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrUserNotFound is returned when the user behind a valid token is gone.
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingSymptoms is returned when a diagnosis request lacks
	// complaint.symptoms.
	ErrMissingSymptoms = errors.New("missing required field: complaint.symptoms")
	// ErrProviderKeyMissing is returned when the LLM provider credential is
	// not configured on the server.
	ErrProviderKeyMissing = errors.New("server is missing OPENAI_API_KEY")
	// ErrProviderAuth is returned when the LLM provider rejects our credential.
	ErrProviderAuth = errors.New("provider authentication failed, check OPENAI_API_KEY on the server")
	// ErrEmptyCompletion is returned when the provider replies with no content.
	ErrEmptyCompletion = errors.New("AI returned an empty response")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// collapses to a generic 500; detail stays in the server log.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMissingSymptoms):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_SYMPTOMS")
	case errors.Is(err, ErrProviderKeyMissing):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "PROVIDER_KEY_MISSING")
	case errors.Is(err, ErrProviderAuth):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "PROVIDER_AUTH_FAILED")
	case errors.Is(err, ErrEmptyCompletion):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "EMPTY_COMPLETION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
