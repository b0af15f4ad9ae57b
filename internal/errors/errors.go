package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of login flow failures
type ErrorType string

const (
	// RandomnessError represents a failure of the secure random source
	RandomnessError ErrorType = "randomness_error"
	// BrowserError represents a failure to launch the user's browser
	BrowserError ErrorType = "browser_error"
	// ListenerError represents bind, accept, read or write failures of the callback listener
	ListenerError ErrorType = "listener_error"
	// CallbackError represents a callback request without a usable authorization code
	CallbackError ErrorType = "callback_error"
	// NetworkError represents transport failures or non-200 replies from the token endpoint
	NetworkError ErrorType = "network_error"
	// TokenResponseError represents a token response that is not JSON or lacks required fields
	TokenResponseError ErrorType = "token_response_error"
	// IDTokenError represents an identity token whose claims cannot be decoded
	IDTokenError ErrorType = "id_token_error"
	// ConfigurationError represents configuration problems
	ConfigurationError ErrorType = "configuration_error"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithStatusCode records the HTTP status the token endpoint replied with
func (e *AppError) WithStatusCode(code int) *AppError {
	e.StatusCode = code
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// TypeOf returns the type of the outermost AppError in err's chain, or ""
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// FromHTTPStatus creates a NetworkError for a token endpoint reply that was not 200 OK
func FromHTTPStatus(statusCode int, body string) *AppError {
	return New(NetworkError, fmt.Sprintf("token endpoint returned %d %s", statusCode, http.StatusText(statusCode))).
		WithStatusCode(statusCode).
		WithDetails(body)
}
