package routes

import (
	"errors"
	"net/http"

	"timetracker-sync/internal/jwt"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly message
	Internal   bool   // Whether this is an internal error (hide details from user)
}

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Internal:   statusCode >= 500,
	}
}

var (
	// Authentication errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Lookup errors
	ErrUserNotFound    = errors.New("user not found")
	ErrTrackerNotFound = errors.New("ticket system not found")

	// Internal errors
	ErrInternalServer          = errors.New("internal server error")
	ErrDatabaseError           = errors.New("database error")
	ErrStorageProviderNotFound = errors.New("storage provider not found")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:   http.StatusBadRequest,
	ErrMissingParameter: http.StatusBadRequest,
	ErrInvalidParameter: http.StatusBadRequest,

	// 401 Unauthorized
	ErrUnauthorized:       http.StatusUnauthorized,
	jwt.ErrNonValidToken:  http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,

	// 404 Not Found
	ErrUserNotFound:    http.StatusNotFound,
	ErrTrackerNotFound: http.StatusNotFound,

	// 500 Internal Server Error
	ErrInternalServer:          http.StatusInternalServerError,
	ErrDatabaseError:           http.StatusInternalServerError,
	ErrStorageProviderNotFound: http.StatusInternalServerError,
}

// errorInfoMap maps errors to user-friendly messages
var errorInfoMap = map[error]ErrorInfo{
	ErrUnauthorized:       {Message: "Authentication required"},
	jwt.ErrNonValidToken:  {Message: "Invalid or expired authentication token"},
	ErrInvalidCredentials: {Message: "Invalid credentials provided"},

	ErrInvalidRequest:   {Message: "Invalid request format"},
	ErrMissingParameter: {Message: "Required parameter is missing"},
	ErrInvalidParameter: {Message: "Invalid parameter value"},

	ErrUserNotFound:    {Message: "User not found"},
	ErrTrackerNotFound: {Message: "Ticket system not found"},

	ErrInternalServer:          {Message: "An internal error occurred"},
	ErrDatabaseError:           {Message: "Database operation failed"},
	ErrStorageProviderNotFound: {Message: "Storage service is not available"},
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	// Check if it's already an HTTPError
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	// Check direct match
	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	// Check if error wraps a known error
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	// Default to 500 Internal Server Error
	return http.StatusInternalServerError
}

// GetErrorInfo returns error information including the user-facing message
func GetErrorInfo(err error) ErrorInfo {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{Message: httpErr.Message}
	}

	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for knownErr, info := range errorInfoMap {
		if errors.Is(err, knownErr) {
			return info
		}
	}

	// For unknown errors, return a generic message for 5xx, specific for others
	status := GetErrorStatus(err)
	if status >= 500 {
		return ErrorInfo{Message: "An internal error occurred"}
	}
	return ErrorInfo{Message: err.Error()}
}
