package errors

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"

	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Business logic errors
	ErrCodeInvalidOperation = "INVALID_OPERATION"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Kind groups errors for HTTP status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindUnavailable
)

// HTTPStatus returns the HTTP status code for a kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) defaultCode() string {
	switch k {
	case KindValidation:
		return ErrCodeInvalidInput
	case KindAuthentication:
		return ErrCodeUnauthorized
	case KindAuthorization:
		return ErrCodeForbidden
	case KindNotFound:
		return ErrCodeNotFound
	case KindConflict:
		return ErrCodeConflict
	case KindUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternalError
	}
}

// APIError represents a standardized API error response
type APIError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code the error is rendered with.
func (e *APIError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// New creates an APIError of the given kind with the kind's default code.
func New(kind Kind, message string) *APIError {
	return &APIError{
		Kind:    kind,
		Code:    kind.defaultCode(),
		Message: message,
	}
}

// NewAPIError creates a new APIError. The kind is inferred from well-known codes.
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Kind:    kindForCode(code),
		Code:    code,
		Message: message,
	}
}

// WithCode returns a copy of e using a more specific code.
func (e *APIError) WithCode(code string) *APIError {
	cp := *e
	cp.Code = code
	return &cp
}

func NewValidation(message string) *APIError     { return New(KindValidation, message) }
func NewAuthentication(message string) *APIError { return New(KindAuthentication, message) }
func NewAuthorization(message string) *APIError  { return New(KindAuthorization, message) }
func NewNotFound(message string) *APIError       { return New(KindNotFound, message) }
func NewConflict(message string) *APIError       { return New(KindConflict, message) }
func NewUnavailable(message string) *APIError    { return New(KindUnavailable, message) }

// Wrap records cause behind a generic internal error. The cause is logged, never rendered.
func Wrap(cause error, message string) *APIError {
	e := New(KindInternal, message)
	e.Cause = cause
	return e
}

func kindForCode(code string) Kind {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return KindAuthentication
	case ErrCodeForbidden, ErrCodeInsufficientPermissions:
		return KindAuthorization
	case ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidFormat, ErrCodeInvalidOperation:
		return KindValidation
	case ErrCodeNotFound:
		return KindNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict:
		return KindConflict
	case ErrCodeServiceUnavailable:
		return KindUnavailable
	default:
		return KindInternal
	}
}

var ErrInternalError = NewAPIError(ErrCodeInternalError, "Internal server error")

// Respond renders err. Errors in the taxonomy keep their message; internal errors and
// anything else are logged and rendered as a generic 500 so storage details never leak.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.Kind != KindInternal {
		RespondWithError(c, apiErr.HTTPStatus(), apiErr)
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	RespondWithError(c, http.StatusInternalServerError, ErrInternalError)
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
