package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors. Missing, invalid and expired tokens are three
	// distinct externally visible codes.
	ErrCodeTokenMissing       = "TOKEN_MISSING"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeNotAuthorized = "NOT_AUTHORIZED"

	// Validation errors
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInvalidTimeRange = "INVALID_TIME_RANGE"
	ErrCodeInvalidCategory  = "INVALID_CATEGORY"
	ErrCodeMissingEvidence  = "MISSING_EVIDENCE"
	ErrCodeUnknownUser      = "UNKNOWN_USER"

	// Resource errors
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeDuplicateUsername     = "DUPLICATE_USERNAME"
	ErrCodeDuplicateReservedRole = "DUPLICATE_RESERVED_ROLE"
	ErrCodeConflict              = "CONFLICT"

	// Workflow state errors
	ErrCodeAlreadyReviewed  = "ALREADY_REVIEWED"
	ErrCodeAlreadyJoined    = "ALREADY_JOINED"
	ErrCodeNotInSignupPhase = "NOT_IN_SIGNUP_PHASE"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response with the given token failure code
func Unauthorized(c *gin.Context, code, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(code, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeNotAuthorized, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response with the given code
func BadRequest(c *gin.Context, code, message string) {
	if code == "" {
		code = ErrCodeInvalidInput
	}
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(code, message))
}

// Conflict sends a 409 response with the given code
func Conflict(c *gin.Context, code, message string) {
	if code == "" {
		code = ErrCodeConflict
	}
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(code, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
