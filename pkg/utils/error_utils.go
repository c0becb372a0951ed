package utils

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Standardized APIError response
type APIError struct {
	StatusCode int    `json:"-"`    // HTTP status code, not included in JSON response body for error itself
	Code       string `json:"code"` // Application-specific error code
	Message    string `json:"-"`    // Sent as the top-level message of the envelope
	Details    string `json:"details,omitempty"`
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// Common Error Constants
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

var hideErrorDetails atomic.Bool

// SetErrorDetailsHidden controls whether error details reach clients.
// Production deployments hide them.
func SetErrorDetailsHidden(hidden bool) {
	hideErrorDetails.Store(hidden)
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	body := *err
	if hideErrorDetails.Load() {
		body.Details = ""
	}
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"success": false,
		"message": err.Message,
		"error":   body,
	})
}

// RespondWithSuccess sends the standard success envelope.
func RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Helper to return a standard validation error
func RespondValidationFailed(c *gin.Context, details string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, "Input validation failed", details))
}
