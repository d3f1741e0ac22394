package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/server/password"
	"github.com/Dr-Stone27/Researchub/internal/server/rate"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/accounts"
	"github.com/Dr-Stone27/Researchub/internal/server/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondError sends an error response
func RespondError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondErrorWithDetails sends an error response with details
func RespondErrorWithDetails(c *gin.Context, statusCode int, errorCode string, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}

// RespondSuccess sends a success response
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// GetClientIP gets the real client IP address
func GetClientIP(c *gin.Context) string {
	// Try X-Forwarded-For header first (for proxied requests)
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}

	// Try X-Real-IP header
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	// Fall back to RemoteAddr
	return c.ClientIP()
}

// respondServiceError translates service-layer errors into the wire error
// shape. Unrecognized errors become an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		dupErr        *accounts.DuplicateAccountError
		weakErr       *password.WeakPasswordError
		limitErr      *rate.LimitError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondErrorWithDetails(c, http.StatusBadRequest, "validation_failed",
			"Some fields are missing or invalid", validationErr.Fields)
	case errors.As(err, &dupErr):
		RespondErrorWithDetails(c, http.StatusBadRequest, "already_registered",
			"An account with these details already exists",
			map[string]string{dupErr.Field: "already registered"})
	case errors.As(err, &weakErr):
		RespondErrorWithDetails(c, http.StatusBadRequest, "weak_password",
			"Password does not meet the policy", map[string][]string{"missing": weakErr.Missing})
	case errors.As(err, &limitErr):
		c.Header("Retry-After", limitErr.RetryAfterSeconds())
		RespondError(c, http.StatusTooManyRequests, "too_many_attempts",
			"Too many login attempts, try again later")
	case errors.Is(err, common.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "invalid_credentials",
			"Invalid credentials or account not eligible for login")
	case errors.Is(err, common.ErrInvalidToken):
		RespondError(c, http.StatusBadRequest, "invalid_token", "Token is invalid or already used")
	case errors.Is(err, common.ErrTokenExpired):
		RespondError(c, http.StatusBadRequest, "token_expired", "Token has expired, request a new one")
	case errors.Is(err, common.ErrPasswordMismatch):
		RespondError(c, http.StatusBadRequest, "password_mismatch", "Passwords do not match")
	case errors.Is(err, common.ErrorNotFound):
		RespondError(c, http.StatusNotFound, "not_found", "Resource not found")
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
