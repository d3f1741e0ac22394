package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
	"github.com/Dr-Stone27/Researchub/internal/server/services"
)

// AuthHandler exposes the account lifecycle over HTTP.
type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	MatricOrFacultyID string `json:"matric_or_faculty_id"`
	Department        string `json:"department"`
	Password          string `json:"password"`
	ConfirmPassword   string `json:"confirm_password"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	MatricOrFacultyID string     `json:"matric_or_faculty_id"`
	Department        string     `json:"department"`
	Role              string     `json:"role"`
	Status            string     `json:"status"`
	IsVerified        bool       `json:"is_verified"`
	FirstLogin        *time.Time `json:"first_login,omitempty"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func accountView(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		MatricOrFacultyID: a.MatricOrFacultyID,
		Department:        a.Department,
		Role:              a.Role,
		Status:            string(a.Status),
		IsVerified:        a.IsVerified,
		FirstLogin:        a.FirstLogin,
		LastLogin:         a.LastLogin,
		CreatedAt:         a.CreatedAt,
	}
}

// Register handles account registration
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		MatricOrFacultyID: req.MatricOrFacultyID,
		Department:        req.Department,
		Password:          req.Password,
		ConfirmPassword:   req.ConfirmPassword,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email to verify your account.",
		"account": accountView(account),
	})
}

// VerifyEmail consumes the emailed verification token
// GET /api/auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		RespondError(c, http.StatusBadRequest, "invalid_token", "Missing verification token")
		return
	}

	account, err := h.accounts.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"message": "Email verified. You can now log in.",
		"account": accountView(account),
	})
}

// ResendVerification issues a fresh verification email
// POST /api/auth/resend-verification
//
// The response is 200 regardless of whether the address is registered or
// already verified, so the endpoint leaks nothing about account existence.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	err := h.accounts.ResendVerification(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, common.ErrAlreadyVerified) {
		respondServiceError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"message": "If the address is registered and unverified, a new verification email is on its way.",
	})
}

// LoginRequest represents a login request
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates and mints a session token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Identifier, req.Password, GetClientIP(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"access_token": session.AccessToken,
		"account":      accountView(session.Account),
	})
}

// ForgotPassword issues a reset token
// POST /api/auth/forgot-password
//
// Always 200, for the same reason as ResendVerification.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"message": "If the address is registered, a password reset email is on its way.",
	})
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword consumes the reset token and installs a new password
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	RespondSuccess(c, gin.H{
		"message": "Password updated. Log in with your new password.",
	})
}
