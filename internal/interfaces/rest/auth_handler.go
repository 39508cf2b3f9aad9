package rest

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/internal/application/services"
	"github.com/contactsapp/backend/pkg/constants"
)

// AuthHandler serves the /api/auth route group
type AuthHandler struct {
	svcMgr *services.ServiceManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(svcMgr *services.ServiceManager) *AuthHandler {
	return &AuthHandler{svcMgr: svcMgr}
}

// baseURL reconstructs the externally visible base URL for email links.
// BASE_URL from the environment wins over the request host.
func baseURL(c *gin.Context) string {
	if url := os.Getenv("BASE_URL"); url != "" {
		return url
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if !BindJSON(c, &req) {
		return
	}

	user, err := h.svcMgr.Auth.Signup(c.Request.Context(), req, baseURL(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		constants.ResponseMessage: "Account created. Check your email for confirmation.",
		"user": gin.H{
			constants.FieldID:       user.ID,
			constants.FieldEmail:    user.Email,
			constants.FieldFullName: user.FullName,
			constants.FieldRole:     user.Role,
		},
	})
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Success   bool                   `json:"success"`
	Token     string                 `json:"token,omitempty"`
	TokenType string                 `json:"token_type,omitempty"`
	User      map[string]interface{} `json:"user,omitempty"`
	ExpiresAt string                 `json:"expires_at,omitempty"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.svcMgr.Auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     result.Token,
		TokenType: "bearer",
		User: map[string]interface{}{
			constants.FieldID:       result.User.ID,
			constants.FieldFullName: result.User.FullName,
			constants.FieldEmail:    result.User.Email,
			constants.FieldRole:     result.User.Role,
		},
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString, exists := c.Get(constants.ContextKeyToken)
	if !exists {
		RespondError(c, http.StatusUnauthorized, "No token provided")
		return
	}

	if err := h.svcMgr.Auth.Logout(c.Request.Context(), tokenString.(string)); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Logged out successfully")
}

// GetMe handles GET /api/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			constants.FieldID:       user.ID,
			constants.FieldFullName: user.FullName,
			constants.FieldEmail:    user.Email,
			constants.FieldRole:     user.Role,
		},
	})
}

// ChangePasswordRequest represents change password request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !BindJSON(c, &req) {
		return
	}

	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.svcMgr.Auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Password changed successfully")
}

// ConfirmEmail handles GET /api/auth/confirmed_email/:token
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Param("token")

	already, err := h.svcMgr.Auth.ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	if already {
		RespondMessage(c, http.StatusOK, "Your email is already confirmed")
		return
	}
	RespondMessage(c, http.StatusOK, "Email confirmed")
}

// EmailRequest carries a bare email address
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestEmail handles POST /api/auth/request_email (resend confirmation)
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req EmailRequest
	if !BindJSON(c, &req) {
		return
	}

	already, err := h.svcMgr.Auth.ResendConfirmation(c.Request.Context(), req.Email, baseURL(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}

	if already {
		RespondMessage(c, http.StatusOK, "Your email is already confirmed")
		return
	}
	RespondMessage(c, http.StatusOK, "Check your email for confirmation.")
}

// ResetPasswordRequest handles POST /api/auth/reset_password_request
func (h *AuthHandler) ResetPasswordRequest(c *gin.Context) {
	var req EmailRequest
	if !BindJSON(c, &req) {
		return
	}

	if err := h.svcMgr.Auth.RequestPasswordReset(c.Request.Context(), req.Email, baseURL(c)); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Password reset email sent")
}

// ResetPasswordConfirm carries a reset token and the replacement password
type ResetPasswordConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword handles POST /api/auth/reset_password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordConfirm
	if !BindJSON(c, &req) {
		return
	}

	if err := h.svcMgr.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Password updated successfully")
}
