package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// AuthHandler authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the current access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenSession(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}
	response.OKMessage(c, "You have been logged out.", nil)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	account, err := h.authSvc.Me(c.Request.Context(), p)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, account)
}

// Register student self-registration.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	account, err := h.authSvc.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, "Registration successful. Please Login.", account)
}

// ChangePassword PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), p, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OKMessage(c, "Password changed successfully.", nil)
}

// ForgotPassword POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OKMessage(c, "Password reset link sent to "+req.Email+". Check your inbox.", nil)
}

// ResetPassword POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OKMessage(c, "Password has been reset successfully. Please login.", nil)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11002, "Only student registration is allowed here.")
	case errors.Is(err, service.ErrPasswordMismatch):
		response.BadRequest(c, 11003, "Passwords do not match.")
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11004, "Incorrect current password.")
	case errors.Is(err, service.ErrRegisterNumberTaken):
		response.Conflict(c, 11005, "Student already registered (Check Reg No)")
	case errors.Is(err, service.ErrEmailNotFound):
		response.NotFound(c, 11006, "Email not found in our records.")
	case errors.Is(err, service.ErrResetTokenInvalid):
		response.BadRequest(c, 11007, "The password reset link is invalid or has expired.")
	case errors.Is(err, service.ErrRefreshTokenInvalid):
		response.Unauthorized(c, 11008, "Session expired. Please log in again.")
	case errors.Is(err, service.ErrAccountNotFound):
		response.NotFound(c, 11009, "Account not found.")
	default:
		response.InternalError(c)
	}
}
