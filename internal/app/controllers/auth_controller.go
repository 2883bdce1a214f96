// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/app/models/dto"
	"github.com/yigit/dojo/internal/app/services"
	"github.com/yigit/dojo/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService  services.AuthService
	resetService services.PasswordResetService
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, resetService services.PasswordResetService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		resetService: resetService,
		logger:       logger,
	}
}

// StudentLogin handles student authentication
// @Summary Student login
// @Description Authenticates a student and returns an access token with the Student role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	c.login(ctx, models.RoleStudent)
}

// InstructorLogin handles instructor authentication
// @Summary Instructor login
// @Description Authenticates an instructor and returns an access token with the Admin role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/instructor/login [post]
func (c *AuthController) InstructorLogin(ctx *gin.Context) {
	c.login(ctx, models.RoleAdmin)
}

func (c *AuthController) login(ctx *gin.Context, role models.RoleType) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Debug().Str("role", string(role)).Msg("Invalid login request payload")
		return
	}

	token, err := c.authService.Login(ctx, role, &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("role", string(role)).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(token, "Login successful"))
}

// ForgotPassword mails a password reset token
// @Summary Request a password reset
// @Description Sends a reset token to the account email. The answer is the same whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse "Request accepted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 502 {object} dto.ErrorResponse "Email could not be sent"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.resetService.RequestReset(ctx, models.RoleType(req.Role), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "If the email is registered, a reset link has been sent"))
}

// ResetPassword sets a new password with a reset token
// @Summary Reset a password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} dto.APIResponse "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid, used or expired token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.resetService.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		c.logger.Warn().Err(err).Msg("Password reset failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Password reset successfully"))
}
