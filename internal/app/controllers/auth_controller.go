// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/app/services"
	"github.com/burak/univote/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// AdminLogin handles admin authentication
// @Summary Admin login
// @Description Authenticates an association administrator and issues a JWT token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token pair issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	tokens, err := c.authService.AdminLogin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Admin login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: tokens, Timestamp: time.Now()})
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh admin tokens
// @Description Exchanges a valid refresh token for a fresh token pair. The used refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token pair issued"
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or revoked token"
// @Router /auth/admin/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	tokens, err := c.authService.RefreshTokens(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: tokens, Timestamp: time.Now()})
}

// VoterLogin handles voter authentication
// @Summary Voter login
// @Description Authenticates a voter by association code, student ID and password and issues a short-lived session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VoterLoginRequest true "Voter credentials"
// @Success 200 {object} dto.APIResponse{data=dto.VoterSessionResponse} "Session issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /auth/voter/login [post]
func (c *AuthController) VoterLogin(ctx *gin.Context) {
	var req dto.VoterLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	session, err := c.authService.VoterLogin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", req.StudentID).Msg("Voter login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: session, Timestamp: time.Now()})
}

// VoterLogout destroys the voter session
// @Summary Voter logout
// @Description Destroys the voter session named by the session header. Idempotent.
// @Tags auth
// @Produce json
// @Param X-Session-Token header string true "Voter session token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Session destroyed"
// @Router /auth/voter/logout [post]
func (c *AuthController) VoterLogout(ctx *gin.Context) {
	token := ctx.GetHeader(middleware.SessionHeader)
	if token != "" {
		if err := c.authService.VoterLogout(ctx.Request.Context(), token); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Logged out"},
		Timestamp: time.Now(),
	})
}
