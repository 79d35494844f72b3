// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/middleware"
	"github.com/scholaris/resultportal/internal/pkg/auth"
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

func newTokenResponse(token *auth.IssuedToken) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   token.ExpiresIn,
		ExpiresAt:   token.ExpiresAt,
	}
}

// AdminLogin handles administrator login
// @Summary Administrator login
// @Description Authenticates an active administrator by email and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	admin, err := c.authService.LoginAdmin(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	token, err := c.authService.IssueSession(admin)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AdminLoginResponse{
		Token: newTokenResponse(token),
		Admin: admin,
	}, "Login successful"))
}

// StudentLogin handles student login
// @Summary Student login
// @Description Authenticates an active student by student ID and PIN and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Student credentials"
// @Success 200 {object} dto.APIResponse{data=dto.StudentLoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid student ID or PIN"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.authService.LoginStudent(ctx.Request.Context(), req.StudentID, req.PIN)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	token, err := c.authService.IssueSession(student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StudentLoginResponse{
		Token:   newTokenResponse(token),
		Student: dto.NewStudentProfile(student),
	}, "Login successful"))
}

// ResetPIN handles a forgotten PIN
// @Summary Reset a student's PIN
// @Description Issues a new 4 digit PIN to the active student whose student ID and email both match
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPINRequest true "Student identification"
// @Success 200 {object} dto.APIResponse{data=dto.ResetPINResponse} "New PIN issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid student ID or email"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Router /auth/student/reset-pin [post]
func (c *AuthController) ResetPIN(ctx *gin.Context) {
	var req dto.ResetPINRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	pin, err := c.authService.ResetPIN(ctx.Request.Context(), req.StudentID, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ResetPINResponse{PIN: pin}, "PIN reset successful"))
}

// Logout revokes the current token
// @Summary Logout
// @Description Revokes the access token used for this request. The token is rejected afterwards, including by a repeated logout.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.ClaimsFrom(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if store := middleware.SessionFrom(ctx); store != nil {
		store.Logout()
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Logged out"}, ""))
}

// Me describes the current session
// @Summary Current session
// @Description Returns who the access token belongs to
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session identity"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	resp := dto.SessionResponse{}
	if admin := middleware.CurrentAdmin(ctx); admin != nil {
		resp.ActorType = models.ActorAdmin
		resp.Admin = admin
	} else if student := middleware.CurrentStudent(ctx); student != nil {
		resp.ActorType = models.ActorStudent
		resp.Student = dto.NewStudentProfile(student)
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
