package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/middleware"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
)

// SettingsController handles school branding
type SettingsController struct {
	settingsService *services.SettingsService
	logger          zerolog.Logger
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(settingsService *services.SettingsService, logger zerolog.Logger) *SettingsController {
	return &SettingsController{settingsService: settingsService, logger: logger}
}

// GetPublicSettings returns the branding shown on the login pages
// @Summary Public branding
// @Tags settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PublicSettingsResponse}
// @Router /settings/public [get]
func (c *SettingsController) GetPublicSettings(ctx *gin.Context) {
	resp, err := c.settingsService.Public(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetSettings returns the full school settings
// @Summary Get school settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.SchoolSettings}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/settings [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	settings, err := c.settingsService.Get(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(settings, ""))
}

// UpdateSettings saves the school settings
// @Summary Update school settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} dto.APIResponse{data=models.SchoolSettings}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /admin/settings [put]
func (c *SettingsController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	settings, err := c.settingsService.Update(ctx.Request.Context(), middleware.CurrentAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(settings, "Settings updated"))
}

// UploadAsset stores a logo or signature image
// @Summary Upload a branding asset
// @Description Uploads the school logo or the principal's signature. Images up to 2MB.
// @Tags settings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Asset kind" Enums(logo, signature)
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.AssetUploadResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or unsupported file"
// @Router /admin/settings/assets/{kind} [post]
func (c *SettingsController) UploadAsset(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: file is required", apperrors.ErrBadRequest))
		return
	}

	resp, err := c.settingsService.UploadAsset(ctx.Request.Context(), middleware.CurrentAdmin(ctx), ctx.Param("kind"), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Upload successful"))
}
