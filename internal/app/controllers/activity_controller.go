package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/middleware"
)

// ActivityController serves the audit trail and dashboard counters
type ActivityController struct {
	activityService *services.ActivityService
	logger          zerolog.Logger
}

// NewActivityController creates a new ActivityController
func NewActivityController(activityService *services.ActivityService, logger zerolog.Logger) *ActivityController {
	return &ActivityController{activityService: activityService, logger: logger}
}

// ListLogs returns the newest activity log entries
// @Summary List activity logs
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param actorType query string false "Actor type" Enums(admin, student)
// @Param search query string false "Matches description or actor name"
// @Param limit query int false "Maximum number of entries" default(100)
// @Success 200 {object} dto.APIResponse{data=dto.ActivityLogResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/activity-logs [get]
func (c *ActivityController) ListLogs(ctx *gin.Context) {
	var q dto.ActivityLogQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.activityService.List(ctx.Request.Context(), q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Overview returns the dashboard counters
// @Summary Dashboard overview
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Overview}
// @Router /admin/overview [get]
func (c *ActivityController) Overview(ctx *gin.Context) {
	overview, err := c.activityService.Overview(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(overview, ""))
}
