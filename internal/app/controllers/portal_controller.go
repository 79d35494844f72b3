package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/middleware"
)

// PortalController serves a logged in student's own results
type PortalController struct {
	portalService *services.PortalService
	logger        zerolog.Logger
}

// NewPortalController creates a new PortalController
func NewPortalController(portalService *services.PortalService, logger zerolog.Logger) *PortalController {
	return &PortalController{portalService: portalService, logger: logger}
}

// MyResults lists the current student's results
// @Summary My results
// @Description Lists the logged in student's results with the sessions available for filtering
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param term query string false "Term" Enums(First Term, Second Term, Third Term)
// @Param session query string false "Academic session"
// @Success 200 {object} dto.APIResponse{data=dto.PortalResultsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Router /portal/results [get]
func (c *PortalController) MyResults(ctx *gin.Context) {
	resp, err := c.portalService.Results(ctx.Request.Context(), middleware.CurrentStudent(ctx),
		models.Term(ctx.Query("term")), ctx.Query("session"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// ResultCard returns one printable result card
// @Summary Result card
// @Description Returns one of the logged in student's results together with the school branding
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result UUID"
// @Success 200 {object} dto.APIResponse{data=models.ResultCard}
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /portal/results/{id}/card [get]
func (c *PortalController) ResultCard(ctx *gin.Context) {
	card, err := c.portalService.Card(ctx.Request.Context(), middleware.CurrentStudent(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(card, ""))
}
