package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/middleware"
	"github.com/scholaris/resultportal/internal/pkg/helpers"
)

// ResultController handles result management for administrators
type ResultController struct {
	resultService *services.ResultService
	logger        zerolog.Logger
}

// NewResultController creates a new ResultController
func NewResultController(resultService *services.ResultService, logger zerolog.Logger) *ResultController {
	return &ResultController{resultService: resultService, logger: logger}
}

// ListResults returns a page of results
// @Summary List results
// @Description Lists results newest first with optional filters
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Student UUID"
// @Param term query string false "Term" Enums(First Term, Second Term, Third Term)
// @Param session query string false "Academic session, e.g. 2024/2025"
// @Param search query string false "Matches student name or student ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ResultListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /admin/results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.resultService.List(ctx.Request.Context(), services.ResultQuery{
		StudentID: ctx.Query("studentId"),
		Term:      models.Term(ctx.Query("term")),
		Session:   ctx.Query("session"),
		Search:    ctx.Query("search"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetResult returns one result
// @Summary Get a result
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result UUID"
// @Success 200 {object} dto.APIResponse{data=models.Result}
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /admin/results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	result, err := c.resultService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// PreviewResult grades a subject list without saving it
// @Summary Preview grades
// @Description Returns per subject grades and remarks with the total and average, as the result form shows them while typing
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PreviewRequest true "Subject scores"
// @Success 200 {object} dto.APIResponse{data=dto.PreviewResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /admin/results/preview [post]
func (c *ResultController) PreviewResult(ctx *gin.Context) {
	var req dto.PreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.resultService.Preview(dto.ToSubjects(req.Subjects)), ""))
}

// CreateResult records a result
// @Summary Create a result
// @Description Records a term result. Grades, remarks, total and average are computed from the scores.
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResultRequest true "Result data"
// @Success 201 {object} dto.APIResponse{data=models.Result}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/results [post]
func (c *ResultController) CreateResult(ctx *gin.Context) {
	var req dto.ResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	result, err := c.resultService.Create(ctx.Request.Context(), middleware.CurrentAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result, "Result created"))
}

// UpdateResult edits a result
// @Summary Update a result
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result UUID"
// @Param request body dto.ResultRequest true "Result data"
// @Success 200 {object} dto.APIResponse{data=models.Result}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /admin/results/{id} [put]
func (c *ResultController) UpdateResult(ctx *gin.Context) {
	var req dto.ResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	result, err := c.resultService.Update(ctx.Request.Context(), middleware.CurrentAdmin(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, "Result updated"))
}

// DeleteResult removes a result
// @Summary Delete a result
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /admin/results/{id} [delete]
func (c *ResultController) DeleteResult(ctx *gin.Context) {
	if err := c.resultService.Delete(ctx.Request.Context(), middleware.CurrentAdmin(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Result deleted"}, ""))
}
