package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholaris/resultportal/internal/app/models/dto"
)

// HealthController reports liveness
type HealthController struct {
	driver string
}

// NewHealthController creates a new HealthController for the given storage driver
func NewHealthController(driver string) *HealthController {
	return &HealthController{driver: driver}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Driver: c.driver})
}
