package handler

import (
	"context"

	assetapp "github.com/assetreg/backend/internal/application/asset"
	"github.com/gin-gonic/gin"
)

// DashboardService computes the register overview
type DashboardService interface {
	Stats(ctx context.Context) (*assetapp.DashboardStats, error)
}

// DashboardHandler handles the dashboard endpoint
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats godoc
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=assetapp.DashboardStats}
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
