package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/inventario/backend/internal/application/report"
)

// DashboardHandler serves the aggregated dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Get handles GET /dashboard?time_range=7d|30d|90d. start_date and end_date
// override the relative range when both are given.
func (h *DashboardHandler) Get(c *gin.Context) {
	var req reportapp.DashboardRequest
	if !h.bindQuery(c, &req) {
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}
