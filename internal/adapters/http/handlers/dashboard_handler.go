package handlers

import (
	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	reportService *services.ReportService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reportService *services.ReportService) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
	}
}

// GetDashboard returns the ledger dashboard
// @Summary Dashboard
// @Description Get ledger totals, per-currency breakdown and recent activity (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.reportService.GetDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}
