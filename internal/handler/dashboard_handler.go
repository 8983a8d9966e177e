package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/service"
)

// DashboardHandler serves the admin dashboard summary
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetSummary handles GET /v1/admin/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.dashboardService.GetSummary(c.UserContext())
	if err != nil {
		log.Printf("[Dashboard] Failed to build summary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to build summary",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}
