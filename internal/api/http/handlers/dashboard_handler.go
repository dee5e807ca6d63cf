package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// DashboardHandler serves the user landing view.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get GET /dashboard.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.dashboard.Load(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Stats: dto.DashboardStatsResponse{
			Pending:    view.Stats.Pending,
			InProgress: view.Stats.InProgress,
			Resolved:   view.Stats.Resolved,
			Urgent:     view.Stats.Urgent,
		},
		Recent: ticketResponses(view.Recent),
		Prompt: promptResponse(view.Prompt),
	}})
}
