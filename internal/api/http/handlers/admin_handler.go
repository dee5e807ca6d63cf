package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AdminHandler exposes administrative endpoints.
type AdminHandler struct {
	assignments *service.AssignmentService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(assignments *service.AssignmentService) *AdminHandler {
	return &AdminHandler{assignments: assignments}
}

// AssignTicket POST /admin/assignments.
func (h *AdminHandler) AssignTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	assignment, err := h.assignments.AssignTicket(c.UserContext(), actorFrom(principal), req.TicketID, req.EmployeeID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AssignmentResponse{
		ID:         assignment.ID,
		TicketID:   assignment.TicketID,
		EmployeeID: assignment.EmployeeID,
		CreatedAt:  assignment.CreatedAt,
	}})
}
