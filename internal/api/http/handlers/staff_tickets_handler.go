package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/service"
)

// StaffTicketsHandler serves the employee request queue.
type StaffTicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(lifecycle *service.LifecycleService) *StaffTicketsHandler {
	return &StaffTicketsHandler{lifecycle: lifecycle}
}

// ListRequests GET /staff/requests?q=.
func (h *StaffTicketsHandler) ListRequests(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.lifecycle.ListAssignedRequests(c.UserContext(), actorFrom(principal), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Connect POST /staff/requests/:id/connect.
func (h *StaffTicketsHandler) Connect(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.lifecycle.ConnectToTicket(c.UserContext(), actorFrom(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// RequestClosure POST /staff/requests/:id/request-closure.
func (h *StaffTicketsHandler) RequestClosure(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.lifecycle.RequestClosure(c.UserContext(), actorFrom(principal), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}
