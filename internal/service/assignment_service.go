package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AssignmentService handles ticket assignment operations.
type AssignmentService struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo     repository.TicketRepository
	UserRepo       repository.UserRepository
	AssignmentRepo repository.AssignmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:     deps.TicketRepo,
		users:       deps.UserRepo,
		assignments: deps.AssignmentRepo,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
	}
}

// AssignTicket puts a ticket in an employee's queue (admin only).
func (s *AssignmentService) AssignTicket(ctx context.Context, actor Actor, ticketID, employeeID string) (*domain.Assignment, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("insufficient role for assignment")
	}
	ticketID, employeeID = strings.TrimSpace(ticketID), strings.TrimSpace(employeeID)
	if ticketID == "" || employeeID == "" {
		return nil, apperrors.NewValidationError("ticket_id and employee_id required", nil)
	}

	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, notFoundOr(err, "employee", map[string]any{"employee_id": employeeID})
	}
	if !employee.Role.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must be an employee or admin", map[string]any{"employee_id": employeeID})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket already closed", map[string]any{"ticket_id": ticketID})
	}

	assignment := &domain.Assignment{EmployeeID: employee.ID, TicketID: ticket.ID}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("ticket already assigned to employee", map[string]any{
				"ticket_id":   ticketID,
				"employee_id": employeeID,
			})
		}
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload:  events.TicketAssignedPayload{EmployeeID: employee.ID},
	})
	return assignment, nil
}
