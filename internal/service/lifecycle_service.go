package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// PromptKind names the single prompt a user is shown on the dashboard.
type PromptKind string

const (
	PromptNone                PromptKind = "none"
	PromptClosureConfirmation PromptKind = "closure_confirmation"
	PromptRating              PromptKind = "rating"
)

// Prompt is the closure confirmation or rating request pending for a user.
// Ticket is nil when Kind is PromptNone.
type Prompt struct {
	Kind   PromptKind
	Ticket *domain.Ticket
}

// LifecycleService owns ticket status transitions and the prompts they drive.
type LifecycleService struct {
	tickets     repository.TicketRepository
	assignments repository.AssignmentRepository
	ratings     repository.RatingRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// LifecycleDependencies bundles repositories for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo     repository.TicketRepository
	AssignmentRepo repository.AssignmentRepository
	RatingRepo     repository.RatingRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:     deps.TicketRepo,
		assignments: deps.AssignmentRepo,
		ratings:     deps.RatingRepo,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
	}
}

// ListTicketsForUser returns every ticket the user owns, oldest first.
func (s *LifecycleService) ListTicketsForUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// CreateTicket opens a ticket for the user.
func (s *LifecycleService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	priority := domain.TicketPriorityMedium
	if input.Priority != "" {
		parsed, ok := domain.ParseTicketPriority(string(input.Priority))
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
		}
		priority = parsed
	}

	ticket := &domain.Ticket{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: userID, Role: domain.RoleUser},
		Payload:  events.TicketCreatedPayload{Priority: ticket.Priority, Title: ticket.Title},
	})
	return ticket, nil
}

// RequestClosure moves an answered ticket to requested and asks its owner to confirm.
func (s *LifecycleService) RequestClosure(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.staffTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusAnswered {
		return nil, invalidTransition(ticket, domain.TicketStatusRequested)
	}

	updated, err := s.tickets.Transition(ctx, repository.TicketTransition{
		TicketID: ticket.ID,
		From:     []domain.TicketStatus{domain.TicketStatusAnswered},
		To:       domain.TicketStatusRequested,
		ClosedBy: &actor.ID,
	})
	if err != nil {
		return nil, transitionFailed(err, ticket.ID)
	}
	s.publishStatusChange(ctx, events.EventClosureRequested, actorOf(actor), ticket.Status, updated)
	return updated, nil
}

// ConfirmClosure closes a requested ticket on behalf of its owner. When the
// write is rejected the ticket keeps its previous state and the error is returned.
func (s *LifecycleService) ConfirmClosure(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ownedTicket(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusRequested {
		return nil, invalidTransition(ticket, domain.TicketStatusClosed)
	}

	updated, err := s.tickets.Transition(ctx, repository.TicketTransition{
		TicketID: ticket.ID,
		From:     []domain.TicketStatus{domain.TicketStatusRequested},
		To:       domain.TicketStatusClosed,
	})
	if err != nil {
		s.logger.Warn("confirm closure failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, transitionFailed(err, ticket.ID)
	}
	s.publishStatusChange(ctx, events.EventTicketClosed, events.Actor{UserID: userID, Role: domain.RoleUser}, ticket.Status, updated)
	return updated, nil
}

// FindUnratedClosedTicket returns the first closed ticket without a rating, or
// nil. It always returns nil while any ticket awaits closure confirmation.
func (s *LifecycleService) FindUnratedClosedTicket(ctx context.Context, userID string) (*domain.Ticket, error) {
	tickets, err := s.ListTicketsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.unratedClosed(ctx, tickets)
}

// PendingPrompt resolves the one prompt the user should see.
func (s *LifecycleService) PendingPrompt(ctx context.Context, userID string) (Prompt, error) {
	tickets, err := s.ListTicketsForUser(ctx, userID)
	if err != nil {
		return Prompt{Kind: PromptNone}, err
	}
	return s.ResolvePrompt(ctx, tickets)
}

// ResolvePrompt picks the prompt for an already loaded, oldest-first ticket list.
// Closure confirmation always wins over rating.
func (s *LifecycleService) ResolvePrompt(ctx context.Context, tickets []domain.Ticket) (Prompt, error) {
	if pending := firstWithStatus(tickets, domain.TicketStatusRequested); pending != nil {
		return Prompt{Kind: PromptClosureConfirmation, Ticket: pending}, nil
	}
	unrated, err := s.unratedClosed(ctx, tickets)
	if err != nil {
		return Prompt{Kind: PromptNone}, err
	}
	if unrated != nil {
		return Prompt{Kind: PromptRating, Ticket: unrated}, nil
	}
	return Prompt{Kind: PromptNone}, nil
}

// ConnectToTicket is called when staff pick up an assigned ticket: it becomes
// answered and the chat is marked as started.
func (s *LifecycleService) ConnectToTicket(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.staffTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(ticket.Status, domain.TicketStatusAnswered) {
		return nil, invalidTransition(ticket, domain.TicketStatusAnswered)
	}

	chat := true
	updated, err := s.tickets.Transition(ctx, repository.TicketTransition{
		TicketID:      ticket.ID,
		From:          []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusAnswered, domain.TicketStatusRequested},
		To:            domain.TicketStatusAnswered,
		ChatInitiated: &chat,
	})
	if err != nil {
		return nil, transitionFailed(err, ticket.ID)
	}
	s.publishStatusChange(ctx, events.EventTicketConnected, actorOf(actor), ticket.Status, updated)
	return updated, nil
}

// ListAssignedRequests returns the staff member's queue: assigned tickets that
// are not closed, optionally narrowed by a case-insensitive title search.
func (s *LifecycleService) ListAssignedRequests(ctx context.Context, actor Actor, search string) ([]domain.Ticket, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	assignments, err := s.assignments.ListByEmployee(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(assignments) == 0 {
		return []domain.Ticket{}, nil
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.TicketID)
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		IDs:      ids,
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusAnswered, domain.TicketStatusRequested},
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return FilterTickets(tickets, TicketListQuery{Search: search}), nil
}

func (s *LifecycleService) unratedClosed(ctx context.Context, tickets []domain.Ticket) (*domain.Ticket, error) {
	if firstWithStatus(tickets, domain.TicketStatusRequested) != nil {
		return nil, nil
	}
	var closed []domain.Ticket
	for _, t := range tickets {
		if t.Status == domain.TicketStatusClosed {
			closed = append(closed, t)
		}
	}
	if len(closed) == 0 {
		return nil, nil
	}
	ids := make([]string, len(closed))
	for i := range closed {
		ids[i] = closed[i].ID
	}
	rated, err := s.ratings.RatedTicketIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range closed {
		if _, ok := rated[closed[i].ID]; !ok {
			ticket := closed[i]
			return &ticket, nil
		}
	}
	return nil, nil
}

// ownedTicket loads a ticket and checks the caller owns it.
func (s *LifecycleService) ownedTicket(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	if ticket.UserID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// staffTicket loads a ticket for a staff action. Employees need an assignment;
// admins act on any ticket.
func (s *LifecycleService) staffTicket(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleEmployee:
		assigned, err := s.assignments.Exists(ctx, actor.ID, ticketID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !assigned {
			return nil, apperrors.NewForbidden("ticket not assigned to you")
		}
	default:
		return nil, apperrors.NewForbidden("staff role required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *LifecycleService) publishStatusChange(ctx context.Context, eventType events.EventType, actor events.Actor, old domain.TicketStatus, ticket *domain.Ticket) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.StatusChangedPayload{
			OldStatus: old,
			NewStatus: ticket.Status,
			OwnerID:   ticket.UserID,
		},
	})
}

func firstWithStatus(tickets []domain.Ticket, status domain.TicketStatus) *domain.Ticket {
	for i := range tickets {
		if tickets[i].Status == status {
			ticket := tickets[i]
			return &ticket
		}
	}
	return nil
}

func invalidTransition(ticket *domain.Ticket, to domain.TicketStatus) error {
	return apperrors.NewConflict("ticket cannot move to "+string(to)+" from its current status", map[string]any{
		"ticket_id": ticket.ID,
		"status":    ticket.Status,
	})
}

// transitionFailed maps a rejected conditional update. ErrNoRows here means
// the ticket changed status between the read and the write.
func transitionFailed(err error, ticketID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("ticket status changed, reload and try again", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}
