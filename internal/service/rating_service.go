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

// RatingService records a user's score for the employee who closed a ticket.
type RatingService struct {
	tickets    repository.TicketRepository
	ratings    repository.RatingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRatingService creates the service.
func NewRatingService(tickets repository.TicketRepository, ratings repository.RatingRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RatingService {
	return &RatingService{tickets: tickets, ratings: ratings, dispatcher: dispatcher, logger: loggerOrNop(logger)}
}

// SubmitRating stores the only rating a closed ticket can receive.
func (s *RatingService) SubmitRating(ctx context.Context, userID, ticketID string, score int, comment string) (*domain.EmployeeRating, error) {
	if score < domain.MinRatingScore || score > domain.MaxRatingScore {
		return nil, apperrors.NewValidationError("score must be between 1 and 5", map[string]any{"score": score})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	if ticket.UserID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("only closed tickets can be rated", map[string]any{"ticket_id": ticketID, "status": ticket.Status})
	}

	rating := &domain.EmployeeRating{
		TicketID:   ticket.ID,
		EmployeeID: ticket.ClosedBy,
		UserID:     userID,
		Score:      score,
		Comment:    strings.TrimSpace(comment),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("ticket already rated", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: userID, Role: domain.RoleUser},
		Payload:  events.TicketRatedPayload{EmployeeID: ticket.ClosedBy, Score: score},
	})
	return rating, nil
}
