package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Session == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func actorFrom(principal *auth.Principal) service.Actor {
	return service.Actor{ID: principal.UserID, Role: principal.Role}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:            ticket.ID,
		UserID:        ticket.UserID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		ClosedBy:      ticket.ClosedBy,
		ChatInitiated: ticket.ChatInitiated,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func promptResponse(prompt service.Prompt) dto.PromptResponse {
	resp := dto.PromptResponse{Kind: string(prompt.Kind)}
	if prompt.Ticket != nil {
		ticket := ticketResponse(prompt.Ticket)
		resp.Ticket = &ticket
	}
	return resp
}

func sessionResponse(session *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:             session.ID,
		UserID:         session.UserID,
		Name:           session.Name,
		Email:          session.Email,
		Role:           session.Role,
		ProfilePicture: session.ProfilePicture,
		Authenticated:  session.Authenticated,
		ExpiresAt:      session.ExpiresAt,
	}
}

func userResponse(user *domain.UserProfile) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
		Phone:          user.Phone,
		CreatedAt:      user.CreatedAt,
	}
}

func profileResponse(profile *service.Profile) dto.ProfileResponse {
	stats := make(map[string]int, len(profile.Stats))
	for k, v := range profile.Stats {
		stats[k] = v
	}
	return dto.ProfileResponse{User: userResponse(profile.User), Stats: stats}
}
