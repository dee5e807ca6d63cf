package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DashboardStats are the counters on the user dashboard.
type DashboardStats struct {
	Pending    int
	InProgress int
	Resolved   int
	Urgent     int
}

// Dashboard is the signed-in user's landing view.
type Dashboard struct {
	Stats  DashboardStats
	Recent []domain.Ticket
	Prompt Prompt
}

// recentTickets is how many of the newest tickets the dashboard shows.
const recentTickets = 5

// DashboardService assembles the dashboard from the lifecycle service.
type DashboardService struct {
	lifecycle *LifecycleService
	logger    *zap.Logger
}

// NewDashboardService creates the service.
func NewDashboardService(lifecycle *LifecycleService, logger *zap.Logger) *DashboardService {
	return &DashboardService{lifecycle: lifecycle, logger: loggerOrNop(logger)}
}

// ComputeStats counts tickets per dashboard bucket.
func ComputeStats(tickets []domain.Ticket) DashboardStats {
	var stats DashboardStats
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Pending++
		case domain.TicketStatusAnswered:
			stats.InProgress++
		case domain.TicketStatusClosed:
			stats.Resolved++
		}
		if t.Priority == domain.TicketPriorityHigh {
			stats.Urgent++
		}
	}
	return stats
}

// Load builds the dashboard. A failed prompt lookup is logged and the
// dashboard is returned without a prompt.
func (s *DashboardService) Load(ctx context.Context, userID string) (*Dashboard, error) {
	tickets, err := s.lifecycle.ListTicketsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Stats:  ComputeStats(tickets),
		Recent: newestFirst(tickets, recentTickets),
		Prompt: Prompt{Kind: PromptNone},
	}
	prompt, err := s.lifecycle.ResolvePrompt(ctx, tickets)
	if err != nil {
		s.logger.Warn("resolve dashboard prompt failed", zap.String("user_id", userID), zap.Error(err))
		return dashboard, nil
	}
	dashboard.Prompt = prompt
	return dashboard, nil
}

func newestFirst(tickets []domain.Ticket, limit int) []domain.Ticket {
	recent := make([]domain.Ticket, 0, limit)
	for i := len(tickets) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, tickets[i])
	}
	return recent
}
