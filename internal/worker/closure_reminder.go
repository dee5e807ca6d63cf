package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// sweepTimeout bounds one reminder run.
const sweepTimeout = time.Minute

// ClosureReminder periodically re-announces tickets whose closure is still
// waiting for the owner's confirmation.
type ClosureReminder struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	schedule   string
	cron       *cron.Cron
	now        func() time.Time
}

// NewClosureReminder builds the worker. An empty schedule disables it.
func NewClosureReminder(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger, schedule string) *ClosureReminder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClosureReminder{
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
		schedule:   strings.TrimSpace(schedule),
		now:        time.Now,
	}
}

// Start parses the schedule and runs Sweep on it in the background. Standard
// five-field expressions and descriptors such as "@every 1h" are accepted.
func (r *ClosureReminder) Start() error {
	if r.schedule == "" {
		r.logger.Info("closure reminder disabled")
		return nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	scheduler := cron.New(cron.WithParser(parser))
	if _, err := scheduler.AddFunc(r.schedule, r.run); err != nil {
		return fmt.Errorf("invalid closure reminder schedule %q: %w", r.schedule, err)
	}
	r.cron = scheduler
	scheduler.Start()
	r.logger.Info("closure reminder scheduled", zap.String("schedule", r.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep until ctx is done.
func (r *ClosureReminder) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		r.logger.Warn("closure reminder stop timed out")
	}
}

func (r *ClosureReminder) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	sent, err := r.Sweep(ctx)
	if err != nil {
		r.logger.Error("closure reminder sweep failed", zap.Error(err))
		return
	}
	r.logger.Info("closure reminder sweep complete", zap.Int("reminders", sent))
}

// Sweep publishes one closure_reminder event per ticket in the requested state.
func (r *ClosureReminder) Sweep(ctx context.Context) (int, error) {
	pending, err := r.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusRequested},
	})
	if err != nil {
		return 0, fmt.Errorf("list requested tickets: %w", err)
	}
	sent := 0
	for _, ticket := range pending {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventClosureReminder,
			TicketID:  ticket.ID,
			Timestamp: r.now(),
			Payload: events.ClosureReminderPayload{
				OwnerID:     ticket.UserID,
				RequestedAt: ticket.UpdatedAt,
			},
		}
		if ticket.ClosedBy != nil {
			event.Actor = events.Actor{UserID: *ticket.ClosedBy, Role: domain.RoleEmployee}
		}
		if err := r.dispatcher.Publish(ctx, event); err != nil {
			r.logger.Warn("closure reminder handler failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
