package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
)

func TestSweepRemindsRequestedTickets(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	employee := "e1"
	for _, ticket := range []*domain.Ticket{
		{UserID: "u1", Title: "a", Status: domain.TicketStatusRequested, ClosedBy: &employee},
		{UserID: "u2", Title: "b", Status: domain.TicketStatusRequested},
		{UserID: "u1", Title: "c", Status: domain.TicketStatusAnswered},
		{UserID: "u1", Title: "d", Status: domain.TicketStatusClosed},
	} {
		if err := store.Tickets().Create(ctx, ticket); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	owners := map[string]bool{}
	dispatcher.Subscribe(events.EventClosureReminder, func(_ context.Context, e events.Event) error {
		payload := e.Payload.(events.ClosureReminderPayload)
		owners[payload.OwnerID] = true
		if payload.OwnerID == "u2" {
			return errors.New("mailer down")
		}
		return nil
	})

	sent, err := NewClosureReminder(store.Tickets(), dispatcher, nil, "@every 1h").Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if !owners["u1"] || !owners["u2"] || len(owners) != 2 {
		t.Fatalf("unexpected owners %v", owners)
	}
}

func TestStartValidatesSchedule(t *testing.T) {
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()

	if err := NewClosureReminder(store.Tickets(), dispatcher, nil, "not a schedule").Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}

	disabled := NewClosureReminder(store.Tickets(), dispatcher, nil, " ")
	if err := disabled.Start(); err != nil {
		t.Fatalf("disabled reminder should start cleanly: %v", err)
	}
	disabled.Stop(context.Background())

	reminder := NewClosureReminder(store.Tickets(), dispatcher, nil, "@every 1h")
	if err := reminder.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	reminder.Stop(context.Background())
}
