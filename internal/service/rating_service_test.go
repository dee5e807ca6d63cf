package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestSubmitRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	employee := "e1"
	closed := &domain.Ticket{UserID: "u1", Title: "done", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityLow, ClosedBy: &employee}
	if err := env.store.Tickets().Create(ctx, closed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	open := env.seedTicket(t, "u1", "open", domain.TicketStatusOpen, domain.TicketPriorityLow)

	tests := []struct {
		name     string
		userID   string
		ticketID string
		score    int
		wantCode string
	}{
		{name: "score too low", userID: "u1", ticketID: closed.ID, score: 0, wantCode: "VALIDATION_FAILED"},
		{name: "score too high", userID: "u1", ticketID: closed.ID, score: 6, wantCode: "VALIDATION_FAILED"},
		{name: "not owner", userID: "u2", ticketID: closed.ID, score: 4, wantCode: "FORBIDDEN"},
		{name: "not closed", userID: "u1", ticketID: open.ID, score: 4, wantCode: "CONFLICT"},
		{name: "missing", userID: "u1", ticketID: "missing", score: 4, wantCode: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.ratings.SubmitRating(ctx, tt.userID, tt.ticketID, tt.score, ""); !apperrors.IsCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}

	rating, err := env.ratings.SubmitRating(ctx, "u1", closed.ID, 4, "  thanks ")
	if err != nil {
		t.Fatalf("SubmitRating failed: %v", err)
	}
	if rating.EmployeeID == nil || *rating.EmployeeID != "e1" || rating.Comment != "thanks" {
		t.Fatalf("unexpected rating %+v", rating)
	}
	if _, err := env.ratings.SubmitRating(ctx, "u1", closed.ID, 5, ""); !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT for second rating, got %v", err)
	}
}
