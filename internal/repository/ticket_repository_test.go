package repository

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestBuildTicketWhere(t *testing.T) {
	userID, closedBy := "u1", "e1"
	tests := []struct {
		name      string
		filter    TicketFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty",
			filter:    TicketFilter{},
			wantWhere: "1=1",
			wantArgs:  []any{},
		},
		{
			name:      "owner and statuses",
			filter:    TicketFilter{UserID: &userID, Statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusAnswered}},
			wantWhere: "1=1 AND user_id=$1 AND status IN ($2,$3)",
			wantArgs:  []any{"u1", domain.TicketStatusOpen, domain.TicketStatusAnswered},
		},
		{
			name: "every predicate",
			filter: TicketFilter{
				UserID:   &userID,
				ClosedBy: &closedBy,
				Statuses: []domain.TicketStatus{domain.TicketStatusClosed},
				IDs:      []string{"t1", "t2"},
			},
			wantWhere: "1=1 AND user_id=$1 AND closed_by=$2 AND status IN ($3) AND id::text = ANY($4)",
			wantArgs:  []any{"u1", "e1", domain.TicketStatusClosed, []string{"t1", "t2"}},
		},
		{
			name:      "empty id list still filters",
			filter:    TicketFilter{IDs: []string{}},
			wantWhere: "1=1 AND id::text = ANY($1)",
			wantArgs:  []any{[]string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildTicketWhere(tt.filter)
			if where != tt.wantWhere {
				t.Fatalf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildTransition(t *testing.T) {
	closedBy := "e1"
	query, args, err := buildTransition(TicketTransition{
		TicketID: "t1",
		From:     []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusAnswered},
		To:       domain.TicketStatusRequested,
		ClosedBy: &closedBy,
	})
	if err != nil {
		t.Fatalf("buildTransition failed: %v", err)
	}
	for _, fragment := range []string{
		"SET status=$1",
		"closed_by=COALESCE($2, closed_by)",
		"chat_initiated=COALESCE($3, chat_initiated)",
		"WHERE id=$4 AND status IN ($5,$6)",
		"RETURNING " + ticketColumns,
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("query missing %q:\n%s", fragment, query)
		}
	}
	if len(args) != 6 || args[0] != domain.TicketStatusRequested || args[3] != "t1" || args[5] != domain.TicketStatusAnswered {
		t.Fatalf("unexpected args %#v", args)
	}
	if args[1].(*string) != &closedBy || args[2].(*bool) != nil {
		t.Fatalf("unexpected optional args %#v", args)
	}

	if _, _, err := buildTransition(TicketTransition{TicketID: "t1", To: domain.TicketStatusClosed}); err == nil {
		t.Fatal("expected error without source states")
	}
}
