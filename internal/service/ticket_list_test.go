package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func sampleTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "1", Title: "VPN drops hourly", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh},
		{ID: "2", Title: "Mailbox full", Status: domain.TicketStatusAnswered, Priority: domain.TicketPriorityLow},
		{ID: "3", Title: "New vpn token", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityHigh},
		{ID: "4", Title: "Printer offline", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium},
		{ID: "5", Title: "VPN client crash", Status: domain.TicketStatusRequested, Priority: domain.TicketPriorityLow},
	}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTickets(t *testing.T) {
	tests := []struct {
		name  string
		query TicketListQuery
		want  []string
	}{
		{name: "no filters", query: TicketListQuery{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "all keyword", query: TicketListQuery{Status: "All", Priority: "all"}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "search is case-insensitive and trimmed", query: TicketListQuery{Search: "  vpn "}, want: []string{"1", "3", "5"}},
		{name: "status filter", query: TicketListQuery{Status: "Open"}, want: []string{"1", "4"}},
		{name: "priority filter", query: TicketListQuery{Priority: "HIGH"}, want: []string{"1", "3"}},
		{name: "combined", query: TicketListQuery{Search: "vpn", Status: "open", Priority: "high"}, want: []string{"1"}},
		{name: "no match", query: TicketListQuery{Search: "keyboard"}, want: []string{}},
		{name: "unknown status matches nothing", query: TicketListQuery{Status: "pending"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterTickets(sampleTickets(), tt.query))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	tickets := make([]domain.Ticket, 12)
	for i := range tickets {
		tickets[i].ID = string(rune('a' + i))
	}

	tests := []struct {
		name      string
		page      int
		perPage   int
		wantFirst string
		wantLen   int
		wantPage  int
		wantPer   int
		wantPages int
	}{
		{name: "defaults", page: 0, perPage: 0, wantFirst: "a", wantLen: 5, wantPage: 1, wantPer: DefaultPerPage, wantPages: 3},
		{name: "last partial page", page: 3, perPage: 5, wantFirst: "k", wantLen: 2, wantPage: 3, wantPer: 5, wantPages: 3},
		{name: "past the end", page: 4, perPage: 5, wantLen: 0, wantPage: 4, wantPer: 5, wantPages: 3},
		{name: "page far past the end", page: 1<<57 + 1, perPage: 100, wantLen: 0, wantPage: 1<<57 + 1, wantPer: 100, wantPages: 1},
		{name: "capped page size", page: 1, perPage: 1000, wantFirst: "a", wantLen: 12, wantPage: 1, wantPer: MaxPerPage, wantPages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(tickets, tt.page, tt.perPage)
			if len(page.Items) != tt.wantLen || page.Page != tt.wantPage || page.PerPage != tt.wantPer || page.Pages != tt.wantPages || page.Total != 12 {
				t.Fatalf("unexpected page %+v", page)
			}
			if tt.wantLen > 0 && page.Items[0].ID != tt.wantFirst {
				t.Fatalf("first item = %s, want %s", page.Items[0].ID, tt.wantFirst)
			}
		})
	}

	empty := Paginate(nil, 1, 5)
	if empty.Items == nil || empty.Pages != 0 || empty.Total != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}

func TestListTicketPage(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 7; i++ {
		env.seedTicket(t, "u1", "Laptop issue", domain.TicketStatusOpen, domain.TicketPriorityLow)
	}
	env.seedTicket(t, "u1", "Desk phone", domain.TicketStatusOpen, domain.TicketPriorityLow)

	page, err := env.lifecycle.ListTicketPage(context.Background(), "u1", TicketListQuery{Search: "laptop", Page: 2})
	if err != nil {
		t.Fatalf("ListTicketPage failed: %v", err)
	}
	if page.Total != 7 || page.Pages != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
}
