package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusOpen, TicketStatusAnswered, true},
		{TicketStatusAnswered, TicketStatusRequested, true},
		{TicketStatusRequested, TicketStatusClosed, true},
		{TicketStatusRequested, TicketStatusAnswered, true},
		{TicketStatusAnswered, TicketStatusAnswered, true},
		{TicketStatusOpen, TicketStatusRequested, false},
		{TicketStatusOpen, TicketStatusClosed, false},
		{TicketStatusAnswered, TicketStatusClosed, false},
		{TicketStatusClosed, TicketStatusAnswered, false},
		{TicketStatusClosed, TicketStatusOpen, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseTicketStatusAndPriority(t *testing.T) {
	if s, ok := ParseTicketStatus(" Requested "); !ok || s != TicketStatusRequested {
		t.Fatalf("ParseTicketStatus = %q, %v", s, ok)
	}
	if _, ok := ParseTicketStatus("pending"); ok {
		t.Fatal("pending is not a ticket status")
	}
	if p, ok := ParseTicketPriority("HIGH"); !ok || p != TicketPriorityHigh {
		t.Fatalf("ParseTicketPriority = %q, %v", p, ok)
	}
	if _, ok := ParseTicketPriority("urgent"); ok {
		t.Fatal("urgent is not a priority")
	}
}

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{"user": RoleUser, "Employee": RoleEmployee, " admin": RoleAdmin} {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Errorf("ParseRole(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatal("root must not parse")
	}
	if RoleUser.IsStaff() || !RoleEmployee.IsStaff() || !RoleAdmin.IsStaff() {
		t.Fatal("IsStaff mismatch")
	}
}
