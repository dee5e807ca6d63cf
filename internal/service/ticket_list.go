package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DefaultPerPage is the ticket list page size when none is requested.
const DefaultPerPage = 5

// MaxPerPage caps the requested page size.
const MaxPerPage = 100

// filterAll matches every value of a status or priority filter.
const filterAll = "all"

// TicketListQuery captures the list screen's search box, dropdowns and pager.
type TicketListQuery struct {
	Search   string
	Status   string
	Priority string
	Page     int
	PerPage  int
}

// TicketPage is one page of a filtered ticket list.
type TicketPage struct {
	Items   []domain.Ticket
	Page    int
	PerPage int
	Total   int
	Pages   int
}

// FilterTickets keeps tickets whose title contains the search term and whose
// status and priority match the filters. Empty or "All" filters match anything.
// Input order is preserved.
func FilterTickets(tickets []domain.Ticket, query TicketListQuery) []domain.Ticket {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	status := normalizeFilter(query.Status)
	priority := normalizeFilter(query.Priority)

	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		if priority != "" && string(t.Priority) != priority {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// Paginate slices tickets into a 1-based page. Pages past the end are empty.
func Paginate(tickets []domain.Ticket, page, perPage int) TicketPage {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	total := len(tickets)
	result := TicketPage{
		Items:   []domain.Ticket{},
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   (total + perPage - 1) / perPage,
	}
	if page > result.Pages {
		return result
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	result.Items = append(result.Items, tickets[start:end]...)
	return result
}

// ListTicketPage loads the user's tickets and applies the list query.
func (s *LifecycleService) ListTicketPage(ctx context.Context, userID string, query TicketListQuery) (TicketPage, error) {
	tickets, err := s.ListTicketsForUser(ctx, userID)
	if err != nil {
		return TicketPage{}, err
	}
	return Paginate(FilterTickets(tickets, query), query.Page, query.PerPage), nil
}

func normalizeFilter(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == filterAll {
		return ""
	}
	return value
}
