// Package memory provides in-process implementations of the repository
// interfaces. The API falls back to it when no POSTGRES_DSN is configured, and
// tests use it as the backing store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Store keeps every table in maps guarded by one lock.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	seq         int64
	users       map[string]*userRow
	tickets     map[string]*ticketRow
	assignments []domain.Assignment
	ratings     map[string]domain.EmployeeRating
	sessions    map[string]domain.Session
}

type userRow struct {
	domain.UserProfile
}

type ticketRow struct {
	domain.Ticket
	seq int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[string]*userRow),
		tickets:  make(map[string]*ticketRow),
		ratings:  make(map[string]domain.EmployeeRating),
		sessions: make(map[string]domain.Session),
	}
}

// SetClock overrides the time source used for timestamps and session expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Tickets exposes the ticket table.
func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }

// Users exposes the users table.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Assignments exposes the assignments table.
func (s *Store) Assignments() repository.AssignmentRepository { return assignmentRepo{s} }

// Ratings exposes the employee_ratings table.
func (s *Store) Ratings() repository.RatingRepository { return ratingRepo{s} }

// Sessions exposes the session store.
func (s *Store) Sessions() repository.SessionStore { return sessionStore{s} }

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	now := r.s.now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.s.tickets[ticket.ID] = &ticketRow{Ticket: cloneTicket(*ticket), seq: r.s.seq}
	return nil
}

func (r ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket := cloneTicket(row.Ticket)
	return &ticket, nil
}

func (r ticketRepo) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return r.ListWithFilter(ctx, repository.TicketFilter{UserID: &userID})
}

func (r ticketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.matching(filter)
	result := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		result = append(result, cloneTicket(row.Ticket))
	}
	return result, nil
}

func (r ticketRepo) Count(_ context.Context, filter repository.TicketFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.matching(filter)), nil
}

func (r ticketRepo) Transition(_ context.Context, t repository.TicketTransition) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.tickets[t.TicketID]
	if !ok || !containsStatus(t.From, row.Status) {
		return nil, pgx.ErrNoRows
	}
	row.Status = t.To
	if t.ClosedBy != nil {
		closedBy := *t.ClosedBy
		row.ClosedBy = &closedBy
	}
	if t.ChatInitiated != nil {
		row.ChatInitiated = *t.ChatInitiated
	}
	row.UpdatedAt = r.s.now()
	ticket := cloneTicket(row.Ticket)
	return &ticket, nil
}

// matching must be called with the lock held. Rows come back oldest first.
func (s *Store) matching(filter repository.TicketFilter) []*ticketRow {
	var ids map[string]struct{}
	if filter.IDs != nil {
		ids = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = struct{}{}
		}
	}
	var rows []*ticketRow
	for _, row := range s.tickets {
		if filter.UserID != nil && row.UserID != *filter.UserID {
			continue
		}
		if filter.ClosedBy != nil && (row.ClosedBy == nil || *row.ClosedBy != *filter.ClosedBy) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, row.Status) {
			continue
		}
		if ids != nil {
			if _, ok := ids[row.ID]; !ok {
				continue
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})
	return rows
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = &userRow{UserProfile: cloneUser(*user)}
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.s.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	row.Name = user.Name
	row.Email = user.Email
	row.ProfilePicture = cloneString(user.ProfilePicture)
	row.Phone = cloneString(user.Phone)
	if user.PasswordHash != "" {
		row.PasswordHash = user.PasswordHash
	}
	row.UpdatedAt = r.s.now()
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := cloneUser(row.UserProfile)
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if strings.EqualFold(row.Email, email) {
			user := cloneUser(row.UserProfile)
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) Count(_ context.Context, role *domain.Role) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if role == nil {
		return len(r.s.users), nil
	}
	count := 0
	for _, row := range r.s.users {
		if row.Role == *role {
			count++
		}
	}
	return count, nil
}

type assignmentRepo struct{ s *Store }

func (r assignmentRepo) Create(_ context.Context, assignment *domain.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.assignments {
		if existing.EmployeeID == assignment.EmployeeID && existing.TicketID == assignment.TicketID {
			return repository.ErrDuplicate
		}
	}
	assignment.ID = uuid.NewString()
	assignment.CreatedAt = r.s.now()
	r.s.assignments = append(r.s.assignments, *assignment)
	return nil
}

func (r assignmentRepo) ListByEmployee(_ context.Context, employeeID string) ([]domain.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Assignment
	for _, a := range r.s.assignments {
		if a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r assignmentRepo) Exists(_ context.Context, employeeID, ticketID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.assignments {
		if a.EmployeeID == employeeID && a.TicketID == ticketID {
			return true, nil
		}
	}
	return false, nil
}

type ratingRepo struct{ s *Store }

func (r ratingRepo) Create(_ context.Context, rating *domain.EmployeeRating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.ratings[rating.TicketID]; exists {
		return repository.ErrDuplicate
	}
	rating.ID = uuid.NewString()
	rating.CreatedAt = r.s.now()
	r.s.ratings[rating.TicketID] = *rating
	return nil
}

func (r ratingRepo) RatedTicketIDs(_ context.Context, ticketIDs []string) (map[string]struct{}, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rated := make(map[string]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		if _, ok := r.s.ratings[id]; ok {
			rated[id] = struct{}{}
		}
	}
	return rated, nil
}

type sessionStore struct{ s *Store }

func (r sessionStore) Save(_ context.Context, session *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if session.Expired(r.s.now()) {
		return repository.ErrSessionNotFound
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r sessionStore) Load(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok || session.Expired(r.s.now()) {
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

func (r sessionStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.ClosedBy = cloneString(t.ClosedBy)
	return t
}

func cloneUser(u domain.UserProfile) domain.UserProfile {
	u.ProfilePicture = cloneString(u.ProfilePicture)
	u.Phone = cloneString(u.Phone)
	return u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
