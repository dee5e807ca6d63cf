package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/imagehost"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
)

const testPassword = "Secret1!"

type testEnv struct {
	store      *memory.Store
	clock      time.Time
	dispatcher events.Dispatcher
	published  []events.Event
	lifecycle  *LifecycleService
	auth       *AuthService
	profiles   *ProfileService
	ratings    *RatingService
	assigner   *AssignmentService
	uploader   *fakeUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:      memory.NewStore(),
		clock:      time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		dispatcher: events.NewInMemoryDispatcher(),
		uploader:   &fakeUploader{uri: "https://img.example.com/avatar.png"},
	}
	env.store.SetClock(func() time.Time { return env.clock })
	for _, eventType := range []events.EventType{
		events.EventTicketCreated, events.EventTicketAssigned, events.EventTicketConnected,
		events.EventClosureRequested, events.EventTicketClosed, events.EventTicketRated,
		events.EventProfileUpdated,
	} {
		env.dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			env.published = append(env.published, e)
			return nil
		})
	}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
		OpenRoleSignup:        true,
	}}
	env.lifecycle = NewLifecycleService(LifecycleDependencies{
		TicketRepo:     env.store.Tickets(),
		AssignmentRepo: env.store.Assignments(),
		RatingRepo:     env.store.Ratings(),
		Dispatcher:     env.dispatcher,
	})
	env.auth = NewAuthService(cfg, AuthDependencies{
		UserRepo:     env.store.Users(),
		SessionStore: env.store.Sessions(),
	})
	env.profiles = NewProfileService(ProfileDependencies{
		UserRepo:       env.store.Users(),
		TicketRepo:     env.store.Tickets(),
		AssignmentRepo: env.store.Assignments(),
		AuthService:    env.auth,
		Uploader:       env.uploader,
		MaxUploadBytes: 5 << 20,
		Dispatcher:     env.dispatcher,
	})
	env.ratings = NewRatingService(env.store.Tickets(), env.store.Ratings(), env.dispatcher, nil)
	env.assigner = NewAssignmentService(AssignmentDependencies{
		TicketRepo:     env.store.Tickets(),
		UserRepo:       env.store.Users(),
		AssignmentRepo: env.store.Assignments(),
		Dispatcher:     env.dispatcher,
	})
	return env
}

// seedTicket inserts a ticket one minute after the previous one.
func (e *testEnv) seedTicket(t *testing.T, userID, title string, status domain.TicketStatus, priority domain.TicketPriority) *domain.Ticket {
	t.Helper()
	e.clock = e.clock.Add(time.Minute)
	ticket := &domain.Ticket{UserID: userID, Title: title, Status: status, Priority: priority}
	if err := e.store.Tickets().Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func (e *testEnv) seedAccount(t *testing.T, name, email string, role domain.Role) *domain.UserProfile {
	t.Helper()
	user, err := e.auth.RegisterUser(context.Background(), RegisterInput{
		Name:            name,
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            string(role),
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return user
}

func (e *testEnv) assign(t *testing.T, employeeID, ticketID string) {
	t.Helper()
	if err := e.store.Assignments().Create(context.Background(), &domain.Assignment{EmployeeID: employeeID, TicketID: ticketID}); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
}

func (e *testEnv) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(e.published))
	for _, ev := range e.published {
		types = append(types, ev.Type)
	}
	return types
}

type fakeUploader struct {
	uri   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(_ context.Context, _ imagehost.Image) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.uri, nil
}

// failingTransitions rejects every status change with a store error.
type failingTransitions struct {
	repository.TicketRepository
}

var errStoreDown = errors.New("store unavailable")

func (failingTransitions) Transition(context.Context, repository.TicketTransition) (*domain.Ticket, error) {
	return nil, errStoreDown
}

// countingUsers records writes so tests can assert nothing was persisted.
type countingUsers struct {
	repository.UserRepository
	writes int
}

func (c *countingUsers) Update(ctx context.Context, user *domain.UserProfile) error {
	c.writes++
	return c.UserRepository.Update(ctx, user)
}

func (c *countingUsers) Create(ctx context.Context, user *domain.UserProfile) error {
	c.writes++
	return c.UserRepository.Create(ctx, user)
}
