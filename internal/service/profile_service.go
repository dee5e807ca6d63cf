package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/imagehost"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Profile statistic keys.
const (
	StatOpen           = "open"
	StatAnswered       = "answered"
	StatClosed         = "closed"
	StatAssigned       = "assigned"
	StatTotalTickets   = "total_tickets"
	StatTotalUsers     = "total_users"
	StatTotalEmployees = "total_employees"
)

// RoleStats are the counters shown on a profile page. Keys depend on the role.
type RoleStats map[string]int

// Profile is an account together with its role statistics.
type Profile struct {
	User  *domain.UserProfile
	Stats RoleStats
}

// ProfileUpdateInput is the profile edit form. Empty NewPassword leaves the
// password unchanged; nil Picture keeps the current one.
type ProfileUpdateInput struct {
	Name            string
	Email           string
	Phone           string
	Picture         *imagehost.Image
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

type statsFunc func(ctx context.Context, userID string) (RoleStats, error)

// ProfileService reads and edits the signed-in account.
type ProfileService struct {
	users       repository.UserRepository
	tickets     repository.TicketRepository
	assignments repository.AssignmentRepository
	auth        *AuthService
	uploader    imagehost.Uploader
	maxUpload   int64
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	stats       map[domain.Role]statsFunc
}

// ProfileDependencies bundles collaborators for the profile service.
type ProfileDependencies struct {
	UserRepo       repository.UserRepository
	TicketRepo     repository.TicketRepository
	AssignmentRepo repository.AssignmentRepository
	AuthService    *AuthService
	Uploader       imagehost.Uploader
	MaxUploadBytes int64
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	s := &ProfileService{
		users:       deps.UserRepo,
		tickets:     deps.TicketRepo,
		assignments: deps.AssignmentRepo,
		auth:        deps.AuthService,
		uploader:    deps.Uploader,
		maxUpload:   deps.MaxUploadBytes,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
	}
	s.stats = map[domain.Role]statsFunc{
		domain.RoleUser:     s.userStats,
		domain.RoleEmployee: s.employeeStats,
		domain.RoleAdmin:    s.adminStats,
	}
	return s
}

// GetProfile loads the account and its role statistics. Statistics that
// cannot be computed are logged and reported as zero.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"user_id": userID})
	}
	return &Profile{User: user, Stats: s.statsFor(ctx, user)}, nil
}

// UpdateProfile validates the whole form and reauthenticates before writing.
// Profile fields and a new password hash are stored in a single update. The
// session is re-saved so its display fields follow the profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, session *domain.Session, input ProfileUpdateInput) (*Profile, *domain.Session, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, apperrors.NewValidationError("name required", nil)
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}
	changePassword := input.NewPassword != ""
	if changePassword {
		if input.OldPassword == "" {
			return nil, nil, apperrors.NewValidationError("old password is required to set a new password", nil)
		}
		if err := validateNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
			return nil, nil, err
		}
	}
	if input.Picture != nil {
		if err := imagehost.Validate(*input.Picture, s.maxUpload); err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error(), nil)
		}
	}

	var user *domain.UserProfile
	if changePassword {
		user, err = s.auth.Reauthenticate(ctx, session.UserID, input.OldPassword)
	} else {
		user, err = s.users.GetByID(ctx, session.UserID)
		if err != nil {
			err = notFoundOr(err, "user", map[string]any{"user_id": session.UserID})
		}
	}
	if err != nil {
		return nil, nil, err
	}

	var passwordHash string
	if changePassword {
		if passwordHash, err = s.auth.HashPassword(input.NewPassword); err != nil {
			return nil, nil, err
		}
	}
	if input.Picture != nil {
		uri, err := s.upload(ctx, *input.Picture)
		if err != nil {
			return nil, nil, err
		}
		user.ProfilePicture = &uri
	}
	user.Name = name
	user.Email = email
	user.Phone = optionalString(input.Phone)
	if changePassword {
		user.PasswordHash = passwordHash
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, nil, notFoundOr(err, "user", map[string]any{"user_id": user.ID})
	}
	refreshed, err := s.auth.RefreshSession(ctx, session, user)
	if err != nil {
		return nil, nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:  events.EventProfileUpdated,
		Actor: events.Actor{UserID: user.ID, Role: user.Role},
		Payload: map[string]any{
			"password_changed": changePassword,
			"picture_changed":  input.Picture != nil,
		},
	})
	return &Profile{User: user, Stats: s.statsFor(ctx, user)}, refreshed, nil
}

func (s *ProfileService) upload(ctx context.Context, image imagehost.Image) (string, error) {
	if s.uploader == nil {
		return "", apperrors.NewUpstreamError("image upload unavailable", imagehost.ErrNotConfigured)
	}
	uri, err := s.uploader.Upload(ctx, image)
	if err != nil {
		if errors.Is(err, imagehost.ErrNotImage) || errors.Is(err, imagehost.ErrTooLarge) {
			return "", apperrors.NewValidationError(err.Error(), nil)
		}
		return "", apperrors.NewUpstreamError("image upload failed", err)
	}
	return uri, nil
}

func (s *ProfileService) statsFor(ctx context.Context, user *domain.UserProfile) RoleStats {
	compute, ok := s.stats[user.Role]
	if !ok {
		s.logger.Warn("no statistics for role", zap.String("role", string(user.Role)))
		return RoleStats{}
	}
	stats, err := compute(ctx, user.ID)
	if err != nil {
		s.logger.Warn("profile statistics unavailable",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)),
			zap.Error(err))
		return zeroStats(user.Role)
	}
	return stats
}

func (s *ProfileService) userStats(ctx context.Context, userID string) (RoleStats, error) {
	stats := RoleStats{}
	for key, status := range map[string]domain.TicketStatus{
		StatOpen:     domain.TicketStatusOpen,
		StatAnswered: domain.TicketStatusAnswered,
		StatClosed:   domain.TicketStatusClosed,
	} {
		count, err := s.tickets.Count(ctx, repository.TicketFilter{
			UserID:   &userID,
			Statuses: []domain.TicketStatus{status},
		})
		if err != nil {
			return nil, err
		}
		stats[key] = count
	}
	return stats, nil
}

func (s *ProfileService) employeeStats(ctx context.Context, employeeID string) (RoleStats, error) {
	open, err := s.tickets.Count(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusOpen}})
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	closed, err := s.tickets.Count(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusClosed},
		ClosedBy: &employeeID,
	})
	if err != nil {
		return nil, err
	}
	return RoleStats{StatOpen: open, StatAssigned: len(assignments), StatClosed: closed}, nil
}

func (s *ProfileService) adminStats(ctx context.Context, _ string) (RoleStats, error) {
	total, err := s.tickets.Count(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}
	userRole, employeeRole := domain.RoleUser, domain.RoleEmployee
	users, err := s.users.Count(ctx, &userRole)
	if err != nil {
		return nil, err
	}
	employees, err := s.users.Count(ctx, &employeeRole)
	if err != nil {
		return nil, err
	}
	return RoleStats{StatTotalTickets: total, StatTotalUsers: users, StatTotalEmployees: employees}, nil
}

func zeroStats(role domain.Role) RoleStats {
	switch role {
	case domain.RoleEmployee:
		return RoleStats{StatOpen: 0, StatAssigned: 0, StatClosed: 0}
	case domain.RoleAdmin:
		return RoleStats{StatTotalTickets: 0, StatTotalUsers: 0, StatTotalEmployees: 0}
	default:
		return RoleStats{StatOpen: 0, StatAnswered: 0, StatClosed: 0}
	}
}

func validateNewPassword(password, confirmation string) error {
	if confirmation == "" {
		if err := auth.ValidatePassword(password); err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		return nil
	}
	return validatePasswordInput(password, confirmation)
}
