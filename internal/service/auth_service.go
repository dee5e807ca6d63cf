package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// errInvalidCredentials covers both an unknown email and a wrong password.
var errInvalidCredentials = apperrors.NewUnauthorized("invalid email or password")

// AuthService coordinates registration, sign-in and the session lifecycle.
type AuthService struct {
	users          repository.UserRepository
	sessions       repository.SessionStore
	tokenMgr       *auth.TokenManager
	bcryptCost     int
	openRoleSignup bool
	logger         *zap.Logger
	now            func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	SessionStore repository.SessionStore
	Logger       *zap.Logger
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Role            string
}

// LoginResult carries the issued token and the saved session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   *domain.Session
	Profile   *domain.UserProfile
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:          deps.UserRepo,
		sessions:       deps.SessionStore,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:     cfg.Auth.BcryptCost,
		openRoleSignup: cfg.Auth.OpenRoleSignup,
		logger:         loggerOrNop(deps.Logger),
		now:            time.Now,
	}
}

// RegisterUser creates an account. Every field is validated before the store is touched.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.UserProfile, error) {
	name := strings.TrimSpace(input.Name)
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if err := validatePasswordInput(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}
	role, err := s.signupRole(input.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.UserProfile{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        optionalString(input.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials, saves a new session and issues a token bound to it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Role, sessionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	session := domain.SessionFromProfile(sessionID, user, s.now(), expiresAt)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Session: session, Profile: user}, nil
}

// Logout removes the session so its token stops working.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// CurrentSession loads a live session.
func (s *AuthService) CurrentSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperrors.NewUnauthorized("session expired")
		}
		return nil, apperrors.MapError(err)
	}
	return session, nil
}

// Reauthenticate checks the current password of an account.
func (s *AuthService) Reauthenticate(ctx context.Context, userID, password string) (*domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"user_id": userID})
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewValidationError("old password is incorrect", nil)
	}
	return user, nil
}

// HashPassword hashes a password with the configured cost. Callers validate
// and reauthenticate first.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return hash, nil
}

// RefreshSession copies the profile's display fields into an existing session.
func (s *AuthService) RefreshSession(ctx context.Context, session *domain.Session, profile *domain.UserProfile) (*domain.Session, error) {
	refreshed := domain.SessionFromProfile(session.ID, profile, session.CreatedAt, session.ExpiresAt)
	if err := s.sessions.Save(ctx, refreshed); err != nil {
		return nil, apperrors.MapError(err)
	}
	return refreshed, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// SessionStore exposes the session store for middleware usage.
func (s *AuthService) SessionStore() repository.SessionStore {
	return s.sessions
}

func (s *AuthService) signupRole(raw string) (domain.Role, error) {
	if strings.TrimSpace(raw) == "" || !s.openRoleSignup {
		return domain.RoleUser, nil
	}
	role, ok := domain.ParseRole(raw)
	if !ok {
		return "", apperrors.NewValidationError("invalid role", map[string]any{"role": raw})
	}
	return role, nil
}

func validatePasswordInput(password, confirmation string) error {
	if err := auth.ValidatePasswordPair(password, confirmation); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.NewValidationError("email required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.NewValidationError("invalid email", map[string]any{"email": raw})
	}
	return email, nil
}

func optionalString(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}
