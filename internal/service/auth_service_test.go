package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestRegisterUserValidatesBeforeStoreCalls(t *testing.T) {
	env := newTestEnv(t)
	users := &countingUsers{UserRepository: env.store.Users()}
	svc := NewAuthService(config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost, OpenRoleSignup: true}}, AuthDependencies{
		UserRepo:     users,
		SessionStore: env.store.Sessions(),
	})

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{name: "weak password", input: RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "abc12345", ConfirmPassword: "abc12345"}},
		{name: "mismatch", input: RegisterInput{Name: "Ann", Email: "ann@example.com", Password: testPassword, ConfirmPassword: "Secret2!"}},
		{name: "missing name", input: RegisterInput{Email: "ann@example.com", Password: testPassword, ConfirmPassword: testPassword}},
		{name: "bad email", input: RegisterInput{Name: "Ann", Email: "ann", Password: testPassword, ConfirmPassword: testPassword}},
		{name: "unknown role", input: RegisterInput{Name: "Ann", Email: "ann@example.com", Password: testPassword, ConfirmPassword: testPassword, Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RegisterUser(context.Background(), tt.input); !apperrors.IsCode(err, "VALIDATION_FAILED") {
				t.Fatalf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
	if users.writes != 0 {
		t.Fatalf("expected no store writes, got %d", users.writes)
	}
}

func TestRegisterUserRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedAccount(t, "Ann", "Ann@Example.com", "")
	if user.Role != domain.RoleUser || user.Email != "ann@example.com" {
		t.Fatalf("unexpected account %+v", user)
	}
	employee := env.seedAccount(t, "Eve", "eve@example.com", domain.RoleEmployee)
	if employee.Role != domain.RoleEmployee {
		t.Fatalf("role = %s, want employee", employee.Role)
	}

	_, err := env.auth.RegisterUser(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: testPassword, ConfirmPassword: testPassword})
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT for duplicate email, got %v", err)
	}

	closed := NewAuthService(config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}, AuthDependencies{
		UserRepo:     env.store.Users(),
		SessionStore: env.store.Sessions(),
	})
	forced, err := closed.RegisterUser(ctx, RegisterInput{Name: "Mal", Email: "mal@example.com", Password: testPassword, ConfirmPassword: testPassword, Role: "admin"})
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if forced.Role != domain.RoleUser {
		t.Fatalf("closed signup must force user role, got %s", forced.Role)
	}
}

func TestLoginLogoutSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAccount(t, "Ann", "ann@example.com", domain.RoleUser)

	result, err := env.auth.Login(ctx, "ANN@example.com", testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" || !result.Session.Authenticated || result.Session.Name != "Ann" {
		t.Fatalf("unexpected login result %+v", result)
	}
	claims, err := env.auth.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.ID != result.Session.ID || claims.Subject != result.Profile.ID {
		t.Fatalf("token not bound to session: %+v", claims)
	}

	session, err := env.auth.CurrentSession(ctx, result.Session.ID)
	if err != nil || session.UserID != result.Profile.ID {
		t.Fatalf("CurrentSession = %+v, %v", session, err)
	}

	if err := env.auth.Logout(ctx, result.Session.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := env.auth.CurrentSession(ctx, result.Session.ID); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED after logout, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "Ann", "ann@example.com", domain.RoleUser)

	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{name: "policy checked first", email: "ann@example.com", password: "abc12345", wantCode: "VALIDATION_FAILED"},
		{name: "wrong password", email: "ann@example.com", password: "Wrong123!", wantCode: "UNAUTHORIZED"},
		{name: "unknown email", email: "bob@example.com", password: testPassword, wantCode: "UNAUTHORIZED"},
		{name: "empty email", email: " ", password: testPassword, wantCode: "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.auth.Login(context.Background(), tt.email, tt.password); !apperrors.IsCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}
