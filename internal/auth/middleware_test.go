package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func newTestApp(m *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	handlers := append([]fiber.Handler{m.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"user_id": p.UserID, "role": p.Role})
	})
	app.Get("/me", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	store := memory.NewStore()
	tokens := NewTokenManager("secret", 30)
	m := NewAuthMiddleware(tokens, store.Sessions())

	token, exp, err := tokens.GenerateToken("u1", domain.RoleUser, "s1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if err := store.Sessions().Save(context.Background(), &domain.Session{
		ID: "s1", UserID: "u1", Role: domain.RoleUser, Authenticated: true, ExpiresAt: exp,
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	orphan, _, _ := tokens.GenerateToken("u1", domain.RoleUser, "missing")

	tests := []struct {
		name   string
		header string
		guards []fiber.Handler
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "malformed", header: "Token abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "session gone", header: "Bearer " + orphan, status: http.StatusUnauthorized},
		{name: "ok", header: "Bearer " + token, status: http.StatusOK},
		{name: "role denied", header: "Bearer " + token, guards: []fiber.Handler{RequireRole(domain.RoleEmployee, domain.RoleAdmin)}, status: http.StatusForbidden},
		{name: "role allowed", header: "Bearer " + token, guards: []fiber.Handler{RequireRole(domain.RoleUser)}, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(m, tt.guards...)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, int(time.Second.Milliseconds()))
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusOK {
				var body map[string]string
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body["user_id"] != "u1" {
					t.Fatalf("unexpected body %v", body)
				}
			}
		})
	}
}
