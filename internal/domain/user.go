package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account kinds. Parse it once with ParseRole.
type Role string

const (
	RoleUser     Role = "user"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleUser, RoleEmployee, RoleAdmin:
		return role, true
	}
	return "", false
}

// IsStaff reports whether the role works the support queue.
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// UserProfile is the account record for users, employees and admins.
type UserProfile struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	ProfilePicture *string
	Phone          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
