package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRegisterRequest payload for new accounts.
type UserRegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is the client-visible session.
type SessionResponse struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ProfilePicture string      `json:"profile_picture,omitempty"`
	Authenticated  bool        `json:"authenticated"`
	ExpiresAt      time.Time   `json:"expires_at"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ProfilePicture *string     `json:"profile_picture"`
	Phone          *string     `json:"phone"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ProfileResponse pairs the account with its role statistics.
type ProfileResponse struct {
	User  UserResponse   `json:"user"`
	Stats map[string]int `json:"stats"`
}

// ProfileUpdateRequest accepts JSON or multipart form fields. The picture
// travels as the multipart file field "profile_picture".
type ProfileUpdateRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	OldPassword     string `json:"old_password" form:"old_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}
