package domain

import "time"

// Session is the server-side record of a signed-in account. It carries the
// display fields the dashboard and navbar need on every request.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Authenticated  bool      `json:"authenticated"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionFromProfile builds a session for a freshly authenticated profile.
func SessionFromProfile(id string, profile *UserProfile, createdAt, expiresAt time.Time) *Session {
	session := &Session{
		ID:            id,
		UserID:        profile.ID,
		Name:          profile.Name,
		Email:         profile.Email,
		Role:          profile.Role,
		Authenticated: true,
		CreatedAt:     createdAt,
		ExpiresAt:     expiresAt,
	}
	if profile.ProfilePicture != nil {
		session.ProfilePicture = *profile.ProfilePicture
	}
	return session
}
