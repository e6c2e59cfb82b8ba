package domain

import "time"

// UserIdentity is the projection of a session that views are allowed to see.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token bundle issued by the auth provider. It is always replaced
// wholesale, never mutated in place.
type Session struct {
	ID           string       `json:"id"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserIdentity `json:"user"`
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// AuthEventType enumerates provider auth-state change notifications.
type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	AuthEventUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent is a single entry of the provider's change stream.
type AuthEvent struct {
	Type    AuthEventType `json:"type"`
	Session *Session      `json:"session,omitempty"`
	At      time.Time     `json:"at"`
}
