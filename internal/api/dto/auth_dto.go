package dto

import (
	"time"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/session"
)

// LoginRequest payload for POST /auth/:userType/login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterRequest payload for POST /auth/:userType/register. The fields that are required
// depend on the account type.
type RegisterRequest struct {
	Email         string `json:"email" form:"email"`
	Password      string `json:"password" form:"password"`
	FullName      string `json:"full_name" form:"full_name"`
	Mobile        string `json:"mobile" form:"mobile"`
	CollegeName   string `json:"college_name" form:"college_name"`
	CollegeID     string `json:"college_id" form:"college_id"`
	OfficerName   string `json:"placement_officer_name" form:"placement_officer_name"`
	OfficerEmail  string `json:"officer_email" form:"officer_email"`
	OfficerMobile string `json:"officer_mobile" form:"officer_mobile"`
}

// UserResponse is the public projection of a signed-in user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewUserResponse returns nil for a nil identity.
func NewUserResponse(user *domain.UserIdentity) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{ID: user.ID, Email: user.Email}
}

// SessionResponse describes the client's session state. Tokens never leave the server.
type SessionResponse struct {
	State     string        `json:"state"`
	Loading   bool          `json:"loading"`
	User      *UserResponse `json:"user,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

// NewSessionResponse converts a store snapshot.
func NewSessionResponse(snap session.Snapshot) SessionResponse {
	resp := SessionResponse{
		State:   string(snap.State),
		Loading: snap.Loading(),
		User:    NewUserResponse(snap.User),
	}
	if snap.Session != nil {
		exp := snap.Session.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}
