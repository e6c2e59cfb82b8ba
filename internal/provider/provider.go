// Package provider is the port to the backend service that owns accounts, sessions
// and the portal tables, together with the hosted adapter used in production.
package provider

import (
	"context"
	"errors"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/events"
	"github.com/placement-hub/portal/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrEmailTaken is returned by SignUp when the email already has an account.
	ErrEmailTaken = errors.New("user already registered")
	// ErrWeakPassword is returned by SignUp for passwords shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password should be at least 6 characters")
	// ErrInvalidEmail is returned by SignUp for an empty or malformed email.
	ErrInvalidEmail = errors.New("invalid email address")
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

// AuthProvider is the auth surface of the backend as seen by one browser client.
type AuthProvider interface {
	// GetSession returns the client's current session, or nil when signed out.
	GetSession(ctx context.Context) (*domain.Session, error)
	// OnAuthStateChange registers handler for the client's auth events.
	OnAuthStateChange(handler events.Handler) (events.Subscription, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.UserIdentity, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.UserIdentity, error)
	SignOut(ctx context.Context) error
}

// Tables bundles row-level access to the portal tables.
type Tables struct {
	Profiles repository.ProfileRepository
	Students repository.StudentRepository
	Colleges repository.CollegeRepository
}
