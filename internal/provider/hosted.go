package provider

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/auth"
	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/events"
	"github.com/placement-hub/portal/internal/repository"
)

// Hosted implements the provider on top of the account table, Redis session storage and
// an event bus. It hands out one Client per browser client.
type Hosted struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	storage    SessionStorage
	bus        events.Bus
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// HostedDependencies encapsulates what the hosted provider needs.
type HostedDependencies struct {
	Accounts   repository.AccountRepository
	Tokens     *auth.TokenManager
	Storage    SessionStorage
	Bus        events.Bus
	BcryptCost int
	Logger     *zap.Logger
}

// NewHosted builds the provider.
func NewHosted(deps HostedDependencies) *Hosted {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hosted{
		accounts:   deps.Accounts,
		tokens:     deps.Tokens,
		storage:    deps.Storage,
		bus:        deps.Bus,
		bcryptCost: deps.BcryptCost,
		logger:     logger.Named("provider"),
		now:        time.Now,
	}
}

// Client returns the provider handle for one browser client.
func (h *Hosted) Client(clientID string) *Client {
	return &Client{hosted: h, clientID: clientID}
}

// Client is the AuthProvider of a single browser client. Its auth operations are
// serialized so the events it emits follow the order of the state changes.
type Client struct {
	hosted   *Hosted
	clientID string
	mu       sync.Mutex
}

var _ AuthProvider = (*Client)(nil)

// GetSession returns the stored session, refreshing an expired access token when the
// refresh token is still good. A refresh emits TOKEN_REFRESHED; a dead refresh token
// clears the session and emits SIGNED_OUT.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.hosted.storage.Load(ctx, c.clientID)
	if err != nil || session == nil {
		return nil, err
	}

	revoked, err := c.hosted.storage.IsRevoked(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		if err := c.hosted.storage.Delete(ctx, c.clientID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if !session.Expired(c.hosted.now()) {
		return session, nil
	}
	return c.refreshLocked(ctx, session)
}

// RefreshSession rotates the token pair of the current session.
func (c *Client) RefreshSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.hosted.storage.Load(ctx, c.clientID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("no session to refresh")
	}
	return c.refreshLocked(ctx, session)
}

func (c *Client) refreshLocked(ctx context.Context, current *domain.Session) (*domain.Session, error) {
	claims, err := c.hosted.tokens.ParseToken(current.RefreshToken, auth.TokenRefresh)
	if err != nil {
		c.hosted.logger.Info("refresh token rejected; signing client out",
			zap.String("client_id", c.clientID), zap.Error(err))
		if err := c.hosted.storage.Delete(ctx, c.clientID); err != nil {
			return nil, err
		}
		c.emit(ctx, domain.AuthEventSignedOut, nil)
		return nil, nil
	}

	user := domain.UserIdentity{ID: claims.Subject, Email: claims.Email}
	next, err := c.hosted.tokens.IssueSession(user, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refreshed session: %w", err)
	}
	if err := c.hosted.storage.Save(ctx, c.clientID, next, c.hosted.tokens.RefreshTTL()); err != nil {
		return nil, err
	}
	c.emit(ctx, domain.AuthEventTokenRefreshed, next)
	return next, nil
}

// OnAuthStateChange registers handler for this client's events.
func (c *Client) OnAuthStateChange(handler events.Handler) (events.Subscription, error) {
	if handler == nil {
		return nil, errors.New("nil auth state handler")
	}
	return c.hosted.bus.Subscribe(c.clientID, handler), nil
}

// SignInWithPassword verifies credentials and starts a new session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	account, err := c.hosted.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := account.Identity()
	if err := c.startSessionLocked(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignUp creates an account and signs the client in.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.UserIdentity, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password, c.hosted.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	account := &domain.Account{Email: email, PasswordHash: hash, Metadata: metadata}
	if err := c.hosted.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	user := account.Identity()
	if err := c.startSessionLocked(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the current session, clears client storage and emits SIGNED_OUT.
// SIGNED_OUT is emitted even when the client had no session.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.hosted.storage.Load(ctx, c.clientID)
	if err != nil {
		return err
	}
	if session != nil {
		if err := c.hosted.storage.Revoke(ctx, session.ID, c.hosted.tokens.RefreshTTL()); err != nil {
			return err
		}
	}
	if err := c.hosted.storage.Delete(ctx, c.clientID); err != nil {
		return err
	}
	c.emit(ctx, domain.AuthEventSignedOut, nil)
	return nil
}

func (c *Client) startSessionLocked(ctx context.Context, user domain.UserIdentity) error {
	session, err := c.hosted.tokens.IssueSession(user, uuid.NewString())
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}
	if err := c.hosted.storage.Save(ctx, c.clientID, session, c.hosted.tokens.RefreshTTL()); err != nil {
		return err
	}
	c.emit(ctx, domain.AuthEventSignedIn, session)
	return nil
}

func (c *Client) emit(ctx context.Context, kind domain.AuthEventType, session *domain.Session) {
	event := domain.AuthEvent{Type: kind, Session: session, At: c.hosted.now()}
	if err := c.hosted.bus.Publish(ctx, c.clientID, event); err != nil {
		c.hosted.logger.Warn("auth event publish failed",
			zap.String("client_id", c.clientID),
			zap.String("event", string(kind)),
			zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
