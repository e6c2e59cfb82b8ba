package provider

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/portal/internal/auth"
	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/events"
	"github.com/placement-hub/portal/internal/persistence"
	"github.com/placement-hub/portal/internal/repository"
)

type memAccounts struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Account
	seq     int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]*domain.Account{}}
}

func (m *memAccounts) Create(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[account.Email]; ok {
		return repository.ErrDuplicate
	}
	m.seq++
	account.ID = "user-" + strconv.Itoa(m.seq)
	stored := *account
	m.byEmail[account.Email] = &stored
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byEmail {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

type fixture struct {
	hosted *Hosted
	bus    *events.InMemoryBus
	mr     *miniredis.Miniredis
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{bus: events.NewInMemoryBus(), mr: mr, now: time.Now()}
	tokens := auth.NewTokenManager("test-secret", 1, 60).WithClock(func() time.Time { return f.now })
	f.hosted = NewHosted(HostedDependencies{
		Accounts:   newMemAccounts(),
		Tokens:     tokens,
		Storage:    NewRedisStorage(&persistence.Redis{Client: rdb, KeyPrefix: "test"}),
		Bus:        f.bus,
		BcryptCost: 4,
	})
	f.hosted.now = func() time.Time { return f.now }
	return f
}

func record(t *testing.T, c *Client) *[]domain.AuthEvent {
	t.Helper()
	var got []domain.AuthEvent
	sub, err := c.OnAuthStateChange(func(e domain.AuthEvent) { got = append(got, e) })
	require.NoError(t, err)
	t.Cleanup(sub.Unsubscribe)
	return &got
}

func TestClient_SignUpSignsIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.hosted.Client("client-1")
	got := record(t, c)

	user, err := c.SignUp(ctx, " New@Example.com ", "secret1", map[string]string{"user_type": "student"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	session, err := c.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.User.ID)

	require.Len(t, *got, 1)
	assert.Equal(t, domain.AuthEventSignedIn, (*got)[0].Type)
	assert.Equal(t, session.ID, (*got)[0].Session.ID)
}

func TestClient_SignUpValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.hosted.Client("client-1")

	_, err := c.SignUp(ctx, "not-an-email", "secret1", nil)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = c.SignUp(ctx, "a@example.com", "123", nil)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = c.SignUp(ctx, "a@example.com", "secret1", nil)
	require.NoError(t, err)
	_, err = f.hosted.Client("client-2").SignUp(ctx, "A@example.com", "secret1", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestClient_SignInWithPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.hosted.Client("setup").SignUp(ctx, "s@example.com", "secret1", nil)
	require.NoError(t, err)

	c := f.hosted.Client("browser")
	got := record(t, c)

	_, err = c.SignInWithPassword(ctx, "s@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = c.SignInWithPassword(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, *got)

	user, err := c.SignInWithPassword(ctx, "S@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "s@example.com", user.Email)
	require.Len(t, *got, 1)
	assert.Equal(t, domain.AuthEventSignedIn, (*got)[0].Type)
}

func TestClient_GetSessionRefreshesExpiredAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.hosted.Client("client-1")
	got := record(t, c)

	_, err := c.SignUp(ctx, "r@example.com", "secret1", nil)
	require.NoError(t, err)
	first, err := c.GetSession(ctx)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Minute)
	refreshed, err := c.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, refreshed)

	assert.Equal(t, first.ID, refreshed.ID, "refresh keeps the session id")
	assert.NotEqual(t, first.AccessToken, refreshed.AccessToken)
	require.Len(t, *got, 2)
	assert.Equal(t, domain.AuthEventTokenRefreshed, (*got)[1].Type)
}

func TestClient_DeadRefreshTokenSignsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.hosted.Client("client-1")
	got := record(t, c)

	_, err := c.SignUp(ctx, "d@example.com", "secret1", nil)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	session, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
	require.Len(t, *got, 2)
	assert.Equal(t, domain.AuthEventSignedOut, (*got)[1].Type)
}

func TestClient_SignOutRevokes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.hosted.Client("client-1")
	got := record(t, c)

	_, err := c.SignUp(ctx, "o@example.com", "secret1", nil)
	require.NoError(t, err)
	session, err := c.GetSession(ctx)
	require.NoError(t, err)

	require.NoError(t, c.SignOut(ctx))
	after, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, after)

	revoked, err := f.hosted.storage.IsRevoked(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	require.Len(t, *got, 2)
	assert.Equal(t, domain.AuthEventSignedOut, (*got)[1].Type)

	require.NoError(t, c.SignOut(ctx), "signing out twice is harmless")
}

func TestClient_SignOutStorageFailure(t *testing.T) {
	f := newFixture(t)
	c := f.hosted.Client("client-1")
	f.mr.SetError("server down")

	err := c.SignOut(context.Background())
	require.Error(t, err)
}

func TestClient_OnAuthStateChangeRejectsNil(t *testing.T) {
	f := newFixture(t)
	_, err := f.hosted.Client("c").OnAuthStateChange(nil)
	require.Error(t, err)
}
