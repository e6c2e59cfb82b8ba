package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/provider"
)

func (p *fakeProvider) SignInWithPassword(context.Context, string, string) (*domain.UserIdentity, error) {
	return nil, errors.New("not supported")
}

func (p *fakeProvider) SignUp(context.Context, string, string, map[string]string) (*domain.UserIdentity, error) {
	return nil, errors.New("not supported")
}

func waitReady(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(time.Second):
		t.Fatal("client did not finish initialization")
	}
}

func TestRegistry_AcquireCreatesOnce(t *testing.T) {
	providers := map[string]*fakeProvider{}
	r := NewRegistry(func(id string) provider.AuthProvider {
		p := newFakeProvider()
		p.session = sess("s-"+id, "u-"+id)
		providers[id] = p
		return p
	}, RegistryOptions{}, nil, nil)
	defer r.Close()

	first := r.Acquire("a")
	second := r.Acquire("a")
	require.Same(t, first, second)
	assert.Len(t, providers, 1)

	waitReady(t, first)
	assert.Equal(t, StateAuthenticated, first.Store.State())
	assert.Equal(t, "u-a", first.Store.CurrentUser().ID)
	assert.Equal(t, 1, providers["a"].bus.Listeners(topic), "store listens before the initial fetch")
}

func TestRegistry_SweepEvictsIdleClients(t *testing.T) {
	var created []*fakeProvider
	r := NewRegistry(func(string) provider.AuthProvider {
		p := newFakeProvider()
		created = append(created, p)
		return p
	}, RegistryOptions{IdleTimeout: time.Minute}, nil, nil)
	defer r.Close()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old := r.Acquire("old")
	waitReady(t, old)
	now = now.Add(45 * time.Second)
	fresh := r.Acquire("fresh")
	waitReady(t, fresh)
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	_, ok := r.Lookup("old")
	assert.False(t, ok)
	assert.Zero(t, created[0].bus.Listeners(topic), "evicted store must detach from the provider")
	assert.Equal(t, 1, created[1].bus.Listeners(topic))
}

func TestRegistry_TouchKeepsClientAlive(t *testing.T) {
	r := NewRegistry(func(string) provider.AuthProvider { return newFakeProvider() },
		RegistryOptions{IdleTimeout: time.Minute}, nil, nil)
	defer r.Close()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	waitReady(t, r.Acquire("a"))
	now = now.Add(50 * time.Second)
	r.Acquire("a")
	now = now.Add(50 * time.Second)

	assert.Zero(t, r.Sweep())
}

func TestRegistry_EvictAndClose(t *testing.T) {
	r := NewRegistry(func(string) provider.AuthProvider { return newFakeProvider() }, RegistryOptions{}, nil, nil)

	waitReady(t, r.Acquire("a"))
	waitReady(t, r.Acquire("b"))

	r.Evict("a")
	r.Evict("a")
	assert.Equal(t, 1, r.Len())

	r.Close()
	assert.Zero(t, r.Len())
}

func TestQueueNavigator_TakeReturnsLatest(t *testing.T) {
	q := NewQueueNavigator()
	_, ok := q.Take()
	assert.False(t, ok)

	q.RedirectToHome()
	q.RedirectToDashboard(domain.RoleCollege)
	assert.Equal(t, 2, q.Pending())

	nav, ok := q.Take()
	require.True(t, ok)
	assert.Equal(t, Navigation{Path: "/college/dashboard", Replace: true}, nav)
	assert.Zero(t, q.Pending())
}

func TestQueueNavigator_WaitUnblocksOnPush(t *testing.T) {
	q := NewQueueNavigator()
	done := make(chan Navigation, 1)
	go func() {
		nav, err := q.Wait(context.Background())
		if err == nil {
			done <- nav
		}
	}()

	q.RedirectToHome()

	select {
	case nav := <-done:
		assert.Equal(t, domain.HomePath, nav.Path)
	case <-time.After(time.Second):
		t.Fatal("wait did not return")
	}
}

func TestQueueNavigator_WaitHonorsContext(t *testing.T) {
	q := NewQueueNavigator()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueNavigator_RestoreKeepsNewerNavigation(t *testing.T) {
	q := NewQueueNavigator()
	q.RedirectToHome()
	nav, ok := q.Take()
	require.True(t, ok)

	q.Restore(nav)
	select {
	case <-q.Notify():
	default:
		t.Fatal("restore did not signal")
	}
	got, ok := q.Take()
	require.True(t, ok)
	assert.Equal(t, nav, got)

	q.RedirectToDashboard(domain.RoleStudent)
	q.Restore(nav)
	got, ok = q.Take()
	require.True(t, ok)
	assert.Equal(t, "/student/dashboard", got.Path, "a restored navigation never overrides a newer one")
}
