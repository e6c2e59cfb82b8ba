// Package session owns the authentication state of one browser client: the current
// session, the identity derived from it, and the lifecycle that moves between them.
package session

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/events"
	"github.com/placement-hub/portal/internal/observability"
)

// State is a SessionStore lifecycle state.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateLoading       State = "LOADING"
	StateAuthenticated State = "AUTHENTICATED"
	StateAnonymous     State = "ANONYMOUS"
	StateSigningOut    State = "SIGNING_OUT"
)

// Provider is the part of the auth provider the store depends on.
type Provider interface {
	GetSession(ctx context.Context) (*domain.Session, error)
	OnAuthStateChange(handler events.Handler) (events.Subscription, error)
	SignOut(ctx context.Context) error
}

// Navigator performs history-replacing navigations for the client.
type Navigator interface {
	RedirectToHome()
	RedirectToDashboard(role domain.Role)
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	State   State
	Session *domain.Session
	User    *domain.UserIdentity
}

// Loading reports whether no authorization decision may be taken yet.
func (s Snapshot) Loading() bool {
	switch s.State {
	case StateUninitialized, StateLoading, StateSigningOut:
		return true
	default:
		return false
	}
}

// Listener receives every change of the store, in order. Listeners run while the store
// serializes its transitions, so they must not call Initialize, SignOut or Close.
type Listener func(Snapshot)

// Store is the single writer of a client's Session and UserIdentity.
type Store struct {
	provider Provider
	nav      Navigator
	logger   *zap.Logger
	metrics  *observability.Metrics

	// transitionMu serializes transitions together with their notifications so listeners
	// observe changes in the order they were applied.
	transitionMu sync.Mutex

	mu      sync.RWMutex
	state   State
	session *domain.Session
	// eventDuringLoad is set when a provider event lands while the initial fetch is in
	// flight; the event is newer than whatever the fetch returns.
	eventDuringLoad bool
	// signedOut latches after a sign-out (local or provider) and holds the id of the
	// session that was signed out. It is released by a SIGNED_IN carrying a different session.
	signedOut   bool
	signedOutID string

	providerSub events.Subscription
	listeners   map[uint64]Listener
	nextID      uint64
}

// New constructs a store in the UNINITIALIZED state.
func New(provider Provider, nav Navigator, logger *zap.Logger, metrics *observability.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		provider:  provider,
		nav:       nav,
		logger:    logger,
		metrics:   metrics,
		state:     StateUninitialized,
		listeners: make(map[uint64]Listener),
	}
}

// Initialize fetches the current session once. Fetch failures are logged and leave the
// store anonymous. Calls after the first are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.transitionMu.Lock()
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		s.transitionMu.Unlock()
		return
	}
	s.state = StateLoading
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	s.transitionMu.Unlock()

	// The fetch may itself emit events (a token refresh), so no lock is held across it.
	fetched, err := s.provider.GetSession(ctx)
	if err != nil {
		s.logger.Warn("session initialization failed; continuing signed out", zap.Error(err))
		fetched = nil
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()
	s.mu.Lock()
	if s.state != StateLoading || s.eventDuringLoad {
		s.mu.Unlock()
		return
	}
	s.setSessionLocked(fetched)
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Listen attaches the store to the provider's event stream. Listening again replaces
// the previous registration. The returned disposer is safe to call more than once.
func (s *Store) Listen() (func(), error) {
	sub, err := s.provider.OnAuthStateChange(s.handleEvent)
	if err != nil {
		return func() {}, err
	}

	s.mu.Lock()
	prev := s.providerSub
	s.providerSub = sub
	s.mu.Unlock()
	if prev != nil {
		prev.Unsubscribe()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.providerSub == sub {
				s.providerSub = nil
			}
			s.mu.Unlock()
			sub.Unsubscribe()
		})
	}, nil
}

// Subscribe registers a listener for store changes. The disposer is idempotent.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CurrentUser returns the signed-in identity, or nil.
func (s *Store) CurrentUser() *domain.UserIdentity {
	return s.Snapshot().User
}

// CurrentSession returns the current session, or nil.
func (s *Store) CurrentSession() *domain.Session {
	return s.Snapshot().Session
}

// IsLoading reports whether the store has not settled on a signed-in or signed-out state.
func (s *Store) IsLoading() bool {
	return s.Snapshot().Loading()
}

// State returns the lifecycle state.
func (s *Store) State() State {
	return s.Snapshot().State
}

// SignOut clears local state immediately, asks the provider to sign out and navigates
// to the landing route whatever the provider answers. A SignOut issued while another is
// in flight returns without a second navigation.
func (s *Store) SignOut(ctx context.Context) {
	s.transitionMu.Lock()
	s.mu.Lock()
	if s.state == StateSigningOut {
		s.mu.Unlock()
		s.transitionMu.Unlock()
		return
	}
	s.signedOut = true
	s.signedOutID = ""
	if s.session != nil {
		s.signedOutID = s.session.ID
	}
	s.resetLocked(StateSigningOut)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	s.transitionMu.Unlock()

	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Warn("provider sign-out failed; continuing with local sign-out", zap.Error(err))
	}

	s.transitionMu.Lock()
	s.mu.Lock()
	// A sign-in with a fresh session may already have replaced the in-flight state.
	if s.state == StateSigningOut {
		s.state = StateAnonymous
		snap = s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
	} else {
		s.mu.Unlock()
	}
	s.transitionMu.Unlock()

	s.nav.RedirectToHome()
}

// Close disposes the provider registration and drops every listener.
func (s *Store) Close() {
	s.mu.Lock()
	sub := s.providerSub
	s.providerSub = nil
	s.listeners = make(map[uint64]Listener)
	s.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (s *Store) handleEvent(event domain.AuthEvent) {
	s.transitionMu.Lock()
	s.mu.Lock()

	if s.suppressLocked(event) {
		s.mu.Unlock()
		s.transitionMu.Unlock()
		s.metrics.RecordAuthEvent(string(event.Type), "suppressed")
		s.logger.Debug("auth event suppressed during sign-out", zap.String("event", string(event.Type)))
		return
	}

	redirect := false
	switch event.Type {
	case domain.AuthEventSignedOut:
		redirect = true
		s.signedOut = true
		s.signedOutID = ""
		if s.session != nil {
			s.signedOutID = s.session.ID
		}
	case domain.AuthEventSignedIn:
		if event.Session != nil {
			s.signedOut = false
			s.signedOutID = ""
		}
	case domain.AuthEventTokenRefreshed, domain.AuthEventUserUpdated:
	default:
		s.mu.Unlock()
		s.transitionMu.Unlock()
		s.logger.Debug("ignoring unknown auth event", zap.String("event", string(event.Type)))
		return
	}

	if s.state == StateLoading || s.state == StateUninitialized {
		s.eventDuringLoad = true
	}
	if redirect {
		s.resetLocked(StateAnonymous)
	} else {
		s.setSessionLocked(event.Session)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	s.transitionMu.Unlock()

	s.metrics.RecordAuthEvent(string(event.Type), "applied")
	if redirect {
		s.nav.RedirectToHome()
	}
}

// suppressLocked decides whether an event is a consequence of a sign-out already
// requested locally. Such events must neither repopulate the session nor navigate again.
func (s *Store) suppressLocked(event domain.AuthEvent) bool {
	if !s.signedOut {
		return false
	}
	switch event.Type {
	case domain.AuthEventSignedIn:
		return event.Session == nil || event.Session.ID == s.signedOutID
	default:
		return true
	}
}

func (s *Store) setSessionLocked(session *domain.Session) {
	s.session = session
	if session != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
}

// resetLocked drops every piece of in-memory auth state. Callers navigate to the landing
// route once the new state has been published.
func (s *Store) resetLocked(next State) {
	s.session = nil
	s.state = next
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, Session: s.session}
	if s.session != nil {
		user := s.session.User
		snap.User = &user
	}
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	fns := make(map[uint64]Listener, len(ids))
	for _, id := range ids {
		fns[id] = s.listeners[id]
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fns[id](snap)
	}
}
