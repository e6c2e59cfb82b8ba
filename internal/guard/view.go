package guard

import (
	"context"
	"sync"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/session"
)

// Watchable is a session source that also reports changes.
type Watchable interface {
	SessionReader
	Subscribe(fn session.Listener) func()
}

type viewKey struct {
	userID   string
	loading  bool
	required domain.Role
}

// View keeps a protected view's decision current while it is mounted. It re-evaluates
// only when the user id, the loading flag or the required role change, and a lookup that
// is superseded or outlives the view is cancelled and its result dropped.
type View struct {
	guard      *Guard
	sessions   Watchable
	nav        session.Navigator
	onDecision func(Decision)

	mu          sync.Mutex
	required    domain.Role
	key         viewKey
	evaluated   bool
	generation  uint64
	cancel      context.CancelFunc
	decision    Decision
	closed      bool
	unsubscribe func()
}

// Mount starts watching sessions. onDecision receives every new decision and must not
// call back into the View.
func (g *Guard) Mount(sessions Watchable, nav session.Navigator, required domain.Role, onDecision func(Decision)) *View {
	if onDecision == nil {
		onDecision = func(Decision) {}
	}
	v := &View{
		guard:      g,
		sessions:   sessions,
		nav:        nav,
		onDecision: onDecision,
		required:   required,
		decision:   Pending,
	}
	unsubscribe := sessions.Subscribe(func(session.Snapshot) { v.refresh() })

	v.mu.Lock()
	v.unsubscribe = unsubscribe
	v.mu.Unlock()

	v.refresh()
	return v
}

// Decision returns the latest decision.
func (v *View) Decision() Decision {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.decision
}

// SetRequired changes the role the view demands.
func (v *View) SetRequired(required domain.Role) {
	v.mu.Lock()
	v.required = required
	v.mu.Unlock()
	v.refresh()
}

// Close stops watching and cancels any lookup in flight. It is safe to call twice.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	unsubscribe := v.unsubscribe
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (v *View) refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	snap := v.sessions.Snapshot()
	key := viewKey{loading: snap.Loading(), required: v.required}
	if snap.User != nil {
		key.userID = snap.User.ID
	}
	if v.evaluated && key == v.key {
		return
	}
	v.key = key
	v.evaluated = true
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	switch {
	case key.loading:
		v.settleLocked(Pending)
	case key.userID == "":
		v.nav.RedirectToHome()
		v.settleLocked(Redirect)
	case key.required == "":
		v.settleLocked(Admit)
	default:
		v.settleLocked(Pending)
		ctx, cancel := context.WithCancel(context.Background())
		v.cancel = cancel
		go v.lookup(ctx, v.generation, key)
	}
}

func (v *View) lookup(ctx context.Context, generation uint64, key viewKey) {
	decision, ok := v.guard.resolve(ctx, key.userID, key.required)
	if !ok {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || generation != v.generation {
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if decision == Redirect {
		v.nav.RedirectToHome()
	}
	v.settleLocked(decision)
}

func (v *View) settleLocked(decision Decision) {
	v.decision = decision
	if decision != Pending {
		v.guard.record(v.key.required, decision)
	}
	v.onDecision(decision)
}
