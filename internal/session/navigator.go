package session

import (
	"context"
	"sync"

	"github.com/placement-hub/portal/internal/domain"
)

// Navigation is a history-replacing route change decided for a client.
type Navigation struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// QueueNavigator records navigations until the transport delivers them, either as the
// redirect of the current request or over the client's event stream.
type QueueNavigator struct {
	mu      sync.Mutex
	pending []Navigation
	signal  chan struct{}
}

var _ Navigator = (*QueueNavigator)(nil)

// NewQueueNavigator creates an empty queue.
func NewQueueNavigator() *QueueNavigator {
	return &QueueNavigator{signal: make(chan struct{}, 1)}
}

func (q *QueueNavigator) RedirectToHome() {
	q.push(Navigation{Path: domain.HomePath, Replace: true})
}

func (q *QueueNavigator) RedirectToDashboard(role domain.Role) {
	q.push(Navigation{Path: role.DashboardPath(), Replace: true})
}

func (q *QueueNavigator) push(nav Navigation) {
	q.mu.Lock()
	q.pending = append(q.pending, nav)
	q.mu.Unlock()
	q.wake()
}

func (q *QueueNavigator) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Take removes and returns the most recent pending navigation. Older ones are superseded
// since only the final location matters to a browser that has not moved yet.
func (q *QueueNavigator) Take() (Navigation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Navigation{}, false
	}
	last := q.pending[len(q.pending)-1]
	q.pending = nil
	return last, true
}

// Restore puts back a navigation that could not be delivered, unless a newer one is
// already pending.
func (q *QueueNavigator) Restore(nav Navigation) {
	q.mu.Lock()
	if len(q.pending) > 0 {
		q.mu.Unlock()
		return
	}
	q.pending = []Navigation{nav}
	q.mu.Unlock()
	q.wake()
}

// Notify returns a channel that receives a value after a navigation is queued. It is
// shared with Wait, so a client should have a single consumer.
func (q *QueueNavigator) Notify() <-chan struct{} {
	return q.signal
}

// Pending returns the number of undelivered navigations.
func (q *QueueNavigator) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Wait blocks until a navigation is pending or ctx is done.
func (q *QueueNavigator) Wait(ctx context.Context) (Navigation, error) {
	for {
		if nav, ok := q.Take(); ok {
			return nav, nil
		}
		select {
		case <-ctx.Done():
			return Navigation{}, ctx.Err()
		case <-q.signal:
		}
	}
}
