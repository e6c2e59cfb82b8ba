package events

import (
	"context"
	"sort"
	"sync"

	"github.com/placement-hub/portal/internal/domain"
)

// Handler receives auth events for one topic, one at a time, in publish order.
type Handler func(domain.AuthEvent)

// Subscription is a registration returned by Subscribe. Unsubscribe is idempotent; once it
// returns no new delivery starts for the handler.
type Subscription interface {
	Unsubscribe()
}

// Bus publishes auth events to the handlers registered for a topic.
// A topic is a client identifier. Handlers must not publish on the same bus synchronously.
type Bus interface {
	Publish(ctx context.Context, topic string, event domain.AuthEvent) error
	Subscribe(topic string, handler Handler) Subscription
}

// InMemoryBus is a synchronous bus: Publish returns after every handler ran.
type InMemoryBus struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[string]map[uint64]*registration

	// deliverMu serializes deliveries so concurrent publishers cannot interleave.
	deliverMu sync.Mutex
}

type registration struct {
	id      uint64
	handler Handler
	mu      sync.Mutex
	active  bool
}

// NewInMemoryBus creates a bus instance.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		listeners: make(map[string]map[uint64]*registration),
	}
}

// Publish invokes the topic's handlers in registration order.
func (b *InMemoryBus) Publish(_ context.Context, topic string, event domain.AuthEvent) error {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.RLock()
	regs := make([]*registration, 0, len(b.listeners[topic]))
	for _, reg := range b.listeners[topic] {
		regs = append(regs, reg)
	}
	b.mu.RUnlock()

	sort.Slice(regs, func(i, j int) bool { return regs[i].id < regs[j].id })
	for _, reg := range regs {
		reg.deliver(event)
	}
	return nil
}

// Subscribe registers a handler for the topic.
func (b *InMemoryBus) Subscribe(topic string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	reg := &registration{id: b.nextID, handler: handler, active: true}
	if b.listeners[topic] == nil {
		b.listeners[topic] = make(map[uint64]*registration)
	}
	b.listeners[topic][reg.id] = reg
	return &memorySubscription{bus: b, topic: topic, reg: reg}
}

// Listeners reports how many handlers are registered for the topic.
func (b *InMemoryBus) Listeners(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[topic])
}

func (r *registration) deliver(event domain.AuthEvent) {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	if active {
		r.handler(event)
	}
}

type memorySubscription struct {
	once  sync.Once
	bus   *InMemoryBus
	topic string
	reg   *registration
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.reg.mu.Lock()
		s.reg.active = false
		s.reg.mu.Unlock()

		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		delete(s.bus.listeners[s.topic], s.reg.id)
		if len(s.bus.listeners[s.topic]) == 0 {
			delete(s.bus.listeners, s.topic)
		}
	})
}
