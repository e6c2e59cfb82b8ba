package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/observability"
	"github.com/placement-hub/portal/internal/provider"
)

// AuthFactory returns the provider handle for a browser client.
type AuthFactory func(clientID string) provider.AuthProvider

// Client is the in-memory context of one browser client. Its store is built once, when
// the client first shows up, and closed when the client is evicted.
type Client struct {
	ID        string
	Auth      provider.AuthProvider
	Store     *Store
	Navigator *QueueNavigator

	dispose  func()
	ready    chan struct{}
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Ready is closed once the initial session fetch has finished.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// RegistryOptions tunes client lifetimes.
type RegistryOptions struct {
	InitTimeout time.Duration
	IdleTimeout time.Duration
}

// Registry holds the client contexts of this process.
type Registry struct {
	newAuth AuthFactory
	opts    RegistryOptions
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry(newAuth AuthFactory, opts RegistryOptions, logger *zap.Logger, metrics *observability.Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = 5 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	return &Registry{
		newAuth: newAuth,
		opts:    opts,
		logger:  logger.Named("sessions"),
		metrics: metrics,
		now:     time.Now,
		clients: make(map[string]*Client),
	}
}

// Acquire returns the context of clientID, creating it on first use. A new client is
// attached to its provider stream before the initial fetch starts.
func (r *Registry) Acquire(clientID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[clientID]; ok {
		client.lastSeen = r.now()
		return client
	}

	auth := r.newAuth(clientID)
	nav := NewQueueNavigator()
	logger := r.logger.With(zap.String("client_id", clientID))
	store := New(auth, nav, logger, r.metrics)

	dispose, err := store.Listen()
	if err != nil {
		logger.Error("attach auth state listener", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.InitTimeout)
	client := &Client{
		ID:        clientID,
		Auth:      auth,
		Store:     store,
		Navigator: nav,
		dispose:   dispose,
		ready:     make(chan struct{}),
		cancel:    cancel,
		lastSeen:  r.now(),
	}
	r.clients[clientID] = client
	r.metrics.SetActiveClients(len(r.clients))

	go func() {
		defer close(client.ready)
		defer cancel()
		store.Initialize(ctx)
	}()

	return client
}

// Lookup returns an existing client without creating one.
func (r *Registry) Lookup(clientID string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[clientID]
	return client, ok
}

// Len reports how many clients are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Evict tears down a single client.
func (r *Registry) Evict(clientID string) {
	r.mu.Lock()
	client, ok := r.clients[clientID]
	if ok {
		delete(r.clients, clientID)
		r.metrics.SetActiveClients(len(r.clients))
	}
	r.mu.Unlock()

	if ok {
		r.teardown(client)
	}
}

// Sweep evicts clients idle for longer than the configured timeout and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.opts.IdleTimeout)

	r.mu.Lock()
	var stale []*Client
	for id, client := range r.clients {
		if client.lastSeen.Before(cutoff) {
			stale = append(stale, client)
			delete(r.clients, id)
		}
	}
	r.metrics.SetActiveClients(len(r.clients))
	r.mu.Unlock()

	for _, client := range stale {
		r.teardown(client)
	}
	return len(stale)
}

// Close evicts every client.
func (r *Registry) Close() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[string]*Client)
	r.metrics.SetActiveClients(0)
	r.mu.Unlock()

	for _, client := range clients {
		r.teardown(client)
	}
}

func (r *Registry) teardown(client *Client) {
	client.cancel()
	if client.dispose != nil {
		client.dispose()
	}
	client.Store.Close()
	r.logger.Debug("client evicted", zap.String("client_id", client.ID))
}
