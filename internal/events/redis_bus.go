package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/domain"
)

// RedisBus delivers events to local handlers synchronously and fans them out to other
// replicas over Redis pub/sub. Events coming back from Redis with this replica's origin
// are dropped, so each local handler sees an event exactly once.
type RedisBus struct {
	local   *InMemoryBus
	client  *redis.Client
	prefix  string
	origin  string
	logger  *zap.Logger
	ready   chan struct{}
	readyMu sync.Once
}

type envelope struct {
	Origin string           `json:"origin"`
	Topic  string           `json:"topic"`
	Event  domain.AuthEvent `json:"event"`
}

// NewRedisBus creates a bus publishing on channels named "<prefix>:<topic>".
func NewRedisBus(client *redis.Client, prefix string, logger *zap.Logger) *RedisBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBus{
		local:  NewInMemoryBus(),
		client: client,
		prefix: prefix,
		origin: uuid.NewString(),
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Publish delivers locally first, then forwards to Redis.
func (b *RedisBus) Publish(ctx context.Context, topic string, event domain.AuthEvent) error {
	if err := b.local.Publish(ctx, topic, event); err != nil {
		return err
	}

	payload, err := json.Marshal(envelope{Origin: b.origin, Topic: topic, Event: event})
	if err != nil {
		return fmt.Errorf("encode auth event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(topic), payload).Err(); err != nil {
		return fmt.Errorf("publish auth event: %w", err)
	}
	return nil
}

// Subscribe registers a local handler; remote events for the topic reach it through Run.
func (b *RedisBus) Subscribe(topic string, handler Handler) Subscription {
	return b.local.Subscribe(topic, handler)
}

// Ready is closed once Run holds an active Redis subscription.
func (b *RedisBus) Ready() <-chan struct{} {
	return b.ready
}

// Run forwards events published by other replicas until ctx is done.
// Messages are handled one at a time so per-topic order is preserved.
func (b *RedisBus) Run(ctx context.Context) error {
	ps := b.client.PSubscribe(ctx, b.prefix+":*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe auth events: %w", err)
	}
	b.readyMu.Do(func() { close(b.ready) })

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(ctx, msg)
		}
	}
}

func (b *RedisBus) forward(ctx context.Context, msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		b.logger.Warn("dropping malformed auth event", zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	if env.Origin == b.origin {
		return
	}
	if env.Topic == "" {
		env.Topic = strings.TrimPrefix(msg.Channel, b.prefix+":")
	}
	_ = b.local.Publish(ctx, env.Topic, env.Event)
}

func (b *RedisBus) channel(topic string) string {
	return b.prefix + ":" + topic
}
