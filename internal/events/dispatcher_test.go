package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/portal/internal/domain"
)

func event(t domain.AuthEventType) domain.AuthEvent {
	return domain.AuthEvent{Type: t, At: time.Now()}
}

func TestInMemoryBus_DeliversInOrderPerTopic(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	var got []domain.AuthEventType
	bus.Subscribe("client-a", func(e domain.AuthEvent) { got = append(got, e.Type) })
	bus.Subscribe("client-b", func(e domain.AuthEvent) { t.Fatalf("unexpected delivery to client-b: %s", e.Type) })

	require.NoError(t, bus.Publish(ctx, "client-a", event(domain.AuthEventSignedIn)))
	require.NoError(t, bus.Publish(ctx, "client-a", event(domain.AuthEventTokenRefreshed)))
	require.NoError(t, bus.Publish(ctx, "client-a", event(domain.AuthEventSignedOut)))

	assert.Equal(t, []domain.AuthEventType{
		domain.AuthEventSignedIn,
		domain.AuthEventTokenRefreshed,
		domain.AuthEventSignedOut,
	}, got)
}

func TestInMemoryBus_HandlersRunInRegistrationOrder(t *testing.T) {
	bus := NewInMemoryBus()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.Subscribe("c", func(domain.AuthEvent) { order = append(order, name) })
	}

	require.NoError(t, bus.Publish(context.Background(), "c", event(domain.AuthEventSignedIn)))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestInMemoryBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewInMemoryBus()
	calls := 0
	sub := bus.Subscribe("c", func(domain.AuthEvent) { calls++ })
	other := bus.Subscribe("c", func(domain.AuthEvent) {})

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 1, bus.Listeners("c"), "second unsubscribe must not remove another registration")

	require.NoError(t, bus.Publish(context.Background(), "c", event(domain.AuthEventSignedIn)))
	assert.Zero(t, calls)

	other.Unsubscribe()
	assert.Zero(t, bus.Listeners("c"))
}
