package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestStartClientJanitor_SweepsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := &countingSweeper{}

	done := StartClientJanitor(ctx, sweeper, 5*time.Millisecond, zap.NewNop())
	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestStartClientJanitor_NilSweeper(t *testing.T) {
	done := StartClientJanitor(context.Background(), nil, time.Millisecond, zap.NewNop())
	_, open := <-done
	assert.False(t, open)
}

type flakyRelay struct {
	runs atomic.Int32
}

func (r *flakyRelay) Run(ctx context.Context) error {
	if r.runs.Add(1) < 3 {
		return errors.New("connection refused")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestStartEventRelay_RestartsAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	relay := &flakyRelay{}

	done := StartEventRelay(ctx, relay, time.Millisecond, zap.NewNop())
	require.Eventually(t, func() bool { return relay.runs.Load() == 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
