package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/placement-hub/portal/internal/session"
)

// Sweeper evicts idle client contexts. It is implemented by session.Registry.
type Sweeper interface {
	Sweep() int
}

var _ Sweeper = (*session.Registry)(nil)

// StartClientJanitor sweeps idle clients every interval until ctx is done. The returned
// channel is closed when the janitor has stopped.
func StartClientJanitor(ctx context.Context, sweeper Sweeper, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if sweeper == nil {
		close(done)
		return done
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sweeper.Sweep(); n > 0 {
					logger.Info("evicted idle clients", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}

// EventRelay receives auth events published by other replicas.
type EventRelay interface {
	Run(ctx context.Context) error
}

// StartEventRelay runs the relay until ctx is done, restarting it after failures.
func StartEventRelay(ctx context.Context, relay EventRelay, backoff time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if backoff <= 0 {
		backoff = time.Second
	}

	go func() {
		defer close(done)
		for {
			err := relay.Run(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("auth event relay stopped; restarting", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}()
	return done
}
