package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes expired entries from a store without native TTLs.
type Sweeper interface {
	Sweep() int
}

// StartIntentSweeper runs store.Sweep every interval until ctx is cancelled.
// The returned channel is closed once the loop has exited.
func StartIntentSweeper(ctx context.Context, store Sweeper, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if store == nil || interval <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
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
				if removed := store.Sweep(); removed > 0 {
					logger.Debug("expired payment intents removed", zap.Int("count", removed))
				}
			}
		}
	}()
	return done
}
