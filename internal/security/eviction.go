package security

import (
	"context"
	"log/slog"
	"time"
)

// StartEviction launches a ticker that sweeps idle sessions out of m's map,
// mirroring conversation.StartEviction. Blocks until ctx is cancelled;
// intended to be called with `go`.
func StartEviction(ctx context.Context, m *Manager, sweepInterval, idleTimeout time.Duration, logger *slog.Logger) {
	if sweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	logger.Info("Security session eviction sweep started", "interval", sweepInterval, "idle_timeout", idleTimeout)

	for {
		select {
		case <-ticker.C:
			if n := m.EvictIdle(idleTimeout, time.Now()); n > 0 {
				logger.Info("Security session eviction swept idle sessions", "count", n)
			}
		case <-ctx.Done():
			logger.Info("Security session eviction sweep stopped")
			return
		}
	}
}
