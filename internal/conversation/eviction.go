package conversation

import (
	"context"
	"log/slog"
	"time"
)

// StartEviction launches a ticker that sweeps idle conversations out of m's
// map. Blocks until ctx is cancelled; intended to be called with `go`.
func StartEviction(ctx context.Context, m *Manager, sweepInterval, idleTimeout time.Duration, logger *slog.Logger) {
	if sweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	logger.Info("Conversation eviction sweep started", "interval", sweepInterval, "idle_timeout", idleTimeout)

	for {
		select {
		case <-ticker.C:
			if n := m.Evict(idleTimeout, time.Now()); n > 0 {
				logger.Info("Conversation eviction swept idle conversations", "count", n)
			}
		case <-ctx.Done():
			logger.Info("Conversation eviction sweep stopped")
			return
		}
	}
}
