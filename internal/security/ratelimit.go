package security

import (
	"time"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// DelayForLevel returns the artificial response delay imposed on a session
// at the given trust level, indexed against delaysMS (config.RateLimitDelaysMS,
// ordered normal..probation). Mirrors the IP token-bucket idea behind
// api.RateLimitMiddleware, but keyed by trust level instead of request rate.
func DelayForLevel(level store.TrustLevel, delaysMS []int) time.Duration {
	idx := int(level)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(delaysMS) {
		idx = len(delaysMS) - 1
	}
	if idx < 0 {
		return 0
	}
	return time.Duration(delaysMS[idx]) * time.Millisecond
}
