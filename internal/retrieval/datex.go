package retrieval

import (
	"strings"
	"time"
)

// ExtractDate resolves a relative-date phrase against the caller-supplied
// wall-clock "now", or consumes an explicit ISO date as-is. ok is false
// when no date phrase is present.
func ExtractDate(query string, now time.Time) (date time.Time, ok bool) {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "yesterday"):
		return truncateToDay(now.AddDate(0, 0, -1)), true
	case strings.Contains(lower, "today"):
		return truncateToDay(now), true
	case strings.Contains(lower, "tomorrow"):
		return truncateToDay(now.AddDate(0, 0, 1)), true
	}

	for _, tok := range strings.Fields(query) {
		tok = strings.Trim(tok, ".,!?;:")
		if t, err := time.Parse("2006-01-02", tok); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
