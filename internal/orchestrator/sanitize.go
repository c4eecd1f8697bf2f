package orchestrator

import (
	"strings"
	"unicode"
)

// Sanitize prepares raw input: reject null bytes, strip control
// characters, trim, and enforce maxLen. ok is false when the input must be
// rejected outright (null byte present, or oversize after trimming).
func Sanitize(raw string, maxLen int) (clean string, ok bool) {
	if maxLen <= 0 {
		maxLen = 1000
	}
	if strings.ContainsRune(raw, 0) {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	trimmed := strings.TrimSpace(b.String())
	if len(trimmed) > maxLen {
		return "", false
	}
	return trimmed, true
}
