// Package fingerprint computes the deduplication key shared by retrieval's
// fusion step and conversation's discussed-fact tracking: the first 50
// characters of a lower-cased, whitespace-collapsed context line.
//
// The 50-character window is a heuristic; it may collide on distinct facts
// sharing a common prefix. Collision is treated as acceptable dedupe
// conservatism, not a bug.
package fingerprint

import "strings"

const maxLen = 50

// Of computes the canonical fingerprint for one context/fact line.
func Of(line string) string {
	collapsed := strings.Join(strings.Fields(strings.ToLower(line)), " ")
	if len(collapsed) > maxLen {
		return collapsed[:maxLen]
	}
	return collapsed
}
