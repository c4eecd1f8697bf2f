package conversation

import "github.com/albapepper/scoracle-persona/internal/fingerprint"

// DedupeContext filters contextLines against state.DiscussedFacts, dropping
// any line whose fingerprint was already delivered earlier in this
// conversation. Idempotent: applying it twice with unchanged state yields
// the same result. s.Mu must be held by the caller.
func DedupeContext(contextLines []string, s *State) []string {
	out := make([]string, 0, len(contextLines))
	for _, line := range contextLines {
		fp := fingerprint.Of(line)
		if s.DiscussedFacts[fp] {
			continue
		}
		out = append(out, line)
	}
	return out
}
