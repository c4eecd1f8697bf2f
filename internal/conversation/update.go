package conversation

import (
	"time"

	"github.com/albapepper/scoracle-persona/internal/fingerprint"
)

// Update commits the post-turn state transition: appends emitted
// fingerprints to discussed_facts (monotonically growing, never pruned
// within a conversation), inserts newly seen entity canonical-names into
// their type's last-entity list (FIFO, capped at 5), sets last_intent,
// increments turn_count, and bumps last_updated. s.Mu must be held by the
// caller.
func Update(s *State, entities map[string][]string, intent string, responseLines []string) {
	for _, line := range responseLines {
		s.DiscussedFacts[fingerprint.Of(line)] = true
	}

	for kind, names := range entities {
		list := s.LastEntitiesByType[kind]
		for _, name := range names {
			list = appendCapped(list, name, maxEntitiesPerType)
		}
		s.LastEntitiesByType[kind] = list
	}

	s.LastIntent = intent
	s.TurnCount++
	s.LastUpdated = time.Now()
}

// appendCapped appends name to list (moving it to the end if already
// present) and evicts the oldest entry once the cap is exceeded (FIFO).
func appendCapped(list []string, name string, maxLen int) []string {
	for i, existing := range list {
		if existing == name {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	list = append(list, name)
	if len(list) > maxLen {
		list = list[len(list)-maxLen:]
	}
	return list
}
