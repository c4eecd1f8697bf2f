package conversation

import (
	"regexp"
	"strings"
)

// personaScopedPronouns resolve to the persona's own team inside a
// persona-scoped conversation; outside a persona they resolve to the
// last-team entity, exactly like the other pronoun set.
var personaScopedPronouns = map[string]bool{"we": true, "us": true, "our": true}

// genericPronouns resolve to the last-team entity regardless of persona.
var genericPronouns = map[string]bool{"they": true, "them": true, "their": true}

var wordRe = regexp.MustCompile(`[A-Za-z']+`)

// Resolve rewrites follow-up pronouns/ellipses using the conversation's
// last-team entity (or, inside a persona scope, the persona's own team).
// Tokens with no resolvable antecedent are left intact. s.Mu must be held
// by the caller.
func Resolve(query string, s *State, personaTeamName string) string {
	lastTeam := ""
	if teams := s.LastEntitiesByType["team"]; len(teams) > 0 {
		lastTeam = teams[len(teams)-1]
	}

	return wordRe.ReplaceAllStringFunc(query, func(tok string) string {
		lower := strings.ToLower(tok)

		if personaScopedPronouns[lower] && s.PersonaID != "" && personaTeamName != "" {
			return personaTeamName
		}
		if (genericPronouns[lower] || personaScopedPronouns[lower]) && lastTeam != "" {
			return lastTeam
		}
		return tok
	})
}
