package security

import (
	"fmt"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// ResponseClass labels a security outcome for the security log.
type ResponseClass string

const (
	ResponseNormal     ResponseClass = "normal"
	ResponseDeflection ResponseClass = "deflection"
	ResponseFixedVoice ResponseClass = "fixed_voice"
)

// snapBacks are in-persona deflection lines used at {normal, warned,
// cautious}. They carry no persona-specific vocabulary substitution; the
// orchestrator still wraps them in the persona's voice via the nickname.
var snapBacks = []string{
	"Nice try, but I'm not falling for that one.",
	"I'll stick to talking football, thanks.",
	"That's not really my department — ask me about the team instead.",
}

// Deflect returns the in-persona snap-back line for levels {normal,
// warned, cautious}, picking deterministically on the escalation count so
// repeated attempts don't always see the same line.
func Deflect(nickname string, escalationCount int) string {
	line := snapBacks[escalationCount%len(snapBacks)]
	if nickname == "" {
		return line
	}
	return fmt.Sprintf("%s here. %s", nickname, line)
}

// fixedVoiceResponse is the security level's bypass-persona response at
// TrustEscalated: no persona voice, no LLM call.
const fixedVoiceResponse = "This session has been flagged for repeated policy violations. Further requests may be rejected."

// Respond selects the response text and class for the given outcome.
// {normal,warned,cautious} get an in-persona deflection only when the
// current query was itself an injection — a clean query at these levels
// proceeds normally and has no security response at all.
// {escalated,probation} bypass persona entirely with a fixed voice and the
// orchestrator skips the LLM call outright; probation is reached solely
// from escalated (a clean query there) or loops back to escalated on a
// fresh injection, so it inherits the same bypass rather than falling
// through to an in-persona deflection it never had a voice for.
func Respond(level store.TrustLevel, isInjection bool, nickname string, escalationCount int) (text string, class ResponseClass, bypassLLM bool) {
	if level == store.TrustEscalated || level == store.TrustProbation {
		return fixedVoiceResponse, ResponseFixedVoice, true
	}
	if isInjection {
		return Deflect(nickname, escalationCount), ResponseDeflection, true
	}
	return "", ResponseNormal, false
}
