package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-persona/internal/persona"
	"github.com/albapepper/scoracle-persona/internal/store"
)

func testIdentity() *store.PersonaIdentity {
	return &store.PersonaIdentity{
		TeamID:            1,
		Nickname:          "The Gaffer",
		Motto:             "Victory or nothing",
		CoreValues:        []string{"grit", "loyalty"},
		EmotionalBaseline:  "Gunners",
		ForbiddenTopics:   []string{"boardroom politics"},
		Vocabulary: []store.VocabularyRule{
			{Word: "loss", Replacement: "setback"},
			{Word: "win", Replacement: "triumph"},
		},
	}
}

func TestSynthesizePromptIncludesRequiredSections(t *testing.T) {
	identity := testIdentity()
	mood := persona.Mood{Tag: persona.MoodHopeful, Intensity: 0.65}

	prompt := SynthesizePrompt(identity, mood, "Arsenal beat Chelsea 2-1 last Sunday.")

	assert.Contains(t, prompt, "The Gaffer")
	assert.Contains(t, prompt, "Victory or nothing")
	assert.Contains(t, prompt, "grit, loyalty")
	assert.Contains(t, prompt, "hopeful")
	assert.Contains(t, prompt, "0.65")
	assert.Contains(t, prompt, "loss -> setback")
	assert.Contains(t, prompt, "boardroom politics")
	assert.Contains(t, prompt, "Arsenal beat Chelsea 2-1 last Sunday.")
}

func TestSynthesizePromptNoPersonaOrContext(t *testing.T) {
	prompt := SynthesizePrompt(nil, persona.Mood{Tag: persona.MoodAnxious, Intensity: 0.1}, "")
	assert.Contains(t, prompt, "Persona: none active")
	assert.Contains(t, prompt, "(no grounded evidence found for this query)")
}

func TestEnforceVocabularyCasePreserving(t *testing.T) {
	rules := []store.VocabularyRule{{Word: "loss", Replacement: "setback"}}

	assert.Equal(t, "What a setback.", EnforceVocabulary("What a loss.", rules))
	assert.Equal(t, "SETBACK.", EnforceVocabulary("LOSS.", rules))
	assert.Equal(t, "Setback city.", EnforceVocabulary("Loss city.", rules))
}

func TestEnforceVocabularyWholeWordOnly(t *testing.T) {
	rules := []store.VocabularyRule{{Word: "win", Replacement: "triumph"}}
	got := EnforceVocabulary("winning isn't everything but win is", rules)
	assert.Equal(t, "winning isn't everything but triumph is", got)
}

func TestEnforceVocabularyIdempotent(t *testing.T) {
	rules := []store.VocabularyRule{
		{Word: "loss", Replacement: "setback"},
		{Word: "win", Replacement: "triumph"},
	}
	text := "A tough loss, followed by a big win."
	once := EnforceVocabulary(text, rules)
	twice := EnforceVocabulary(once, rules)
	require.Equal(t, once, twice)
}

func TestEnforceVocabularyNoRules(t *testing.T) {
	assert.Equal(t, "unchanged text", EnforceVocabulary("unchanged text", nil))
}
