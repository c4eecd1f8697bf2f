package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/scoracle-persona/internal/config"
	"github.com/albapepper/scoracle-persona/internal/retrieval"
	"github.com/albapepper/scoracle-persona/internal/store"
)

func TestDeriveConfidence(t *testing.T) {
	assert.Equal(t, 0.0, deriveConfidence(0))
	assert.Equal(t, 0.55, deriveConfidence(1))
	assert.Equal(t, 1.0, deriveConfidence(100))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Nil(t, splitLines("   \n  \n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\n\nb\n"))
}

func TestEntityMap(t *testing.T) {
	entities := []retrieval.ExtractedEntity{
		{Kind: retrieval.EntityTeam, Name: "Arsenal"},
		{Kind: retrieval.EntityTeam, Name: "Chelsea"},
		{Kind: retrieval.EntityPlayer, Name: "Saka"},
	}
	got := entityMap(entities)
	assert.Equal(t, []string{"Arsenal", "Chelsea"}, got["team"])
	assert.Equal(t, []string{"Saka"}, got["player"])
}

func TestStopWordFallbackAndApology(t *testing.T) {
	assert.NotEmpty(t, stopWordFallback(nil))
	assert.NotEmpty(t, apology(nil))

	identity := &store.PersonaIdentity{Nickname: "The Gaffer"}
	assert.Contains(t, stopWordFallback(identity), "The Gaffer")
	assert.Contains(t, apology(identity), "The Gaffer")
}

func TestDemoteThresholds(t *testing.T) {
	cfg := &config.Config{
		TrustDemoteThresholds: map[string]int{
			"warned":    5,
			"cautious":  10,
			"probation": 5,
		},
	}
	got := demoteThresholds(cfg)
	assert.Equal(t, 5, got.WarnedToNormal)
	assert.Equal(t, 10, got.CautiousToNormal)
	assert.Equal(t, 5, got.ProbationToNormal)
}
