package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDictionary(t *testing.T) *EntityDictionary {
	t.Helper()
	d, err := NewEntityDictionary([]DictionaryEntry{
		{Kind: EntityTeam, Canonical: "Arsenal", Aliases: []string{"The Gunners"}},
		{Kind: EntityTeam, Canonical: "Tottenham", Aliases: []string{"Spurs"}},
		{Kind: EntityLegend, Canonical: "Thierry Henry"},
	})
	require.NoError(t, err)
	return d
}

func TestExtract_CaseInsensitive(t *testing.T) {
	d := testDictionary(t)
	ents := d.Extract("what do you think of ARSENAL this season")
	require.Len(t, ents, 1)
	assert.Equal(t, "Arsenal", ents[0].Name)
	assert.Equal(t, EntityTeam, ents[0].Kind)
}

func TestExtract_AliasResolvesToCanonical(t *testing.T) {
	d := testDictionary(t)
	ents := d.Extract("are the Spurs still in it")
	require.Len(t, ents, 1)
	assert.Equal(t, "Tottenham", ents[0].Name)
}

func TestExtract_MultipleEntitiesInOrder(t *testing.T) {
	d := testDictionary(t)
	ents := d.Extract("Arsenal vs Tottenham, is Thierry Henry still the best")
	require.Len(t, ents, 3)
	assert.Equal(t, "Arsenal", ents[0].Name)
	assert.Equal(t, "Tottenham", ents[1].Name)
	assert.Equal(t, "Thierry Henry", ents[2].Name)
}
