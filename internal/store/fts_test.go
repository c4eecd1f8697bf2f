package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeFTSQuery_Empty(t *testing.T) {
	out, err := EscapeFTSQuery("", false)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestEscapeFTSQuery_OnlyMetaCharacters(t *testing.T) {
	out, err := EscapeFTSQuery(`!!!@@@###`, false)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestEscapeFTSQuery_StrictRejectsControlSequence(t *testing.T) {
	_, err := EscapeFTSQuery("arsenal\x00table", true)
	assert.ErrorIs(t, err, ErrUnescapableQuery)
}

func TestEscapeFTSQuery_DegradeStripsAndKeepsRest(t *testing.T) {
	out, err := EscapeFTSQuery("arsenal \x00 standings", false)
	require.NoError(t, err)
	assert.Equal(t, "arsenal standings", out)
}

func TestEscapeFTSQuery_QuotesMetaCharacters(t *testing.T) {
	out, err := EscapeFTSQuery(`arsenal & (table)`, false)
	require.NoError(t, err)
	assert.NotContains(t, out, "&")
	assert.NotContains(t, out, "(")
}
