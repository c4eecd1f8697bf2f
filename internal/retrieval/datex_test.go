package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDate_RelativePhrases(t *testing.T) {
	now := time.Date(2025, 12, 19, 15, 0, 0, 0, time.UTC)

	d, ok := ExtractDate("what happened yesterday?", now)
	require.True(t, ok)
	assert.Equal(t, 18, d.Day())

	d, ok = ExtractDate("scores today", now)
	require.True(t, ok)
	assert.Equal(t, 19, d.Day())

	d, ok = ExtractDate("fixtures tomorrow", now)
	require.True(t, ok)
	assert.Equal(t, 20, d.Day())
}

func TestExtractDate_ExplicitISO(t *testing.T) {
	now := time.Date(2025, 12, 19, 15, 0, 0, 0, time.UTC)
	d, ok := ExtractDate("what happened on 2025-12-01", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestExtractDate_NoneFound(t *testing.T) {
	_, ok := ExtractDate("how are they doing", time.Now())
	assert.False(t, ok)
}
