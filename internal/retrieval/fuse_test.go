package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuse_OrdersByScoreDescending(t *testing.T) {
	fts := []Evidence{
		{Text: "Arsenal is 1st with 39 points", Score: 0.5, Kind: SourceFTS},
		{Text: "Arsenal beat Chelsea 2-0", Score: 1.0, Kind: SourceFTS},
	}
	graph := []Evidence{
		{Text: "Tottenham is a rival", Score: 0.9, Kind: SourceGraph},
	}
	out := Fuse(fts, graph, FusionWeights{Beta: 0.6, Gamma: 0.4}, 20)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

func TestFuse_DeduplicatesByFingerprintKeepingHighest(t *testing.T) {
	fts := []Evidence{
		{Text: "Arsenal is 1st with 39 points", Score: 0.3, Kind: SourceFTS},
	}
	graph := []Evidence{
		{Text: "Arsenal is 1st with 39 points", Score: 0.9, Kind: SourceGraph},
	}
	out := Fuse(fts, graph, FusionWeights{Beta: 1.0, Gamma: 1.0}, 20)
	require.Len(t, out, 1)
	assert.Equal(t, SourceGraph, out[0].Kind)
}

func TestFuse_BoundsToMaxLines(t *testing.T) {
	var fts []Evidence
	for i := 0; i < 30; i++ {
		fts = append(fts, Evidence{Text: string(rune('a' + i)), Score: float64(i) / 30, Kind: SourceFTS})
	}
	out := Fuse(fts, nil, FusionWeights{Beta: 1.0, Gamma: 1.0}, 20)
	assert.Len(t, out, 20)
}
