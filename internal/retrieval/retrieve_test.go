package retrieval

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-persona/internal/store"
)

func testEngine(t *testing.T, fs *fakeStore) *Engine {
	t.Helper()
	dict, err := NewEntityDictionary([]DictionaryEntry{
		{Kind: EntityTeam, Canonical: "Arsenal", Aliases: []string{"The Gunners"}},
		{Kind: EntityTeam, Canonical: "Tottenham", Aliases: []string{"Spurs"}},
	})
	require.NoError(t, err)
	return NewEngine(fs, dict, Config{})
}

func TestRetrieve_LatestScoresIgnoresDateAndRecordsFallback(t *testing.T) {
	fs := &fakeStore{}
	engine := testEngine(t, fs)
	now := time.Date(2025, 12, 19, 15, 0, 0, 0, time.UTC)

	result, err := engine.Retrieve(context.Background(), "latest scores from today", "", now)
	require.NoError(t, err)

	assert.Equal(t, IntentScores, result.Metadata.Intent)
	assert.Nil(t, result.Metadata.ExtractedDate, "latest/recent modifier discards the extracted date")
	assert.GreaterOrEqual(t, result.Metadata.FallbackStep, 1)
	assert.Contains(t, result.ContextText, "no data available")

	// The whole-list query never carried a date filter.
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, call := range fs.matchCalls {
		assert.Nil(t, call.DateFrom)
		assert.Nil(t, call.DateTo)
	}
}

func TestRetrieve_LatestScoresReturnsFinishedMatches(t *testing.T) {
	played := time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC)
	fs := &fakeStore{
		teamsByID: map[int]*store.Team{
			1: {ID: 1, Name: "Arsenal"},
			2: {ID: 2, Name: "Chelsea"},
		},
		matchResults: [][]store.Match{
			{finishedMatch(10, 1, 2, 2, 0, played)},
		},
	}
	engine := testEngine(t, fs)

	result, err := engine.Retrieve(context.Background(), "latest scores", "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Metadata.FallbackStep)
	assert.Contains(t, result.ContextText, "Arsenal 2-0 Chelsea")
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "10", result.Sources[0].ID)
}

func TestRetrieve_EntitySeedsGraphTraversal(t *testing.T) {
	rivalNode := store.GraphNode{ID: 7, Type: store.NodeTeam, Name: "Arsenal"}
	fs := &fakeStore{
		graphNodes: map[string][]store.GraphNode{
			"Tottenham": {{ID: 5, Type: store.NodeTeam, Name: "Tottenham"}},
		},
		neighbors: map[int][]store.NeighborResult{
			5: {{
				Node:  rivalNode,
				Edge:  store.GraphEdge{ID: 1, SourceID: 5, TargetID: 7, Relation: store.RelRivalOf, Weight: 1.0},
				Depth: 1,
			}},
		},
	}
	engine := testEngine(t, fs)

	result, err := engine.Retrieve(context.Background(), "what do you think of Tottenham?", "", time.Now())
	require.NoError(t, err)

	assert.Contains(t, result.ContextText, "Arsenal is a rival")
	var graphSources int
	for _, s := range result.Sources {
		if s.Type == string(SourceGraph) {
			graphSources++
		}
	}
	assert.GreaterOrEqual(t, graphSources, 1)
}

func TestRetrieve_OversizeQueryRejected(t *testing.T) {
	engine := testEngine(t, &fakeStore{})

	_, err := engine.Retrieve(context.Background(), strings.Repeat("a", 1001), "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestRetrieve_OnlyStopWords(t *testing.T) {
	engine := testEngine(t, &fakeStore{})

	result, err := engine.Retrieve(context.Background(), "what is the", "", time.Now())
	require.NoError(t, err)
	assert.True(t, result.Metadata.OnlyStopWords)
	assert.Empty(t, result.Sources)
	assert.Empty(t, result.ContextText)
}
