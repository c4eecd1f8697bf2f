package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-persona/internal/config"
	"github.com/albapepper/scoracle-persona/internal/conversation"
	"github.com/albapepper/scoracle-persona/internal/generator"
	"github.com/albapepper/scoracle-persona/internal/retrieval"
	"github.com/albapepper/scoracle-persona/internal/security"
	"github.com/albapepper/scoracle-persona/internal/store"
)

// fakeStore satisfies both the orchestrator's Store and retrieval.Store
// against an empty database, recording every write.
type fakeStore struct {
	mu        sync.Mutex
	analytics []store.AnalyticsRecord
	sessions  []store.SessionTrustRecord
	secLog    []store.SecurityLogEntry
}

func (f *fakeStore) GetTeamByID(ctx context.Context, id int) (*store.Team, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetTeamByName(ctx context.Context, name string) (*store.Team, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetInjuries(ctx context.Context, teamID *int, status store.InjuryStatus) ([]store.Injury, error) {
	return nil, nil
}

func (f *fakeStore) CurrentForm(ctx context.Context, teamID int, lastN int) (string, error) {
	return "-----", nil
}

func (f *fakeStore) LoadPersona(ctx context.Context, teamID int) (*store.PersonaIdentity, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) SearchText(ctx context.Context, domain store.FTSDomain, query string, limit int, strictEscaping bool) ([]store.FTSResult, error) {
	return nil, nil
}

func (f *fakeStore) SearchGraphByName(ctx context.Context, query string) ([]store.GraphNode, error) {
	return nil, nil
}

func (f *fakeStore) GraphNeighbors(ctx context.Context, nodeID int, relations []store.GraphRelation, depth int) ([]store.NeighborResult, error) {
	return nil, nil
}

func (f *fakeStore) ListMatches(ctx context.Context, filter store.ListMatchesFilter) ([]store.Match, error) {
	return nil, nil
}

func (f *fakeStore) AppendSecurityLog(ctx context.Context, e store.SecurityLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secLog = append(f.secLog, e)
	return nil
}

func (f *fakeStore) AppendAnalytics(ctx context.Context, r store.AnalyticsRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analytics = append(f.analytics, r)
	return nil
}

func (f *fakeStore) UpsertSessionState(ctx context.Context, r store.SessionTrustRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, r)
	return nil
}

// cancellingGenerator cancels the request mid-generation, standing in for
// a caller abort while the LLM round trip is in flight.
type cancellingGenerator struct {
	cancel context.CancelFunc
	calls  int
}

func (g *cancellingGenerator) Generate(ctx context.Context, req generator.Request) (*generator.Response, error) {
	g.calls++
	g.cancel()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (g *cancellingGenerator) Stream(ctx context.Context, req generator.Request) (<-chan generator.Event, error) {
	return nil, ctx.Err()
}

func testConfig() *config.Config {
	return &config.Config{
		MaxQueryLength: 1000,
		TrustDemoteThresholds: map[string]int{
			"warned":    5,
			"cautious":  10,
			"probation": 5,
		},
		RateLimitDelaysMS: []int{0, 500, 1000, 2000, 2000},
		Personas:          map[string]config.PersonaConfig{},
	}
}

func testOrchestrator(t *testing.T, fs *fakeStore, gen generator.Generator) (*Orchestrator, *conversation.Manager) {
	t.Helper()
	dict, err := retrieval.NewEntityDictionary([]retrieval.DictionaryEntry{
		{Kind: retrieval.EntityTeam, Canonical: "Arsenal"},
	})
	require.NoError(t, err)
	engine := retrieval.NewEngine(fs, dict, retrieval.Config{})
	convs := conversation.NewManager()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fs, engine, convs, security.NewManager(), gen, testConfig(), nil, logger), convs
}

func TestChatCancelledDuringGeneration(t *testing.T) {
	fs := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := &cancellingGenerator{cancel: cancel}
	orch, convs := testOrchestrator(t, fs, gen)

	_, err := orch.Chat(ctx, ChatRequest{Message: "latest scores", ConversationID: "c1"})
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 1, gen.calls, "no retry once the caller has cancelled")

	state := convs.Resolve("c1", "")
	state.Mu.Lock()
	defer state.Mu.Unlock()
	assert.Equal(t, 0, state.TurnCount, "turn counter is not incremented on cancellation")
	assert.Empty(t, state.DiscussedFacts)

	require.Len(t, fs.analytics, 1)
	assert.True(t, fs.analytics[0].Cancelled)
	assert.Equal(t, "c1", fs.analytics[0].ConversationID)
	assert.Equal(t, float64(0), fs.analytics[0].Confidence)
}

func TestChatGeneratorFailureDegradesWithoutDiscussedFacts(t *testing.T) {
	fs := &fakeStore{}
	gen := &generator.Fake{Err: generator.ErrGeneratorUnavailable}
	orch, convs := testOrchestrator(t, fs, gen)

	resp, err := orch.Chat(context.Background(), ChatRequest{Message: "latest scores", ConversationID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Calls, "failed generation is retried once")
	assert.True(t, resp.Metadata.GeneratorFailed)
	assert.Equal(t, float64(0), resp.Confidence)
	assert.NotEmpty(t, resp.ResponseText)

	state := convs.Resolve("c1", "")
	state.Mu.Lock()
	defer state.Mu.Unlock()
	assert.Equal(t, 1, state.TurnCount, "turn still counts on generator failure")
	assert.Empty(t, state.DiscussedFacts, "discussed facts are not recorded for an undelivered response")

	require.Len(t, fs.analytics, 1)
	assert.False(t, fs.analytics[0].Cancelled)
}
