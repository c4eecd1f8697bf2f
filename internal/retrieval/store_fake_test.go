package retrieval

import (
	"context"
	"sync"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// fakeStore is an in-memory Store for engine tests. Zero values behave as
// an empty database: lookups miss, searches return nothing.
type fakeStore struct {
	mu sync.Mutex

	teamsByID   map[int]*store.Team
	teamsByName map[string]*store.Team
	fts         map[store.FTSDomain][]store.FTSResult
	graphNodes  map[string][]store.GraphNode
	neighbors   map[int][]store.NeighborResult

	matchResults [][]store.Match
	matchCalls   []store.ListMatchesFilter
}

func (f *fakeStore) SearchText(ctx context.Context, domain store.FTSDomain, query string, limit int, strictEscaping bool) ([]store.FTSResult, error) {
	if _, err := store.EscapeFTSQuery(query, strictEscaping); err != nil {
		return nil, err
	}
	return f.fts[domain], nil
}

func (f *fakeStore) SearchGraphByName(ctx context.Context, query string) ([]store.GraphNode, error) {
	return f.graphNodes[query], nil
}

func (f *fakeStore) GraphNeighbors(ctx context.Context, nodeID int, relations []store.GraphRelation, depth int) ([]store.NeighborResult, error) {
	return f.neighbors[nodeID], nil
}

func (f *fakeStore) GetTeamByName(ctx context.Context, name string) (*store.Team, error) {
	if t, ok := f.teamsByName[name]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetTeamByID(ctx context.Context, id int) (*store.Team, error) {
	if t, ok := f.teamsByID[id]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListMatches(ctx context.Context, filter store.ListMatchesFilter) ([]store.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchCalls = append(f.matchCalls, filter)
	i := len(f.matchCalls) - 1
	if i >= len(f.matchResults) {
		return nil, nil
	}
	return f.matchResults[i], nil
}
