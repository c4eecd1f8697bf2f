package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-persona/internal/store"
)

func TestInvertStatus(t *testing.T) {
	assert.Equal(t, store.StatusFinished, invertStatus(store.StatusScheduled))
	assert.Equal(t, store.StatusScheduled, invertStatus(store.StatusFinished))
	assert.Equal(t, store.StatusPostponed, invertStatus(store.StatusPostponed))
	assert.Equal(t, store.StatusLive, invertStatus(store.StatusLive))
}

// scriptedMatchLister returns results[i] for the i-th ListMatches call and
// records every filter it was asked for.
type scriptedMatchLister struct {
	results [][]store.Match
	calls   []store.ListMatchesFilter
}

func (s *scriptedMatchLister) ListMatches(ctx context.Context, f store.ListMatchesFilter) ([]store.Match, error) {
	s.calls = append(s.calls, f)
	i := len(s.calls) - 1
	if i >= len(s.results) {
		return nil, nil
	}
	return s.results[i], nil
}

func dateBoundedFilter() store.ListMatchesFilter {
	from := time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	finished := store.StatusFinished
	return store.ListMatchesFilter{Status: &finished, DateFrom: &from, DateTo: &to, Limit: 10}
}

func TestResolveWithFallback_DirectHit(t *testing.T) {
	lister := &scriptedMatchLister{results: [][]store.Match{
		{{ID: 1, Status: store.StatusFinished}},
	}}

	res, err := ResolveWithFallback(context.Background(), lister, dateBoundedFilter())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Step)
	assert.Empty(t, res.Note)
	assert.Len(t, res.Matches, 1)
	assert.Len(t, lister.calls, 1)
}

func TestResolveWithFallback_DropsDateFilter(t *testing.T) {
	lister := &scriptedMatchLister{results: [][]store.Match{
		nil,
		{{ID: 2, Status: store.StatusFinished}, {ID: 1, Status: store.StatusFinished}},
	}}

	res, err := ResolveWithFallback(context.Background(), lister, dateBoundedFilter())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Step)
	assert.Equal(t, "date filter dropped", res.Note)
	assert.Len(t, res.Matches, 2)

	require.Len(t, lister.calls, 2)
	assert.Nil(t, lister.calls[1].DateFrom)
	assert.Nil(t, lister.calls[1].DateTo)
	require.NotNil(t, lister.calls[1].Status)
	assert.Equal(t, store.StatusFinished, *lister.calls[1].Status)
}

func TestResolveWithFallback_InvertsStatus(t *testing.T) {
	lister := &scriptedMatchLister{results: [][]store.Match{
		nil,
		nil,
		{{ID: 3, Status: store.StatusScheduled}},
	}}

	res, err := ResolveWithFallback(context.Background(), lister, dateBoundedFilter())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Step)
	assert.Equal(t, "status inverted to scheduled", res.Note)
	assert.Len(t, res.Matches, 1)

	require.Len(t, lister.calls, 3)
	require.NotNil(t, lister.calls[2].Status)
	assert.Equal(t, store.StatusScheduled, *lister.calls[2].Status)
	assert.Nil(t, lister.calls[2].DateFrom)
}

func TestResolveWithFallback_NoData(t *testing.T) {
	lister := &scriptedMatchLister{}

	res, err := ResolveWithFallback(context.Background(), lister, dateBoundedFilter())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Step)
	assert.Equal(t, "no data available for the attempted filter", res.Note)
	assert.Empty(t, res.Matches)
	assert.Len(t, lister.calls, 3)
}
