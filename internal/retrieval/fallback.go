package retrieval

import (
	"context"
	"fmt"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// matchLister is the one store operation the widening policy needs.
type matchLister interface {
	ListMatches(ctx context.Context, f store.ListMatchesFilter) ([]store.Match, error)
}

// FallbackResult reports the widening step actually used, 0 meaning the
// original filter already matched.
type FallbackResult struct {
	Matches []store.Match
	Step    int
	Note    string
}

// invertStatus swaps scheduled<->finished, leaving other statuses as-is.
func invertStatus(s store.MatchStatus) store.MatchStatus {
	switch s {
	case store.StatusScheduled:
		return store.StatusFinished
	case store.StatusFinished:
		return store.StatusScheduled
	default:
		return s
	}
}

// ResolveWithFallback runs list_matches against f, widening when the
// date-bounded query returns nothing: first drop the date filter, then
// invert the status filter, then give up with a sentinel note.
func ResolveWithFallback(ctx context.Context, s matchLister, f store.ListMatchesFilter) (*FallbackResult, error) {
	matches, err := s.ListMatches(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return &FallbackResult{Matches: matches, Step: 0}, nil
	}

	if f.DateFrom != nil || f.DateTo != nil {
		widened := f
		widened.DateFrom, widened.DateTo = nil, nil
		matches, err = s.ListMatches(ctx, widened)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return &FallbackResult{Matches: matches, Step: 1, Note: "date filter dropped"}, nil
		}
	}

	if f.Status != nil {
		inverted := *f.Status
		inverted = invertStatus(inverted)
		widened := f
		widened.DateFrom, widened.DateTo = nil, nil
		widened.Status = &inverted
		matches, err = s.ListMatches(ctx, widened)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return &FallbackResult{Matches: matches, Step: 2, Note: fmt.Sprintf("status inverted to %s", inverted)}, nil
		}
	}

	return &FallbackResult{
		Matches: nil,
		Step:    3,
		Note:    "no data available for the attempted filter",
	}, nil
}
