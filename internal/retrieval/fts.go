package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// domainsForIntent returns which FTS corpora are likely to match the given
// intent, so the engine doesn't blindly search every domain on every turn.
func domainsForIntent(intent Intent) []store.FTSDomain {
	switch intent {
	case IntentSquadFitness, IntentTransfers:
		return []store.FTSDomain{store.DomainPlayers, store.DomainNews}
	case IntentLegendCompare, IntentHistorical:
		return []store.FTSDomain{store.DomainPlayers, store.DomainTeams, store.DomainNews}
	case IntentStandings, IntentFixtures, IntentScores:
		return []store.FTSDomain{store.DomainTeams, store.DomainNews}
	default:
		return []store.FTSDomain{store.DomainTeams, store.DomainPlayers, store.DomainNews}
	}
}

// runFTS searches every likely domain for intent, collecting up to topK
// per domain, normalizing each domain's scores by its own top hit.
func runFTS(ctx context.Context, s Store, query string, intent Intent, topK int, strictEscaping bool) ([]Evidence, error) {
	var out []Evidence
	for _, domain := range domainsForIntent(intent) {
		results, err := s.SearchText(ctx, domain, query, topK, strictEscaping)
		if err != nil {
			if errors.Is(err, store.ErrUnescapableQuery) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
			}
			return nil, err
		}
		if len(results) == 0 {
			continue
		}
		top := results[0].Rank
		if top <= 0 {
			top = 1
		}
		for _, r := range results {
			text := r.Title
			if r.Body != "" {
				text = fmt.Sprintf("%s — %s", r.Title, r.Body)
			}
			out = append(out, Evidence{
				Text:   text,
				Score:  clamp01(r.Rank / top),
				Kind:   SourceFTS,
				Domain: string(domain),
				ID:     strconv.Itoa(r.ID),
			})
		}
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
