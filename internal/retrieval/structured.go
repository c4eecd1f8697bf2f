package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// structuredWeight is the fixed score assigned to a fallback-resolved match
// line before fusion blends it. Structured rows are as authoritative as a
// top FTS hit, never graph-derived, so they ride the FTS weight.
const structuredWeight = 1.0

// runStructured answers scores/fixtures intents directly against
// Store.ListMatches, applying the fallback widening when the date-bounded
// query comes up empty. Returns the fused-ready evidence plus
// the fallback step actually used (0 when the first filter already matched).
func runStructured(ctx context.Context, s Store, intent Intent, entities []ExtractedEntity, personaTeamID *int, extractedDate *time.Time, now time.Time) ([]Evidence, int, string, error) {
	if intent != IntentScores && intent != IntentFixtures {
		return nil, 0, "", nil
	}

	var teamID *int
	for _, e := range entities {
		if e.Kind != EntityTeam {
			continue
		}
		team, err := s.GetTeamByName(ctx, e.Name)
		if err == nil {
			id := team.ID
			teamID = &id
		}
		break
	}
	if teamID == nil {
		teamID = personaTeamID
	}

	status := store.StatusFinished
	if intent == IntentFixtures {
		status = store.StatusScheduled
	}

	filter := store.ListMatchesFilter{TeamID: teamID, Status: &status, Limit: 10}
	if extractedDate != nil {
		from := extractedDate.Truncate(24 * time.Hour)
		to := from.Add(24 * time.Hour)
		filter.DateFrom, filter.DateTo = &from, &to
	}

	result, err := ResolveWithFallback(ctx, s, filter)
	if err != nil {
		return nil, 0, "", err
	}

	evidence := make([]Evidence, 0, len(result.Matches))
	for _, m := range result.Matches {
		evidence = append(evidence, Evidence{
			Text:   formatMatchLine(ctx, s, m),
			Score:  structuredWeight,
			Kind:   SourceFTS,
			Domain: "matches",
			ID:     fmt.Sprintf("%d", m.ID),
		})
	}
	if len(evidence) == 0 && result.Step >= 3 {
		evidence = append(evidence, Evidence{
			Text:   fmt.Sprintf("no data available (%s)", result.Note),
			Score:  structuredWeight,
			Kind:   SourceFTS,
			Domain: "matches",
			ID:     "",
		})
	}
	return evidence, result.Step, result.Note, nil
}

func formatMatchLine(ctx context.Context, s Store, m store.Match) string {
	home, away := teamLabel(ctx, s, m.HomeTeamID), teamLabel(ctx, s, m.AwayTeamID)
	date := m.Date.Format("2006-01-02")
	switch m.Status {
	case store.StatusFinished:
		hs, as := 0, 0
		if m.HomeScore != nil {
			hs = *m.HomeScore
		}
		if m.AwayScore != nil {
			as = *m.AwayScore
		}
		return fmt.Sprintf("%s %d-%d %s (%s, %s)", home, hs, as, away, date, m.Competition)
	default:
		return fmt.Sprintf("%s vs %s (%s, %s)", home, away, date, m.Competition)
	}
}

func teamLabel(ctx context.Context, s Store, teamID int) string {
	team, err := s.GetTeamByID(ctx, teamID)
	if err != nil {
		return fmt.Sprintf("team#%d", teamID)
	}
	return team.Name
}
