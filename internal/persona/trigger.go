package persona

import (
	"strings"
	"time"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// TriggerKind enumerates the contextual triggers enrichment reacts to.
type TriggerKind string

const (
	TriggerRival       TriggerKind = "rival"
	TriggerSquad       TriggerKind = "squad"
	TriggerLegend      TriggerKind = "legend"
	TriggerAnniversary TriggerKind = "anniversary"
)

// squadKeywords is the fixed keyword set for the squad-fitness trigger.
var squadKeywords = []string{"squad", "injuries", "fitness", "fit", "out", "available"}

// legendPrecursors precede a legend name within a 4-token window.
var legendPrecursors = []string{"next", "like", "vs", "reminds", "better than"}

// DetectRival scans the raw query for any rival team name from the persona
// bundle. The highest-intensity rival wins on ties.
func DetectRival(query string, rivals []store.RivalSummary) (store.RivalSummary, bool) {
	lower := strings.ToLower(query)
	var best store.RivalSummary
	found := false
	for _, r := range rivals {
		if strings.Contains(lower, strings.ToLower(r.TeamName)) {
			if !found || r.Intensity > best.Intensity {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// DetectSquadFitness reports whether the query matches the fixed
// squad-fitness keyword set.
func DetectSquadFitness(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range squadKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetectLegendComparison finds a legend name preceded (within 4 tokens) by
// one of the comparison precursor phrases.
func DetectLegendComparison(query string, legends []store.LegendSummary) (store.LegendSummary, bool) {
	tokens := strings.Fields(strings.ToLower(query))
	for _, legend := range legends {
		legendTokens := strings.Fields(strings.ToLower(legend.Name))
		if len(legendTokens) == 0 {
			continue
		}
		for i := range tokens {
			if !matchesAt(tokens, i, legendTokens) {
				continue
			}
			windowStart := i - 4
			if windowStart < 0 {
				windowStart = 0
			}
			for j := windowStart; j < i; j++ {
				for _, p := range legendPrecursors {
					if tokens[j] == p || (strings.Contains(p, " ") && hasPhrase(tokens, j, p)) {
						return legend, true
					}
				}
			}
		}
	}
	return store.LegendSummary{}, false
}

func matchesAt(tokens []string, i int, phrase []string) bool {
	if i+len(phrase) > len(tokens) {
		return false
	}
	for k, tok := range phrase {
		if tokens[i+k] != tok {
			return false
		}
	}
	return true
}

func hasPhrase(tokens []string, start int, phrase string) bool {
	parts := strings.Fields(phrase)
	return matchesAt(tokens, start, parts)
}

// DetectAnniversary reports whether now's month-day matches any stored
// moment's date.
func DetectAnniversary(now time.Time, moments []store.MomentSummary) (store.MomentSummary, bool) {
	for _, m := range moments {
		if m.Date == nil {
			continue
		}
		if m.Date.Month() == now.Month() && m.Date.Day() == now.Day() {
			return m, true
		}
	}
	return store.MomentSummary{}, false
}
