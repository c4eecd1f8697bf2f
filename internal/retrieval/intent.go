package retrieval

import "strings"

// Intent enumerates the deterministic keyword-rule classification buckets.
type Intent string

const (
	IntentStandings     Intent = "standings"
	IntentFixtures      Intent = "fixtures"
	IntentScores        Intent = "scores"
	IntentSquadFitness  Intent = "squad-fitness"
	IntentTransfers     Intent = "transfers"
	IntentLegendCompare Intent = "legend-comparison"
	IntentHistorical    Intent = "historical"
	IntentPersonaGeneral Intent = "persona-general"
)

// intentRules lists (intent, keywords) in priority order, highest first.
// Ties among matching intents are broken by this order, squad-fitness
// highest, persona-general the fallback.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentSquadFitness, []string{"injuries", "squad", "fit", "injury", "fitness"}},
	{IntentTransfers, []string{"signing", "transfer", "rumour", "rumor"}},
	{IntentLegendCompare, []string{"next", "like", "reminds me of", "better than"}},
	{IntentHistorical, []string{"remember", "anniversary", "that game"}},
	{IntentStandings, []string{"top of", "table", "points", "standings"}},
	{IntentFixtures, []string{"next", "upcoming", "schedule", "fixture"}},
	{IntentScores, []string{"result", "latest", "recent", "score"}},
}

// ClassifyIntent applies the fixed keyword rules in priority order.
func ClassifyIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentPersonaGeneral
}

// IsLatestOrRecent reports whether the query's modifier means "ignore any
// extracted date and use a whole-list fallback" for scores/fixtures
// intents.
func IsLatestOrRecent(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "latest") || strings.Contains(lower, "recent")
}
