package persona

import (
	"fmt"
	"strings"
	"time"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// EnrichmentTag labels which trigger produced a context block, for the
// prompt synthesizer.
type EnrichmentTag string

const (
	TagRivalry     EnrichmentTag = "rivalry"
	TagSquad       EnrichmentTag = "squad"
	TagLegend      EnrichmentTag = "legend"
	TagAnniversary EnrichmentTag = "anniversary"
)

// EnrichedBlock is one compact evidence block injected into the context.
type EnrichedBlock struct {
	Tag  EnrichmentTag
	Text string
}

// Result is the enrich(...) contract's return value.
type Result struct {
	EnrichedContext    string
	EnrichmentsApplied []EnrichmentTag
	Mood               Mood
}

// Enrich runs rival/squad/legend/anniversary trigger detection, each
// contributing at most one compact evidence block, plus the current mood
// snapshot derived from form.
func Enrich(query, baseContext string, identity *store.PersonaIdentity, form string, moodMode Mode, seed *Seed, now time.Time, injuries []store.Injury) Result {
	mood := Resolve(moodMode, form, seed, now)

	var blocks []EnrichedBlock

	if rival, ok := DetectRival(query, identity.Rivals); ok {
		blocks = append(blocks, EnrichedBlock{
			Tag:  TagRivalry,
			Text: fmt.Sprintf("Rivalry with %s (intensity %d, origin: %s): %s", rival.TeamName, rival.Intensity, rival.Origin, strings.Join(rival.Banter, " ")),
		})
	}

	if DetectSquadFitness(query) {
		blocks = append(blocks, EnrichedBlock{
			Tag:  TagSquad,
			Text: summarizeInjuries(injuries),
		})
	}

	if legend, ok := DetectLegendComparison(query, identity.Legends); ok {
		blocks = append(blocks, EnrichedBlock{
			Tag:  TagLegend,
			Text: fmt.Sprintf("%s: %s", legend.Name, legend.Summary),
		})
	}

	if moment, ok := DetectAnniversary(now, identity.Moments); ok {
		blocks = append(blocks, EnrichedBlock{
			Tag:  TagAnniversary,
			Text: moment.Summary,
		})
	}

	lines := []string{baseContext}
	tags := make([]EnrichmentTag, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, b.Text)
		tags = append(tags, b.Tag)
	}

	return Result{
		EnrichedContext:    strings.Join(trimEmpty(lines), "\n"),
		EnrichmentsApplied: tags,
		Mood:               mood,
	}
}

func summarizeInjuries(injuries []store.Injury) string {
	if len(injuries) == 0 {
		return "No current injuries reported."
	}
	parts := make([]string, 0, len(injuries))
	for _, inj := range injuries {
		parts = append(parts, fmt.Sprintf("player %d: %s (%s)", inj.PlayerID, inj.Type, inj.Severity))
	}
	return "Current injuries: " + strings.Join(parts, "; ")
}

func trimEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
