// Package retrieval implements the hybrid retrieval engine: query parsing
// (entity + intent), full-text search, knowledge-graph traversal, fusion
// and ranking, and the fallback widening policy.
package retrieval

import (
	"sort"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"
)

// EntityKind enumerates the dictionary's known entity types.
type EntityKind int

const (
	EntityTeam EntityKind = iota
	EntityPlayer
	EntityLegend
)

func (k EntityKind) String() string {
	switch k {
	case EntityTeam:
		return "team"
	case EntityPlayer:
		return "player"
	case EntityLegend:
		return "legend"
	default:
		return "unknown"
	}
}

// ExtractedEntity is one (type, canonical-name) pair found in a query, in
// input order.
type ExtractedEntity struct {
	Kind EntityKind
	Name string // canonical name, not the matched surface form
}

// DictionaryEntry registers one known name (plus aliases) for extraction.
type DictionaryEntry struct {
	Kind      EntityKind
	Canonical string
	Aliases   []string
}

// EntityDictionary is a single Aho-Corasick automaton over every known team,
// player, and legend name. Matching is case-insensitive and longest-match
// wins when surface forms overlap.
type EntityDictionary struct {
	ac           *ahocorasick.Automaton
	patterns     []string
	patternEntry []DictionaryEntry
}

// canonicalizeForMatch lowercases and collapses whitespace/punctuation runs
// to single spaces, preserving apostrophes and hyphens inside names.
func canonicalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		c := unicode.ToLower(r)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' || c == '-' {
			b.WriteRune(c)
			lastSpace = false
		} else if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	out := b.String()
	return strings.TrimRight(out, " ")
}

// NewEntityDictionary compiles the automaton from a flat list of entries.
func NewEntityDictionary(entries []DictionaryEntry) (*EntityDictionary, error) {
	d := &EntityDictionary{}
	seen := make(map[string]bool)
	for _, e := range entries {
		surfaces := append([]string{e.Canonical}, e.Aliases...)
		for _, s := range surfaces {
			key := canonicalizeForMatch(s)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			d.patterns = append(d.patterns, key)
			d.patternEntry = append(d.patternEntry, e)
		}
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(d.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	d.ac = automaton
	return d, nil
}

// Extract scans query and returns the entities found, in input order,
// case-insensitive, longest-match-wins among overlapping surface forms.
func (d *EntityDictionary) Extract(query string) []ExtractedEntity {
	if d.ac == nil {
		return nil
	}
	canon := canonicalizeForMatch(query)
	matches := d.ac.FindAllOverlapping([]byte(canon))

	type positioned struct {
		start int
		end   int
		ent   ExtractedEntity
	}
	var found []positioned
	for _, m := range matches {
		if m.PatternID < 0 || m.PatternID >= len(d.patternEntry) {
			continue
		}
		e := d.patternEntry[m.PatternID]
		found = append(found, positioned{
			start: m.Start,
			end:   m.Start + len(d.patterns[m.PatternID]),
			ent:   ExtractedEntity{Kind: e.Kind, Name: e.Canonical},
		})
	}

	// Overlapping search can return spans that overlap each other; order
	// them by start (longest first at the same start), drop any span that
	// overlaps one already kept, then dedupe repeats by (kind, name).
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end > found[j].end
	})
	seen := make(map[string]bool)
	out := make([]ExtractedEntity, 0, len(found))
	keptEnd := 0
	for _, f := range found {
		if f.start < keptEnd {
			continue
		}
		keptEnd = f.end
		key := f.ent.Kind.String() + ":" + f.ent.Name
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f.ent)
	}
	return out
}
