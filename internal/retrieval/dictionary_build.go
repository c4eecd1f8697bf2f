package retrieval

import "github.com/albapepper/scoracle-persona/internal/store"

// BuildDictionary compiles an EntityDictionary from a bulk store read,
// the shape store.ListEntityDictionary returns at startup.
func BuildDictionary(rows []store.EntityDictionaryRow) (*EntityDictionary, error) {
	entries := make([]DictionaryEntry, 0, len(rows))
	for _, r := range rows {
		kind, ok := entityKindFromString(r.Kind)
		if !ok {
			continue
		}
		entries = append(entries, DictionaryEntry{Kind: kind, Canonical: r.Name})
	}
	return NewEntityDictionary(entries)
}

func entityKindFromString(s string) (EntityKind, bool) {
	switch s {
	case "team":
		return EntityTeam, true
	case "player":
		return EntityPlayer, true
	case "legend":
		return EntityLegend, true
	default:
		return 0, false
	}
}
