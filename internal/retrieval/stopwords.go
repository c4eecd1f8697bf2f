package retrieval

import (
	"strings"

	"github.com/orsinium-labs/stopwords"
)

// IsOnlyStopWords reports whether every token in query is an English stop
// word. Such a query still produces a non-empty response with no sources
// and confidence 0, never an error.
func IsOnlyStopWords(query string) bool {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?;:'\"")
		if tok == "" {
			continue
		}
		if !stopwords.MustGet("en").Contains(tok) {
			return false
		}
	}
	return true
}
