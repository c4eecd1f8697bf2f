package retrieval

import (
	"sort"

	"github.com/albapepper/scoracle-persona/internal/fingerprint"
)

// FusionWeights holds the FTS/graph blend coefficients.
type FusionWeights struct {
	Beta  float64 // FTS weight
	Gamma float64 // graph weight
}

// Fuse blends FTS and graph evidence into one score, deduplicates by text
// fingerprint (keeping the highest-scored instance), and returns up to
// maxLines items ordered by final score descending.
func Fuse(fts, graph []Evidence, w FusionWeights, maxLines int) []Evidence {
	scored := make([]Evidence, 0, len(fts)+len(graph))
	for _, e := range fts {
		e.Score = clamp01(w.Beta * e.Score)
		scored = append(scored, e)
	}
	for _, e := range graph {
		e.Score = clamp01(w.Gamma * e.Score)
		scored = append(scored, e)
	}

	best := make(map[string]Evidence)
	order := make([]string, 0, len(scored))
	for _, e := range scored {
		fp := fingerprint.Of(e.Text)
		if cur, ok := best[fp]; !ok {
			best[fp] = e
			order = append(order, fp)
		} else if e.Score > cur.Score {
			best[fp] = e
		}
	}

	out := make([]Evidence, 0, len(order))
	for _, fp := range order {
		out = append(out, best[fp])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if maxLines > 0 && len(out) > maxLines {
		out = out[:maxLines]
	}
	return out
}
