package retrieval

// SourceKind distinguishes where one piece of evidence came from.
type SourceKind string

const (
	SourceFTS   SourceKind = "fts"
	SourceGraph SourceKind = "graph"
)

// Evidence is one scored, attributable line of context.
type Evidence struct {
	Text   string
	Score  float64 // in [0,1]
	Kind   SourceKind
	Domain string // FTS domain name, or graph relation name
	ID     string // record id (FTS) or node id (graph), for source attribution
	Depth  int    // graph traversal depth; 0 for FTS items
}

// Source is the caller-facing attribution record for one evidence item.
type Source struct {
	Type string
	ID   string
}
