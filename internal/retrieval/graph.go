package retrieval

import (
	"context"
	"fmt"
	"strconv"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// traversalRelations are the relations graph retrieval follows.
var traversalRelations = []store.GraphRelation{
	store.RelLegendaryAt,
	store.RelOccurredAt,
	store.RelAgainst,
	store.RelRivalOf,
	store.RelCurrentState,
}

// depthDecay maps traversal depth to its configured decay coefficient.
func depthDecay(depth int, decay1, decay2 float64) float64 {
	if depth <= 1 {
		return decay1
	}
	return decay2
}

// runGraph seeds traversal from every extracted entity name plus the
// persona's team name (if active), then traverses to the configured
// maximum depth, producing one evidence line per visited (node, edge).
func runGraph(ctx context.Context, s Store, entities []ExtractedEntity, personaTeamName string, maxDepth int, decay1, decay2 float64) ([]Evidence, error) {
	seedNames := make(map[string]bool)
	for _, e := range entities {
		seedNames[e.Name] = true
	}
	if personaTeamName != "" {
		seedNames[personaTeamName] = true
	}

	var seedIDs []int
	seenSeed := make(map[int]bool)
	for name := range seedNames {
		nodes, err := s.SearchGraphByName(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if !seenSeed[n.ID] {
				seenSeed[n.ID] = true
				seedIDs = append(seedIDs, n.ID)
			}
		}
	}

	var out []Evidence
	for _, seed := range seedIDs {
		neighbors, err := s.GraphNeighbors(ctx, seed, traversalRelations, maxDepth)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			score := clamp01(nb.Edge.Weight * depthDecay(nb.Depth, decay1, decay2))
			out = append(out, Evidence{
				Text:   summarizeNeighbor(nb),
				Score:  score,
				Kind:   SourceGraph,
				Domain: string(nb.Edge.Relation),
				ID:     strconv.Itoa(nb.Node.ID),
				Depth:  nb.Depth,
			})
		}
	}
	return out, nil
}

func summarizeNeighbor(nb store.NeighborResult) string {
	switch nb.Edge.Relation {
	case store.RelLegendaryAt:
		return fmt.Sprintf("%s is a legend", nb.Node.Name)
	case store.RelRivalOf:
		return fmt.Sprintf("%s is a rival", nb.Node.Name)
	case store.RelOccurredAt:
		return fmt.Sprintf("notable moment: %s", nb.Node.Name)
	case store.RelAgainst:
		return fmt.Sprintf("faced %s", nb.Node.Name)
	case store.RelCurrentState:
		return fmt.Sprintf("current state: %s", nb.Node.Name)
	default:
		return nb.Node.Name
	}
}
