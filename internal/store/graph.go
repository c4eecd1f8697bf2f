package store

import (
	"context"
	"encoding/json"
)

// GraphNeighbors performs a bounded traversal from node_id along the given
// relations (all relations if nil), to a maximum depth of 2. It returns the
// (node, edge) pairs visited, keyed by a per-request visited-set so no node
// is revisited at the same depth.
func (s *Store) GraphNeighbors(ctx context.Context, nodeID int, relations []GraphRelation, depth int) ([]NeighborResult, error) {
	if depth < 1 {
		depth = 1
	}
	if depth > 2 {
		depth = 2
	}

	allowed := make(map[GraphRelation]bool, len(relations))
	for _, r := range relations {
		allowed[r] = true
	}

	visited := map[int]bool{nodeID: true}
	var out []NeighborResult
	frontier := []int{nodeID}

	for d := 1; d <= depth; d++ {
		var next []int
		for _, id := range frontier {
			rows, err := s.pool.Query(ctx, "graph_edges_from", id)
			if err != nil {
				return nil, wrapErr(err)
			}
			var edges []GraphEdge
			for rows.Next() {
				var e GraphEdge
				var props []byte
				if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.Relation, &e.Weight, &props); err != nil {
					rows.Close()
					return nil, wrapErr(err)
				}
				e.Properties = decodeProps(props)
				edges = append(edges, e)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return nil, wrapErr(err)
			}

			for _, e := range edges {
				if len(allowed) > 0 && !allowed[e.Relation] {
					continue
				}
				if visited[e.TargetID] {
					continue
				}
				node, err := s.getNodeByID(ctx, e.TargetID)
				if err != nil {
					if err == ErrNotFound {
						continue
					}
					return nil, err
				}
				out = append(out, NeighborResult{Node: *node, Edge: e, Depth: d})
				visited[e.TargetID] = true
				next = append(next, e.TargetID)
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return out, nil
}

// NeighborResult is one visited (node, incoming-edge, depth) triple.
type NeighborResult struct {
	Node  GraphNode
	Edge  GraphEdge
	Depth int
}

func (s *Store) getNodeByID(ctx context.Context, id int) (*GraphNode, error) {
	row := s.pool.QueryRow(ctx, "graph_node_by_id", id)
	var n GraphNode
	var props []byte
	if err := row.Scan(&n.ID, &n.Type, &n.EntityID, &n.Name, &props); err != nil {
		return nil, wrapErr(err)
	}
	n.Properties = decodeProps(props)
	return &n, nil
}

// SearchGraphByName name-matches nodes; used to seed traversals.
func (s *Store) SearchGraphByName(ctx context.Context, query string) ([]GraphNode, error) {
	rows, err := s.pool.Query(ctx, "graph_nodes_by_name", query)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []GraphNode
	for rows.Next() {
		var n GraphNode
		var props []byte
		if err := rows.Scan(&n.ID, &n.Type, &n.EntityID, &n.Name, &props); err != nil {
			return nil, wrapErr(err)
		}
		n.Properties = decodeProps(props)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

func decodeProps(raw []byte) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
