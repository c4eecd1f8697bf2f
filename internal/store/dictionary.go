package store

import "context"

// EntityDictionaryRow is one (kind, name) pair used to compile the
// retrieval engine's extraction automaton at startup. Kind is one of
// "team", "player", "legend".
type EntityDictionaryRow struct {
	Kind string
	Name string
}

// ListEntityDictionary returns every known team, player, and legend name in
// one bulk read, the source data for building the entity-extraction
// automaton once at startup.
func (s *Store) ListEntityDictionary(ctx context.Context) ([]EntityDictionaryRow, error) {
	rows, err := s.pool.Query(ctx, "list_entity_dictionary")
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []EntityDictionaryRow
	for rows.Next() {
		var row EntityDictionaryRow
		if err := rows.Scan(&row.Kind, &row.Name); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
