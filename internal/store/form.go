package store

import "context"

// CurrentForm derives a 5-character form string ({W,D,L,-}) from the last
// lastN finished matches, ordered by date descending. Missing matches are
// padded with '-'.
func (s *Store) CurrentForm(ctx context.Context, teamID int, lastN int) (string, error) {
	if lastN <= 0 {
		lastN = 5
	}
	rows, err := s.pool.Query(ctx, "recent_finished_matches", teamID, lastN)
	if err != nil {
		return "", wrapErr(err)
	}
	defer rows.Close()

	var results []byte
	for rows.Next() {
		var homeID, awayID int
		var homeScore, awayScore *int
		var matchDate any
		if err := rows.Scan(&homeID, &awayID, &homeScore, &awayScore, &matchDate); err != nil {
			return "", wrapErr(err)
		}
		if homeScore == nil || awayScore == nil {
			results = append(results, '-')
			continue
		}
		results = append(results, outcomeFor(teamID, homeID, awayID, *homeScore, *awayScore))
	}
	if err := rows.Err(); err != nil {
		return "", wrapErr(err)
	}

	for len(results) < 5 {
		results = append(results, '-')
	}
	if len(results) > 5 {
		results = results[:5]
	}
	return string(results), nil
}

func outcomeFor(teamID, homeID, awayID, homeScore, awayScore int) byte {
	var gf, ga int
	if teamID == homeID {
		gf, ga = homeScore, awayScore
	} else {
		gf, ga = awayScore, homeScore
	}
	switch {
	case gf > ga:
		return 'W'
	case gf < ga:
		return 'L'
	default:
		return 'D'
	}
}
