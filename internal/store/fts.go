package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FTSDomain enumerates the corpora search_text can run against.
type FTSDomain string

const (
	DomainTeams   FTSDomain = "teams"
	DomainPlayers FTSDomain = "players"
	DomainNews    FTSDomain = "news"
)

// FTSResult is one ranked full-text hit, normalized across domains.
type FTSResult struct {
	Domain FTSDomain
	ID     int
	Title  string // team/player name, or news title
	Body   string // empty for teams/players
	Rank   float64
}

// metaChars are the PostgreSQL websearch_to_tsquery operators a raw user
// query could smuggle in. EscapeFTSQuery replaces them with spaces so every
// query reaches the index as plain text, never as query syntax.
var metaChars = regexp.MustCompile(`["'(){}|&!:*]`)

// unescapableRun matches a contiguous run of characters that are not
// letters, digits, whitespace, apostrophes, or hyphens; EscapeFTSQuery
// replaces each such run with a space.
var unescapableRun = regexp.MustCompile(`[^\p{L}\p{N}\s'-]+`)

// controlSequence matches a control or format character other than
// ordinary whitespace — the "control sequence" the strict-escaping flag
// rejects. Ordinary punctuation never matches.
var controlSequence = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-\x9F\p{Cf}]`)

// ErrUnescapableQuery is returned by EscapeFTSQuery in strict mode when the
// query contains a control sequence that cannot be safely passed through.
var ErrUnescapableQuery = errors.New("query contains unescapable characters")

// EscapeFTSQuery strips FTS meta-characters out of a raw query. In strict
// mode, a query containing an unescapable control sequence is rejected
// outright; in degrade mode the offending run is stripped and the rest of
// the query is still searched.
func EscapeFTSQuery(raw string, strict bool) (string, error) {
	if strict && controlSequence.MatchString(raw) {
		return "", ErrUnescapableQuery
	}
	cleaned := unescapableRun.ReplaceAllString(raw, " ")
	cleaned = metaChars.ReplaceAllString(cleaned, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cleaned, nil
}

// SearchText runs a full-text match over one domain. An empty query, or one
// composed solely of meta-characters, yields an empty list — never an
// error. strictEscaping controls EscapeFTSQuery's fail-vs-degrade behavior
// on an unescapable control sequence.
func (s *Store) SearchText(ctx context.Context, domain FTSDomain, query string, limit int, strictEscaping bool) ([]FTSResult, error) {
	if limit <= 0 {
		limit = 5
	}
	escaped, err := EscapeFTSQuery(query, strictEscaping)
	if err != nil {
		return nil, err
	}
	if escaped == "" {
		return nil, nil
	}

	stmt := map[FTSDomain]string{
		DomainTeams:   "fts_teams",
		DomainPlayers: "fts_players",
		DomainNews:    "fts_news",
	}[domain]
	if stmt == "" {
		return nil, fmt.Errorf("%w: unknown FTS domain %q", ErrStoreUnavailable, domain)
	}

	rows, err := s.pool.Query(ctx, stmt, escaped, limit)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []FTSResult
	switch domain {
	case DomainNews:
		for rows.Next() {
			var r FTSResult
			var publishedAt any
			if err := rows.Scan(&r.ID, &r.Title, &r.Body, &publishedAt, &r.Rank); err != nil {
				return nil, wrapErr(err)
			}
			r.Domain = domain
			out = append(out, r)
		}
	default:
		for rows.Next() {
			var r FTSResult
			var short string
			if domain == DomainTeams {
				if err := rows.Scan(&r.ID, &r.Title, &short, &r.Rank); err != nil {
					return nil, wrapErr(err)
				}
			} else {
				if err := rows.Scan(&r.ID, &r.Title, &r.Rank); err != nil {
					return nil, wrapErr(err)
				}
			}
			r.Domain = domain
			out = append(out, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
