// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-persona/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the store layer uses.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",

		// Teams / players
		"team_by_id":      "SELECT id, name, short_name, league, founded, stadium FROM teams WHERE id = $1",
		"team_by_name":    "SELECT id, name, short_name, league, founded, stadium FROM teams WHERE lower(name) = lower($1) OR lower(short_name) = lower($1)",
		"player_by_id":    "SELECT id, name, team_id, position, nationality, date_of_birth FROM players WHERE id = $1",
		"player_by_name":  "SELECT id, name, team_id, position, nationality, date_of_birth FROM players WHERE lower(name) = lower($1)",

		// Matches
		"match_by_id":  "SELECT id, match_date, home_team_id, away_team_id, home_score, away_score, status, competition, venue FROM matches WHERE id = $1",
		"list_matches": "SELECT id, match_date, home_team_id, away_team_id, home_score, away_score, status, competition, venue FROM matches WHERE ($1::int IS NULL OR home_team_id = $1 OR away_team_id = $1) AND ($2::text IS NULL OR status = $2) AND ($3::date IS NULL OR match_date >= $3) AND ($4::date IS NULL OR match_date <= $4) ORDER BY match_date DESC LIMIT $5",

		// Standings
		"get_standings": "SELECT team_id, played, won, drawn, lost, goals_for, goals_against, points, form, position FROM standings WHERE league = $1 AND season = $2 ORDER BY position ASC",

		// Injuries / transfers
		"get_injuries":  "SELECT player_id, injury_type, severity, expected_return, status FROM injuries WHERE ($1::int IS NULL OR player_id IN (SELECT id FROM players WHERE team_id = $1)) AND status = $2",
		"get_transfers": "SELECT player_id, from_team_id, to_team_id, transfer_type, fee, effective_date FROM transfers WHERE ($1::int IS NULL OR from_team_id = $1 OR to_team_id = $1) AND effective_date >= $2 ORDER BY effective_date DESC",

		// Knowledge graph
		"graph_node_by_id":     "SELECT id, node_type, entity_id, name, properties FROM kg_node WHERE id = $1",
		"graph_nodes_by_name":  "SELECT id, node_type, entity_id, name, properties FROM kg_node WHERE lower(name) = lower($1)",
		"graph_edges_from":     "SELECT id, source_id, target_id, relation, weight, properties FROM kg_edge WHERE source_id = $1",

		// Full text search — meta-characters are escaped by the caller before
		// reaching these statements (see internal/store/fts.go).
		"fts_teams":   "SELECT id, name, short_name, ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS rank FROM teams WHERE search_vector @@ websearch_to_tsquery('english', $1) ORDER BY rank DESC LIMIT $2",
		"fts_players": "SELECT id, name, ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS rank FROM players WHERE search_vector @@ websearch_to_tsquery('english', $1) ORDER BY rank DESC LIMIT $2",
		"fts_news":    "SELECT id, title, body, published_at, ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS rank FROM news WHERE search_vector @@ websearch_to_tsquery('english', $1) ORDER BY rank DESC LIMIT $2",

		// Persona bundle, assembled in one atomic read via a Postgres
		// function so partial bundles can never be observed.
		"load_persona": "SELECT persona_payload($1)",

		// Form derivation source
		"recent_finished_matches": "SELECT home_team_id, away_team_id, home_score, away_score, match_date FROM matches WHERE (home_team_id = $1 OR away_team_id = $1) AND status = 'finished' ORDER BY match_date DESC LIMIT $2",

		// Entity dictionary bulk read — one startup pass builds the
		// extraction automaton from every known team, player, and legend
		// name (legends are kg_node rows of type 'legend').
		"list_entity_dictionary": "SELECT 'team' AS kind, name FROM teams UNION ALL SELECT 'player' AS kind, name FROM players UNION ALL SELECT 'legend' AS kind, name FROM kg_node WHERE node_type = 'legend'",

		// Writes
		"append_security_log": "INSERT INTO security_log (session_id, occurred_at, pattern_id, raw_length, response_class) VALUES ($1, $2, $3, $4, $5)",
		"upsert_session_state": "INSERT INTO session_state (session_id, trust_level, clean_count, escalation_count, last_attempt_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (session_id) DO UPDATE SET trust_level = EXCLUDED.trust_level, clean_count = EXCLUDED.clean_count, escalation_count = EXCLUDED.escalation_count, last_attempt_at = EXCLUDED.last_attempt_at",
		"append_analytics": "INSERT INTO analytics (conversation_id, persona_id, intent, source_count, confidence, latency_ms, cache_hit, cancelled, occurred_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
