package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-persona/internal/db"
)

// Store is the single entry point the rest of the core uses to read and
// write durable data. It wraps a *db.Pool; every method maps pgx errors to
// the store's own error taxonomy so callers never see raw driver errors.
type Store struct {
	pool *db.Pool
}

// New wraps an already-connected pool.
func New(pool *db.Pool) *Store {
	return &Store{pool: pool}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// GetTeamByID returns the team with the given id, or ErrNotFound.
func (s *Store) GetTeamByID(ctx context.Context, id int) (*Team, error) {
	row := s.pool.QueryRow(ctx, "team_by_id", id)
	return scanTeam(row)
}

// GetTeamByName matches on name or short name, case-insensitively.
func (s *Store) GetTeamByName(ctx context.Context, name string) (*Team, error) {
	row := s.pool.QueryRow(ctx, "team_by_name", name)
	return scanTeam(row)
}

func scanTeam(row pgx.Row) (*Team, error) {
	var t Team
	if err := row.Scan(&t.ID, &t.Name, &t.ShortName, &t.League, &t.Founded, &t.Stadium); err != nil {
		return nil, wrapErr(err)
	}
	return &t, nil
}

// GetPlayerByID returns the player with the given id, or ErrNotFound.
func (s *Store) GetPlayerByID(ctx context.Context, id int) (*Player, error) {
	row := s.pool.QueryRow(ctx, "player_by_id", id)
	return scanPlayer(row)
}

// GetPlayerByName matches on name, case-insensitively.
func (s *Store) GetPlayerByName(ctx context.Context, name string) (*Player, error) {
	row := s.pool.QueryRow(ctx, "player_by_name", name)
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	if err := row.Scan(&p.ID, &p.Name, &p.TeamID, &p.Position, &p.Nationality, &p.DateOfBirth); err != nil {
		return nil, wrapErr(err)
	}
	return &p, nil
}

// GetMatch returns the match with the given id, or ErrNotFound.
func (s *Store) GetMatch(ctx context.Context, id int) (*Match, error) {
	row := s.pool.QueryRow(ctx, "match_by_id", id)
	var m Match
	if err := row.Scan(&m.ID, &m.Date, &m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore, &m.Status, &m.Competition, &m.Venue); err != nil {
		return nil, wrapErr(err)
	}
	return &m, nil
}

// ListMatchesFilter bounds a chronological scan of matches.
type ListMatchesFilter struct {
	TeamID   *int
	Status   *MatchStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}

// ListMatches is a filtered chronological scan, most recent first.
func (s *Store) ListMatches(ctx context.Context, f ListMatchesFilter) ([]Match, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, "list_matches", f.TeamID, f.Status, f.DateFrom, f.DateTo, limit)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Date, &m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore, &m.Status, &m.Competition, &m.Venue); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// GetStandings returns the ordered table for one (league, season).
func (s *Store) GetStandings(ctx context.Context, league, season string) ([]StandingRow, error) {
	rows, err := s.pool.Query(ctx, "get_standings", league, season)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []StandingRow
	for rows.Next() {
		var r StandingRow
		r.League, r.Season = league, season
		if err := rows.Scan(&r.TeamID, &r.Played, &r.Won, &r.Drawn, &r.Lost, &r.GoalsFor, &r.GoalsAgainst, &r.Points, &r.Form, &r.Position); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// GetInjuries returns injuries for a team (or all teams when teamID is nil),
// defaulting to the active status.
func (s *Store) GetInjuries(ctx context.Context, teamID *int, status InjuryStatus) ([]Injury, error) {
	if status == "" {
		status = InjuryActive
	}
	rows, err := s.pool.Query(ctx, "get_injuries", teamID, status)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []Injury
	for rows.Next() {
		var inj Injury
		if err := rows.Scan(&inj.PlayerID, &inj.Type, &inj.Severity, &inj.ExpectedReturn, &inj.Status); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, inj)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// GetTransfers returns recent transfers for a team (or all teams when
// teamID is nil) within the given trailing window.
func (s *Store) GetTransfers(ctx context.Context, teamID *int, windowMonths int) ([]Transfer, error) {
	if windowMonths <= 0 {
		windowMonths = 6
	}
	since := time.Now().AddDate(0, -windowMonths, 0)
	rows, err := s.pool.Query(ctx, "get_transfers", teamID, since)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.PlayerID, &t.FromTeam, &t.ToTeam, &t.Type, &t.Fee, &t.Effective); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
