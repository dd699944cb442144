// Package store is the pgx persistence layer: it hydrates the league graph
// for the pure engines (scoring, settlement, stats, schedule) and applies
// their results transactionally. All SQL goes through the prepared
// statements registered in internal/db.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikebook/strikebook/internal/league"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so hydration can
// run inside or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetMatch returns a fully hydrated match: both teams with rosters,
// substitutions, games, and frames.
func GetMatch(ctx context.Context, pool *pgxpool.Pool, id int64) (*league.Match, error) {
	return getMatch(ctx, pool, id)
}

func getMatch(ctx context.Context, q querier, id int64) (*league.Match, error) {
	var (
		m                    league.Match
		homeTeamID, awayTeamID int64
	)
	err := q.QueryRow(ctx, "match_by_id", id).Scan(
		&m.ID, &m.SeasonID, &m.Week, &homeTeamID, &awayTeamID,
		&m.HomePoints, &m.AwayPoints, &m.WinnerTeamID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, league.NotFoundf("match %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}

	if m.HomeTeam, err = getTeam(ctx, q, homeTeamID); err != nil {
		return nil, err
	}
	if m.AwayTeam, err = getTeam(ctx, q, awayTeamID); err != nil {
		return nil, err
	}
	if m.Substitutions, err = getSubstitutions(ctx, q, id); err != nil {
		return nil, err
	}
	if m.Games, err = getGames(ctx, q, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func getTeam(ctx context.Context, q querier, id int64) (league.Team, error) {
	var t league.Team
	err := q.QueryRow(ctx, "team_by_id", id).Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, league.NotFoundf("team %d", id)
	}
	if err != nil {
		return t, fmt.Errorf("get team %d: %w", id, err)
	}

	rows, err := q.Query(ctx, "team_roster", id)
	if err != nil {
		return t, fmt.Errorf("get roster for team %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var b league.Bowler
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return t, fmt.Errorf("scan roster bowler: %w", err)
		}
		t.Roster = append(t.Roster, b)
	}
	return t, rows.Err()
}

func getSubstitutions(ctx context.Context, q querier, matchID int64) ([]league.Substitution, error) {
	rows, err := q.Query(ctx, "match_subs", matchID)
	if err != nil {
		return nil, fmt.Errorf("get substitutions for match %d: %w", matchID, err)
	}
	defer rows.Close()

	var subs []league.Substitution
	for rows.Next() {
		var s league.Substitution
		if err := rows.Scan(&s.ID, &s.MatchID, &s.TeamID, &s.OriginalBowlerID, &s.SubstituteBowlerID); err != nil {
			return nil, fmt.Errorf("scan substitution: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func getGames(ctx context.Context, q querier, matchID int64) ([]league.Game, error) {
	rows, err := q.Query(ctx, "match_games", matchID)
	if err != nil {
		return nil, fmt.Errorf("get games for match %d: %w", matchID, err)
	}
	var games []league.Game
	for rows.Next() {
		var g league.Game
		if err := rows.Scan(
			&g.ID, &g.MatchID, &g.Number,
			&g.HomeScore, &g.AwayScore,
			&g.HomeStrikes, &g.AwayStrikes,
			&g.HomePoints, &g.AwayPoints,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range games {
		frames, err := getFrames(ctx, q, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Frames = frames
	}
	return games, nil
}

func getFrames(ctx context.Context, q querier, gameID int64) ([]league.Frame, error) {
	rows, err := q.Query(ctx, "game_frames", gameID)
	if err != nil {
		return nil, fmt.Errorf("get frames for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var frames []league.Frame
	for rows.Next() {
		var f league.Frame
		if err := rows.Scan(&f.ID, &f.GameID, &f.BowlerID, &f.Number, &f.Ball1, &f.Ball2, &f.Ball3, &f.Ball1Split); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// GetSeason returns a fully hydrated season: teams with rosters and every
// match with games, frames, and substitutions. One read feeds a whole
// statistics run.
func GetSeason(ctx context.Context, pool *pgxpool.Pool, id int64) (*league.Season, error) {
	var s league.Season
	err := pool.QueryRow(ctx, "season_by_id", id).Scan(&s.ID, &s.Name, &s.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, league.NotFoundf("season %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, err)
	}

	teamRows, err := pool.Query(ctx, "season_teams", id)
	if err != nil {
		return nil, fmt.Errorf("get teams for season %d: %w", id, err)
	}
	var teamIDs []int64
	for teamRows.Next() {
		var tid int64
		var name string
		if err := teamRows.Scan(&tid, &name); err != nil {
			teamRows.Close()
			return nil, fmt.Errorf("scan season team: %w", err)
		}
		teamIDs = append(teamIDs, tid)
	}
	teamRows.Close()
	if err := teamRows.Err(); err != nil {
		return nil, err
	}
	for _, tid := range teamIDs {
		t, err := getTeam(ctx, pool, tid)
		if err != nil {
			return nil, err
		}
		s.Teams = append(s.Teams, t)
	}

	matchRows, err := pool.Query(ctx, "season_matches", id)
	if err != nil {
		return nil, fmt.Errorf("get matches for season %d: %w", id, err)
	}
	var matchIDs []int64
	for matchRows.Next() {
		var mid int64
		if err := matchRows.Scan(&mid); err != nil {
			matchRows.Close()
			return nil, fmt.Errorf("scan season match: %w", err)
		}
		matchIDs = append(matchIDs, mid)
	}
	matchRows.Close()
	if err := matchRows.Err(); err != nil {
		return nil, err
	}
	for _, mid := range matchIDs {
		m, err := getMatch(ctx, pool, mid)
		if err != nil {
			return nil, err
		}
		s.Matches = append(s.Matches, *m)
	}
	return &s, nil
}

// Directory adapts the pool to stats.Directory: the identity lookup of
// last resort for substitutes on no roster.
type Directory struct {
	Pool *pgxpool.Pool
}

// BowlerName looks a bowler's display name up by id.
func (d Directory) BowlerName(ctx context.Context, id int64) (string, error) {
	var (
		bowlerID int64
		name     string
	)
	err := d.Pool.QueryRow(ctx, "bowler_by_id", id).Scan(&bowlerID, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", league.NotFoundf("bowler %d", id)
	}
	if err != nil {
		return "", fmt.Errorf("get bowler %d: %w", id, err)
	}
	return name, nil
}
