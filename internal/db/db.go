// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikebook/strikebook/internal/config"
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

	// Verify connectivity
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

// registerPreparedStatements registers all statements the API and settlement
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Match hydration
		"match_by_id": `SELECT m.id, m.season_id, m.week, m.home_team_id, m.away_team_id,
			m.home_team_points, m.away_team_points, m.winning_team_id
			FROM matches m WHERE m.id = $1`,
		"team_by_id":   "SELECT id, name FROM teams WHERE id = $1",
		"team_roster":  "SELECT b.id, b.name FROM bowlers b JOIN team_bowlers tb ON tb.bowler_id = b.id WHERE tb.team_id = $1 ORDER BY b.id",
		"match_subs":   "SELECT id, match_id, team_id, original_bowler_id, substitute_bowler_id FROM substitutions WHERE match_id = $1 ORDER BY id",
		"match_games":  "SELECT id, match_id, game_number, home_team_score, away_team_score, home_team_strikes, away_team_strikes, home_team_points, away_team_points FROM games WHERE match_id = $1 ORDER BY game_number",
		"game_frames":  "SELECT id, game_id, bowler_id, frame_number, ball1_score, ball2_score, ball3_score, is_ball1_split FROM frames WHERE game_id = $1 ORDER BY bowler_id, frame_number",
		"bowler_by_id": "SELECT id, name FROM bowlers WHERE id = $1",

		// Season hydration
		"season_by_id":   "SELECT id, name, is_active FROM seasons WHERE id = $1",
		"season_teams":   "SELECT t.id, t.name FROM teams t JOIN season_teams st ON st.team_id = t.id WHERE st.season_id = $1 ORDER BY t.id",
		"season_matches": "SELECT id FROM matches WHERE season_id = $1 ORDER BY week, id",
		"season_match_count": "SELECT COUNT(*) FROM matches WHERE season_id = $1",

		// Submission writes (run inside the settlement transaction)
		"lock_match": "SELECT id FROM matches WHERE id = $1 FOR UPDATE",
		"ensure_game": `INSERT INTO games (match_id, game_number) VALUES ($1, $2)
			ON CONFLICT (match_id, game_number) DO UPDATE SET match_id = EXCLUDED.match_id
			RETURNING id`,
		"upsert_frame": `INSERT INTO frames (game_id, bowler_id, frame_number, ball1_score, ball2_score, ball3_score, is_ball1_split)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (game_id, bowler_id, frame_number) DO UPDATE SET
				ball1_score = EXCLUDED.ball1_score,
				ball2_score = EXCLUDED.ball2_score,
				ball3_score = EXCLUDED.ball3_score,
				is_ball1_split = EXCLUDED.is_ball1_split`,
		"update_game": `UPDATE games SET home_team_score = $2, away_team_score = $3,
			home_team_strikes = $4, away_team_strikes = $5,
			home_team_points = $6, away_team_points = $7
			WHERE id = $1`,
		"update_match": `UPDATE matches SET home_team_points = $2, away_team_points = $3, winning_team_id = $4
			WHERE id = $1`,

		// Substitutions
		"insert_sub": `INSERT INTO substitutions (match_id, team_id, original_bowler_id, substitute_bowler_id)
			VALUES ($1, $2, $3, $4) RETURNING id`,
		"delete_sub": "DELETE FROM substitutions WHERE id = $1 AND match_id = $2",

		// Schedule
		"insert_match": "INSERT INTO matches (season_id, week, home_team_id, away_team_id) VALUES ($1, $2, $3, $4)",

		// Season activation
		"deactivate_seasons": "UPDATE seasons SET is_active = false WHERE id <> $1",
		"activate_season":    "UPDATE seasons SET is_active = true WHERE id = $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
