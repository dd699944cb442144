package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/settlement"
)

// SubmitScores validates and settles one game's score submission, applying
// every write — frame upserts, lazy game creation, game fields, match
// aggregates — in a single transaction. The match row is locked first so
// concurrent submissions for sibling games serialize before the aggregate
// recompute reads them; resubmission overwrites frames in place and lands
// on the same aggregate.
//
// Returns the rehydrated match. Submitted bowlers on neither side are
// settled with their pins dropped from the team totals; their IDs come
// back in unattributed so callers can flag the gap.
func SubmitScores(ctx context.Context, pool *pgxpool.Pool, matchID int64, sub league.ScoreSubmission) (match *league.Match, unattributed []int64, err error) {
	if err := league.ValidateSubmission(sub); err != nil {
		return nil, nil, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin submission: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "lock_match", matchID); err != nil {
		return nil, nil, fmt.Errorf("lock match %d: %w", matchID, err)
	}

	m, err := getMatch(ctx, tx, matchID)
	if err != nil {
		return nil, nil, err
	}

	out := settlement.SettleGame(m, sub)

	// Lazy game creation, idempotent on (match_id, game_number).
	var gameID int64
	if err := tx.QueryRow(ctx, "ensure_game", matchID, sub.GameNumber).Scan(&gameID); err != nil {
		return nil, nil, fmt.Errorf("ensure game %d for match %d: %w", sub.GameNumber, matchID, err)
	}

	// Only the frames named in the submission are written; existing frames
	// for other bowlers or frame numbers stay untouched.
	for _, bs := range sub.Bowlers {
		for _, f := range bs.Frames {
			if _, err := tx.Exec(ctx, "upsert_frame",
				gameID, bs.BowlerID, f.Number, f.Ball1, f.Ball2, f.Ball3, f.Ball1Split,
			); err != nil {
				return nil, nil, fmt.Errorf("upsert frame %d for bowler %d: %w", f.Number, bs.BowlerID, err)
			}
		}
	}

	if _, err := tx.Exec(ctx, "update_game", gameID,
		out.HomeScore, out.AwayScore,
		out.HomeStrikes, out.AwayStrikes,
		out.HomePoints, out.AwayPoints,
	); err != nil {
		return nil, nil, fmt.Errorf("update game %d: %w", gameID, err)
	}

	// Match aggregate is recomputed over all games, never patched.
	settlement.ApplyGame(m, out)
	agg := settlement.AggregateMatch(m)
	if _, err := tx.Exec(ctx, "update_match", matchID, agg.HomePoints, agg.AwayPoints, agg.WinnerTeamID); err != nil {
		return nil, nil, fmt.Errorf("update match %d: %w", matchID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit submission: %w", err)
	}

	hydrated, err := GetMatch(ctx, pool, matchID)
	if err != nil {
		return nil, nil, err
	}
	return hydrated, out.Unattributed, nil
}
