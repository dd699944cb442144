package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/schedule"
)

// GenerateSchedule seeds a season's matches with a round-robin fixture
// list. The season must have zero matches — regenerating a schedule over
// existing fixtures is rejected before anything is written. All match rows
// go in as one batch inside one transaction.
func GenerateSchedule(ctx context.Context, pool *pgxpool.Pool, seasonID int64) (*league.Season, error) {
	season, err := GetSeason(ctx, pool, seasonID)
	if err != nil {
		return nil, err
	}
	if len(season.Matches) > 0 {
		return nil, league.InvalidRequestf("season %d already has %d matches", seasonID, len(season.Matches))
	}

	teamIDs := make([]int64, 0, len(season.Teams))
	for _, t := range season.Teams {
		teamIDs = append(teamIDs, t.ID)
	}
	pairings, err := schedule.RoundRobin(teamIDs)
	if err != nil {
		return nil, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin schedule insert: %w", err)
	}
	defer tx.Rollback(ctx)

	// Re-check under the transaction so two concurrent generate calls
	// cannot both pass the empty-season precondition.
	var count int
	if err := tx.QueryRow(ctx, "season_match_count", seasonID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count season matches: %w", err)
	}
	if count > 0 {
		return nil, league.InvalidRequestf("season %d already has %d matches", seasonID, count)
	}

	batch := &pgx.Batch{}
	for _, p := range pairings {
		batch.Queue("insert_match", seasonID, p.Week, p.HomeTeamID, p.AwayTeamID)
	}
	br := tx.SendBatch(ctx, batch)
	for range pairings {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, fmt.Errorf("insert match: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("close schedule batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit schedule: %w", err)
	}

	return GetSeason(ctx, pool, seasonID)
}
