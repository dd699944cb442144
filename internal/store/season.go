package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikebook/strikebook/internal/league"
)

// ActivateSeason marks one season active and every other season inactive
// in the same transaction, so at most one season is ever active.
func ActivateSeason(ctx context.Context, pool *pgxpool.Pool, seasonID int64) error {
	var exists int64
	if err := pool.QueryRow(ctx, "season_by_id", seasonID).Scan(&exists, new(string), new(bool)); err != nil {
		return league.NotFoundf("season %d", seasonID)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin season activation: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "deactivate_seasons", seasonID); err != nil {
		return fmt.Errorf("deactivate seasons: %w", err)
	}
	if _, err := tx.Exec(ctx, "activate_season", seasonID); err != nil {
		return fmt.Errorf("activate season %d: %w", seasonID, err)
	}
	return tx.Commit(ctx)
}
