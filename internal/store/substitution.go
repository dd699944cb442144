package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/settlement"
)

// CreateSubstitution records a stand-in for one match after checking the
// roster guards. The (match, originalBowler) and (match, substituteBowler)
// uniqueness is enforced by database constraints; the guards here reject
// everything else before any write.
func CreateSubstitution(ctx context.Context, pool *pgxpool.Pool, matchID int64, sub league.Substitution) (*league.Substitution, error) {
	m, err := GetMatch(ctx, pool, matchID)
	if err != nil {
		return nil, err
	}
	sub.MatchID = matchID
	if err := settlement.CheckSubstitution(m, sub); err != nil {
		return nil, err
	}

	if err := pool.QueryRow(ctx, "insert_sub",
		sub.MatchID, sub.TeamID, sub.OriginalBowlerID, sub.SubstituteBowlerID,
	).Scan(&sub.ID); err != nil {
		return nil, fmt.Errorf("insert substitution: %w", err)
	}
	return &sub, nil
}

// DeleteSubstitution removes a substitution. Already-settled games keep
// their point fields — settlement is never rerun retroactively — but any
// statistics run after the delete rebuilds team membership without it.
func DeleteSubstitution(ctx context.Context, pool *pgxpool.Pool, matchID, subID int64) error {
	tag, err := pool.Exec(ctx, "delete_sub", subID, matchID)
	if err != nil {
		return fmt.Errorf("delete substitution %d: %w", subID, err)
	}
	if tag.RowsAffected() == 0 {
		return league.NotFoundf("substitution %d on match %d", subID, matchID)
	}
	return nil
}
