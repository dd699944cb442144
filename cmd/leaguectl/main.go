// Command leaguectl is the Strikebook league operations CLI.
//
// Usage:
//
//	leaguectl schedule --season 3
//	leaguectl stats --season 3
//	leaguectl season activate --id 3
//	leaguectl scorecard --match 12 --game 1 --file card.jpg
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/strikebook/strikebook/internal/config"
	"github.com/strikebook/strikebook/internal/db"
	"github.com/strikebook/strikebook/internal/external"
	"github.com/strikebook/strikebook/internal/stats"
	"github.com/strikebook/strikebook/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "leaguectl",
		Short: "Strikebook league operations CLI",
	}

	root.AddCommand(scheduleCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(seasonCmd())
	root.AddCommand(scorecardCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// schedule command
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var seasonID int64
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a season's round-robin match schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seasonID == 0 {
				return fmt.Errorf("--season is required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				season, err := store.GenerateSchedule(ctx, pool.Pool, seasonID)
				if err != nil {
					return err
				}
				logger.Info("Schedule generated",
					"season", seasonID,
					"teams", len(season.Teams),
					"matches", len(season.Matches),
					"duration", time.Since(start).Round(time.Millisecond))
				for _, m := range season.Matches {
					logger.Info("Match", "week", m.Week, "home", m.HomeTeam.Name, "away", m.AwayTeam.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "season", 0, "Season ID")
	return cmd
}

// --------------------------------------------------------------------------
// stats command
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	var seasonID int64
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Recompute and print season statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seasonID == 0 {
				return fmt.Errorf("--season is required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				season, err := store.GetSeason(ctx, pool.Pool, seasonID)
				if err != nil {
					return err
				}
				report, err := stats.Aggregate(ctx, season, store.Directory{Pool: pool.Pool})
				if err != nil {
					return err
				}
				for _, t := range report.Teams {
					logger.Info("Team",
						"name", t.Name,
						"matches", fmt.Sprintf("%d-%d-%d", t.MatchWins, t.MatchLosses, t.MatchTies),
						"games", fmt.Sprintf("%d-%d-%d", t.GameWins, t.GameLosses, t.GameTies),
						"ppg", t.PinsPerGame, "oppg", t.PinsAgainst)
				}
				for _, b := range report.Bowlers {
					logger.Info("Bowler",
						"name", b.Name, "games", b.GamesPlayed,
						"ppg", b.PinsPerGame, "spg", b.StrikesPG,
						"sparespg", b.SparesPG, "gpg", b.GuttersPG)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "season", 0, "Season ID")
	return cmd
}

// --------------------------------------------------------------------------
// season command
// --------------------------------------------------------------------------

func seasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Season management",
	}
	cmd.AddCommand(seasonActivateCmd())
	return cmd
}

func seasonActivateCmd() *cobra.Command {
	var seasonID int64
	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Activate a season (deactivates all others)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seasonID == 0 {
				return fmt.Errorf("--id is required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := store.ActivateSeason(ctx, pool.Pool, seasonID); err != nil {
					return err
				}
				logger.Info("Season activated", "season", seasonID)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "id", 0, "Season ID to activate")
	return cmd
}

// --------------------------------------------------------------------------
// scorecard command
// --------------------------------------------------------------------------

func scorecardCmd() *cobra.Command {
	var (
		matchID    int64
		gameNumber int
		file       string
	)
	cmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Draft a score submission from a scorecard photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchID == 0 || file == "" {
				return fmt.Errorf("--match and --file are required")
			}
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				reader := external.NewScorecardReader(cfg.ScorecardReaderURL, cfg.ScorecardAPIKey)
				if !reader.Configured() {
					return fmt.Errorf("SCORECARD_READER_URL is required")
				}
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open scorecard: %w", err)
				}
				defer f.Close()

				proposal, err := reader.Read(ctx, gameNumber, f, file)
				if err != nil {
					return err
				}
				logger.Info("Proposal received",
					"match", matchID,
					"game", gameNumber,
					"bowlers", len(proposal.Submission.Bowlers),
					"confidence", proposal.Confidence)
				for _, warn := range proposal.Warnings {
					logger.Warn("Proposal warning", "warning", warn)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&matchID, "match", 0, "Match ID")
	cmd.Flags().IntVar(&gameNumber, "game", 1, "Game number 1..3")
	cmd.Flags().StringVar(&file, "file", "", "Scorecard image file")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
