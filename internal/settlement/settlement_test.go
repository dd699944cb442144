package settlement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strikebook/strikebook/internal/league"
)

func ip(n int) *int { return &n }

// testMatch builds a two-team match: Pin Pals (home, bowlers 101/102) vs
// Gutter Gang (away, bowlers 201/202).
func testMatch() *league.Match {
	return &league.Match{
		ID:       1,
		SeasonID: 1,
		Week:     1,
		HomeTeam: league.Team{ID: 1, Name: "Pin Pals", Roster: []league.Bowler{
			{ID: 101, Name: "Ann"}, {ID: 102, Name: "Bob"},
		}},
		AwayTeam: league.Team{ID: 2, Name: "Gutter Gang", Roster: []league.Bowler{
			{ID: 201, Name: "Cleo"}, {ID: 202, Name: "Drew"},
		}},
	}
}

func openFrame(number, b1, b2 int) league.FrameScore {
	return league.FrameScore{Number: number, Ball1: b1, Ball2: ip(b2)}
}

func strikeFrame(number int) league.FrameScore {
	return league.FrameScore{Number: number, Ball1: 10}
}

func TestBuildMembership_ExtendsWithSubstitutes(t *testing.T) {
	m := testMatch()
	m.Substitutions = []league.Substitution{
		{MatchID: 1, TeamID: 1, OriginalBowlerID: 101, SubstituteBowlerID: 301},
		{MatchID: 1, TeamID: 2, OriginalBowlerID: 202, SubstituteBowlerID: 302},
	}

	mem := BuildMembership(m)
	require.Equal(t, "home", mem.Side(101))
	require.Equal(t, "home", mem.Side(301), "home substitute joins the home side")
	require.Equal(t, "away", mem.Side(302), "away substitute joins the away side")
	require.Equal(t, "", mem.Side(999), "stranger belongs to neither side")
}

func TestSettleGame_PointAward(t *testing.T) {
	tests := []struct {
		name       string
		sub        league.ScoreSubmission
		homePoints int
		awayPoints int
	}{
		{
			// Home: two strikes, running 30 pins. Away: one strike, 10.
			name: "winner takes ten plus strikes, loser keeps strikes",
			sub: league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
				{BowlerID: 101, Frames: []league.FrameScore{strikeFrame(1), strikeFrame(2)}},
				{BowlerID: 201, Frames: []league.FrameScore{strikeFrame(1)}},
			}},
			homePoints: 12,
			awayPoints: 1,
		},
		{
			name: "exact tie with no strikes splits the bonus",
			sub: league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
				{BowlerID: 101, Frames: []league.FrameScore{openFrame(1, 4, 4)}},
				{BowlerID: 201, Frames: []league.FrameScore{openFrame(1, 5, 3)}},
			}},
			homePoints: 5,
			awayPoints: 5,
		},
		{
			name: "strikes pay even in a loss",
			sub: league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
				{BowlerID: 101, Frames: []league.FrameScore{strikeFrame(1)}},
				{BowlerID: 201, Frames: []league.FrameScore{
					openFrame(1, 9, 0), openFrame(2, 9, 0), openFrame(3, 9, 0),
				}},
			}},
			homePoints: 1,  // 10 pins vs 27, one strike
			awayPoints: 10, // no strikes
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SettleGame(testMatch(), tt.sub)
			require.Equal(t, tt.homePoints, out.HomePoints, "home points")
			require.Equal(t, tt.awayPoints, out.AwayPoints, "away points")
			require.Empty(t, out.Unattributed)
		})
	}
}

func TestSettleGame_SubstituteCountsForOriginalTeam(t *testing.T) {
	m := testMatch()
	m.Substitutions = []league.Substitution{
		{MatchID: 1, TeamID: 1, OriginalBowlerID: 101, SubstituteBowlerID: 301},
	}

	out := SettleGame(m, league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
		{BowlerID: 301, Frames: []league.FrameScore{strikeFrame(1)}},
		{BowlerID: 201, Frames: []league.FrameScore{openFrame(1, 3, 3)}},
	}})

	require.Equal(t, 10, out.HomeScore, "substitute pins land on the home side")
	require.Equal(t, 1, out.HomeStrikes)
	require.Equal(t, 6, out.AwayScore)
	require.Empty(t, out.Unattributed)
}

func TestSettleGame_UnattributedBowlerIsDropped(t *testing.T) {
	out := SettleGame(testMatch(), league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
		{BowlerID: 101, Frames: []league.FrameScore{openFrame(1, 5, 2)}},
		{BowlerID: 999, Frames: []league.FrameScore{strikeFrame(1)}},
	}})

	require.Equal(t, 7, out.HomeScore)
	require.Equal(t, 0, out.AwayScore, "stranger's pins count for neither side")
	require.Equal(t, []int64{999}, out.Unattributed)
}

func TestSettleGame_ResubmissionIsIdempotent(t *testing.T) {
	m := testMatch()
	sub := league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
		{BowlerID: 101, Frames: []league.FrameScore{strikeFrame(1), openFrame(2, 4, 4)}},
		{BowlerID: 201, Frames: []league.FrameScore{openFrame(1, 9, 0), openFrame(2, 8, 1)}},
	}}

	ApplyGame(m, SettleGame(m, sub))
	first := AggregateMatch(m)

	ApplyGame(m, SettleGame(m, sub))
	second := AggregateMatch(m)

	require.Equal(t, first.HomePoints, second.HomePoints)
	require.Equal(t, first.AwayPoints, second.AwayPoints)
	require.Equal(t, first.WinnerTeamID, second.WinnerTeamID)
}

func TestSettleGame_PartialResubmissionKeepsOtherFrames(t *testing.T) {
	m := testMatch()
	ApplyGame(m, SettleGame(m, league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
		{BowlerID: 101, Frames: []league.FrameScore{openFrame(1, 4, 4), openFrame(2, 5, 4)}},
	}}))

	// Correct only frame 2; frame 1 must survive.
	out := SettleGame(m, league.ScoreSubmission{GameNumber: 1, Bowlers: []league.BowlerScore{
		{BowlerID: 101, Frames: []league.FrameScore{openFrame(2, 9, 1)}},
	}})

	require.Equal(t, 8+10, out.HomeScore)
	require.Len(t, out.Frames[101], 2)
}

func TestAggregateMatch(t *testing.T) {
	tests := []struct {
		name       string
		games      []league.Game
		homePoints int
		awayPoints int
		winner     *int64
	}{
		{
			name: "sums across games, unset points count zero",
			games: []league.Game{
				{Number: 1, HomePoints: ip(12), AwayPoints: ip(1)},
				{Number: 2},
				{Number: 3, HomePoints: ip(3), AwayPoints: ip(11)},
			},
			homePoints: 15,
			awayPoints: 12,
			winner:     func() *int64 { id := int64(1); return &id }(),
		},
		{
			name: "tied points leave the match undecided",
			games: []league.Game{
				{Number: 1, HomePoints: ip(10), AwayPoints: ip(2)},
				{Number: 2, HomePoints: ip(2), AwayPoints: ip(10)},
			},
			homePoints: 12,
			awayPoints: 12,
			winner:     nil,
		},
		{
			name:   "no games at all",
			winner: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMatch()
			m.Games = tt.games
			out := AggregateMatch(m)
			require.Equal(t, tt.homePoints, out.HomePoints)
			require.Equal(t, tt.awayPoints, out.AwayPoints)
			require.Equal(t, tt.winner, out.WinnerTeamID)
		})
	}
}

func TestCheckSubstitution(t *testing.T) {
	tests := []struct {
		name    string
		sub     league.Substitution
		wantErr bool
	}{
		{
			name: "valid home substitution",
			sub:  league.Substitution{TeamID: 1, OriginalBowlerID: 101, SubstituteBowlerID: 301},
		},
		{
			name:    "team not in the match",
			sub:     league.Substitution{TeamID: 9, OriginalBowlerID: 101, SubstituteBowlerID: 301},
			wantErr: true,
		},
		{
			name:    "original bowler not on the stated roster",
			sub:     league.Substitution{TeamID: 1, OriginalBowlerID: 201, SubstituteBowlerID: 301},
			wantErr: true,
		},
		{
			name:    "substitute already rostered on the other side",
			sub:     league.Substitution{TeamID: 1, OriginalBowlerID: 101, SubstituteBowlerID: 202},
			wantErr: true,
		},
		{
			name:    "substitute already rostered on the same side",
			sub:     league.Substitution{TeamID: 1, OriginalBowlerID: 101, SubstituteBowlerID: 102},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSubstitution(testMatch(), tt.sub)
			if tt.wantErr {
				require.ErrorIs(t, err, league.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
		})
	}
}
