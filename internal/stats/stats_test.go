package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strikebook/strikebook/internal/league"
)

func ip(n int) *int { return &n }

func i64p(n int64) *int64 { return &n }

type fakeDirectory map[int64]string

func (d fakeDirectory) BowlerName(_ context.Context, id int64) (string, error) {
	if name, ok := d[id]; ok {
		return name, nil
	}
	return "", league.NotFoundf("bowler %d", id)
}

// openFrame is a two-ball frame for a bowler.
func openFrame(bowlerID int64, number, b1, b2 int) league.Frame {
	return league.Frame{BowlerID: bowlerID, Number: number, Ball1: b1, Ball2: ip(b2)}
}

func strikeFrame(bowlerID int64, number int) league.Frame {
	return league.Frame{BowlerID: bowlerID, Number: number, Ball1: 10}
}

// testSeason: Pin Pals (team 1, bowler 101 Ann) vs Gutter Gang (team 2,
// bowler 201 Cleo), one match, one settled game. Ann bowls 8 pins, Cleo 6.
func testSeason() *league.Season {
	return &league.Season{
		ID:   1,
		Name: "Autumn",
		Teams: []league.Team{
			{ID: 1, Name: "Pin Pals", Roster: []league.Bowler{{ID: 101, Name: "Ann"}}},
			{ID: 2, Name: "Gutter Gang", Roster: []league.Bowler{{ID: 201, Name: "Cleo"}}},
		},
		Matches: []league.Match{
			{
				ID: 1, SeasonID: 1, Week: 1,
				HomeTeam:     league.Team{ID: 1, Name: "Pin Pals", Roster: []league.Bowler{{ID: 101, Name: "Ann"}}},
				AwayTeam:     league.Team{ID: 2, Name: "Gutter Gang", Roster: []league.Bowler{{ID: 201, Name: "Cleo"}}},
				WinnerTeamID: i64p(1),
				Games: []league.Game{
					{
						ID: 1, MatchID: 1, Number: 1,
						HomeScore: ip(8), AwayScore: ip(6),
						Frames: []league.Frame{
							openFrame(101, 1, 4, 4),
							openFrame(201, 1, 3, 3),
						},
					},
				},
			},
		},
	}
}

func findBowler(t *testing.T, report *Report, id int64) BowlerRow {
	t.Helper()
	for _, b := range report.Bowlers {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("bowler %d not in report", id)
	return BowlerRow{}
}

func findTeam(t *testing.T, report *Report, id int64) TeamRow {
	t.Helper()
	for _, tr := range report.Teams {
		if tr.ID == id {
			return tr
		}
	}
	t.Fatalf("team %d not in report", id)
	return TeamRow{}
}

func TestAggregate_BowlerAveragesAndRounding(t *testing.T) {
	season := testSeason()
	// Second game: Ann bowls two frames, a strike and a spare-less open.
	season.Matches[0].Games = append(season.Matches[0].Games, league.Game{
		ID: 2, MatchID: 1, Number: 2,
		HomeScore: ip(17), AwayScore: ip(0),
		Frames: []league.Frame{
			strikeFrame(101, 1),
			openFrame(101, 2, 4, 3),
		},
	})

	report, err := Aggregate(context.Background(), season, nil)
	require.NoError(t, err)

	ann := findBowler(t, report, 101)
	require.Equal(t, "Ann", ann.Name)
	require.Equal(t, 2, ann.GamesPlayed)
	// Game 1: 8 pins. Game 2: strike 10+7 bonus + open 7 = 24. Avg 16.
	require.InDelta(t, 16.0, ann.PinsPerGame, 1e-9)
	require.InDelta(t, 0.5, ann.StrikesPG, 1e-9)

	cleo := findBowler(t, report, 201)
	require.Equal(t, 1, cleo.GamesPlayed, "no frames in game 2")
	require.InDelta(t, 6.0, cleo.PinsPerGame, 1e-9)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	season := testSeason()
	// Three games with 1, 1, and 0 strikes: 2/3 rounds to 0.67.
	season.Matches[0].Games = []league.Game{
		{ID: 1, Number: 1, HomeScore: ip(10), AwayScore: ip(0), Frames: []league.Frame{strikeFrame(101, 1)}},
		{ID: 2, Number: 2, HomeScore: ip(10), AwayScore: ip(0), Frames: []league.Frame{strikeFrame(101, 1)}},
		{ID: 3, Number: 3, HomeScore: ip(8), AwayScore: ip(0), Frames: []league.Frame{openFrame(101, 1, 4, 4)}},
	}

	report, err := Aggregate(context.Background(), season, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.67, findBowler(t, report, 101).StrikesPG, 1e-9)
}

func TestAggregate_TeamAttributionAndOpponentPins(t *testing.T) {
	report, err := Aggregate(context.Background(), testSeason(), nil)
	require.NoError(t, err)

	pals := findTeam(t, report, 1)
	require.Equal(t, 1, pals.GamesPlayed)
	require.InDelta(t, 8.0, pals.PinsPerGame, 1e-9)
	require.InDelta(t, 6.0, pals.PinsAgainst, 1e-9, "opponent pins count against")
	require.Equal(t, 1, pals.MatchWins)
	require.Equal(t, 1, pals.GameWins)

	gang := findTeam(t, report, 2)
	require.InDelta(t, 6.0, gang.PinsPerGame, 1e-9)
	require.InDelta(t, 8.0, gang.PinsAgainst, 1e-9)
	require.Equal(t, 1, gang.MatchLosses)
	require.Equal(t, 1, gang.GameLosses)
}

func TestAggregate_SubstituteFlowsToOriginalTeam(t *testing.T) {
	season := testSeason()
	m := &season.Matches[0]
	m.Substitutions = []league.Substitution{
		{MatchID: 1, TeamID: 1, OriginalBowlerID: 101, SubstituteBowlerID: 301},
	}
	m.Games[0].Frames = append(m.Games[0].Frames, strikeFrame(301, 1))

	dir := fakeDirectory{301: "Zed"}
	report, err := Aggregate(context.Background(), season, dir)
	require.NoError(t, err)

	pals := findTeam(t, report, 1)
	require.InDelta(t, 18.0, pals.PinsPerGame, 1e-9, "substitute pins land on Pin Pals")
	gang := findTeam(t, report, 2)
	require.InDelta(t, 18.0, gang.PinsAgainst, 1e-9)

	zed := findBowler(t, report, 301)
	require.Equal(t, "Zed", zed.Name, "name resolved through the directory")
	require.Equal(t, 1, zed.GamesPlayed)

	// Remove the substitution and re-run: the stand-in's pins no longer
	// count for either team, but the bowler row survives.
	m.Substitutions = nil
	report, err = Aggregate(context.Background(), season, nil)
	require.NoError(t, err)
	require.InDelta(t, 8.0, findTeam(t, report, 1).PinsPerGame, 1e-9)
	require.Equal(t, "Unknown", findBowler(t, report, 301).Name, "no directory, no roster")
}

func TestAggregate_MatchTieRequiresFullyScoredGames(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*league.Match)
		wantTies int
	}{
		{
			name: "no winner and every game scored is a tie",
			mutate: func(m *league.Match) {
				m.WinnerTeamID = nil
			},
			wantTies: 1,
		},
		{
			name: "no winner with an unscored game is still in progress",
			mutate: func(m *league.Match) {
				m.WinnerTeamID = nil
				m.Games = append(m.Games, league.Game{ID: 9, Number: 2})
			},
			wantTies: 0,
		},
		{
			name: "no games at all is not a tie",
			mutate: func(m *league.Match) {
				m.WinnerTeamID = nil
				m.Games = nil
			},
			wantTies: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			season := testSeason()
			tt.mutate(&season.Matches[0])
			report, err := Aggregate(context.Background(), season, nil)
			require.NoError(t, err)
			require.Equal(t, tt.wantTies, findTeam(t, report, 1).MatchTies)
			require.Equal(t, tt.wantTies, findTeam(t, report, 2).MatchTies)
		})
	}
}

func TestAggregate_GameTiesAndUnscoredGames(t *testing.T) {
	season := testSeason()
	season.Matches[0].Games = []league.Game{
		{ID: 1, Number: 1, HomeScore: ip(7), AwayScore: ip(7), Frames: []league.Frame{
			openFrame(101, 1, 3, 4), openFrame(201, 1, 3, 4),
		}},
		{ID: 2, Number: 2}, // no scores yet, untallied
	}
	season.Matches[0].WinnerTeamID = nil

	report, err := Aggregate(context.Background(), season, nil)
	require.NoError(t, err)

	pals := findTeam(t, report, 1)
	require.Equal(t, 1, pals.GameTies)
	require.Equal(t, 0, pals.GameWins)
	require.Equal(t, 0, pals.GameLosses)
}

func TestAggregate_EmptySeason(t *testing.T) {
	season := &league.Season{ID: 1, Name: "Empty", Teams: []league.Team{
		{ID: 1, Name: "Pin Pals"},
	}}

	report, err := Aggregate(context.Background(), season, nil)
	require.NoError(t, err)
	require.Empty(t, report.Bowlers)
	require.Len(t, report.Teams, 1)

	pals := findTeam(t, report, 1)
	require.Equal(t, 0, pals.GamesPlayed)
	require.InDelta(t, 0.0, pals.PinsPerGame, 1e-9, "zero games reads 0.00, not an error")
}
