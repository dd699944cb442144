// Package stats computes season-long bowler and team statistics by
// replaying every persisted frame. Aggregation is two-pass: the first pass
// flattens the season graph into keyed lookups (bowler→side per match,
// frames per game per bowler, display names); the second folds over frames
// once per row. Team attribution reuses the same substitution-extended
// membership the settlement path builds, so a substitute's pins land on
// the team they bowled for.
package stats

import (
	"context"
	"math"

	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/scoring"
	"github.com/strikebook/strikebook/internal/settlement"
)

// Directory resolves display names for bowlers who are on no roster in the
// season — substitutes pulled in from outside the league. Implemented by
// the store and faked in tests.
type Directory interface {
	BowlerName(ctx context.Context, id int64) (string, error)
}

// BowlerRow is one bowler's season line: games played and per-game
// averages, rounded to two decimals.
type BowlerRow struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	GamesPlayed int     `json:"gamesPlayed"`
	PinsPerGame float64 `json:"ppg"`
	StrikesPG   float64 `json:"spg"`
	SparesPG    float64 `json:"sparespg"`
	GuttersPG   float64 `json:"gpg"`
}

// TeamRow is one team's season line.
type TeamRow struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	MatchWins   int     `json:"matchWins"`
	MatchLosses int     `json:"matchLosses"`
	MatchTies   int     `json:"matchTies"`
	GameWins    int     `json:"gameWins"`
	GameLosses  int     `json:"gameLosses"`
	GameTies    int     `json:"gameTies"`
	GamesPlayed int     `json:"gamesPlayed"`
	PinsPerGame float64 `json:"ppg"`
	PinsAgainst float64 `json:"oppg"`
	StrikesPG   float64 `json:"spg"`
	SparesPG    float64 `json:"sparespg"`
	GuttersPG   float64 `json:"gpg"`
}

// Report is the full statistics payload, rows in insertion order.
type Report struct {
	Bowlers []BowlerRow `json:"bowlers"`
	Teams   []TeamRow   `json:"teams"`
}

// bowlerAcc accumulates raw totals for one bowler before averaging.
type bowlerAcc struct {
	id      int64
	name    string
	games   int
	pins    int
	strikes int
	spares  int
	gutters int
}

// teamAcc accumulates raw totals for one team.
type teamAcc struct {
	team        league.Team
	matchW      int
	matchL      int
	matchT      int
	gameW       int
	gameL       int
	gameT       int
	games       int
	pins        int
	pinsAgainst int
	strikes     int
	spares      int
	gutters     int
}

// Aggregate walks every match, game, and frame in the season and produces
// the bowler and team rows. It reads current substitutions — deleting a
// substitution changes later aggregation runs, not history.
func Aggregate(ctx context.Context, season *league.Season, dir Directory) (*Report, error) {
	// Pass 1: flat lookups.
	names := rosterNames(season)

	var bowlerOrder []int64
	bowlers := make(map[int64]*bowlerAcc)

	var teamOrder []int64
	teams := make(map[int64]*teamAcc)
	for i := range season.Teams {
		t := season.Teams[i]
		teams[t.ID] = &teamAcc{team: t}
		teamOrder = append(teamOrder, t.ID)
	}

	// Pass 2: fold.
	for mi := range season.Matches {
		m := &season.Matches[mi]
		mem := settlement.BuildMembership(m)
		home := teams[m.HomeTeam.ID]
		away := teams[m.AwayTeam.ID]

		tallyMatchRecord(m, home, away)

		for gi := range m.Games {
			g := &m.Games[gi]
			tallyGameRecord(g, home, away)

			byBowler := make(map[int64][]league.Frame)
			var gameBowlers []int64
			for _, f := range g.Frames {
				if _, seen := byBowler[f.BowlerID]; !seen {
					gameBowlers = append(gameBowlers, f.BowlerID)
				}
				byBowler[f.BowlerID] = append(byBowler[f.BowlerID], f)
			}
			if len(gameBowlers) > 0 && home != nil {
				home.games++
			}
			if len(gameBowlers) > 0 && away != nil {
				away.games++
			}

			for _, id := range gameBowlers {
				res, _ := scoring.Score(byBowler[id], scoring.ModeRunning)

				acc, ok := bowlers[id]
				if !ok {
					acc = &bowlerAcc{id: id, name: resolveName(ctx, id, names, dir)}
					bowlers[id] = acc
					bowlerOrder = append(bowlerOrder, id)
				}
				acc.games++
				acc.pins += res.Pins
				acc.strikes += res.Strikes
				acc.spares += res.Spares
				acc.gutters += res.Gutters

				// Team attribution: pins score for the bowler's side and
				// count against the opponent. Unattributed bowlers count
				// for neither side.
				switch mem.Side(id) {
				case "home":
					creditTeam(home, res)
					debitTeam(away, res)
				case "away":
					creditTeam(away, res)
					debitTeam(home, res)
				}
			}
		}
	}

	report := &Report{Bowlers: []BowlerRow{}, Teams: []TeamRow{}}
	for _, id := range bowlerOrder {
		report.Bowlers = append(report.Bowlers, bowlers[id].row())
	}
	for _, id := range teamOrder {
		report.Teams = append(report.Teams, teams[id].row())
	}
	return report, nil
}

// tallyMatchRecord counts a match as won, lost, or tied. A tie requires
// every game to carry a recorded home score; a match with unscored games
// is simply still in progress.
func tallyMatchRecord(m *league.Match, home, away *teamAcc) {
	if m.WinnerTeamID != nil {
		if *m.WinnerTeamID == m.HomeTeam.ID {
			bump(home, func(t *teamAcc) { t.matchW++ })
			bump(away, func(t *teamAcc) { t.matchL++ })
		} else {
			bump(away, func(t *teamAcc) { t.matchW++ })
			bump(home, func(t *teamAcc) { t.matchL++ })
		}
		return
	}
	if len(m.Games) == 0 {
		return
	}
	for _, g := range m.Games {
		if g.HomeScore == nil {
			return
		}
	}
	bump(home, func(t *teamAcc) { t.matchT++ })
	bump(away, func(t *teamAcc) { t.matchT++ })
}

// tallyGameRecord compares recorded game scores; games not yet settled are
// left untallied.
func tallyGameRecord(g *league.Game, home, away *teamAcc) {
	if g.HomeScore == nil || g.AwayScore == nil {
		return
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		bump(home, func(t *teamAcc) { t.gameW++ })
		bump(away, func(t *teamAcc) { t.gameL++ })
	case *g.AwayScore > *g.HomeScore:
		bump(away, func(t *teamAcc) { t.gameW++ })
		bump(home, func(t *teamAcc) { t.gameL++ })
	default:
		bump(home, func(t *teamAcc) { t.gameT++ })
		bump(away, func(t *teamAcc) { t.gameT++ })
	}
}

func creditTeam(t *teamAcc, res scoring.Result) {
	if t == nil {
		return
	}
	t.pins += res.Pins
	t.strikes += res.Strikes
	t.spares += res.Spares
	t.gutters += res.Gutters
}

func debitTeam(t *teamAcc, res scoring.Result) {
	if t == nil {
		return
	}
	t.pinsAgainst += res.Pins
}

func bump(t *teamAcc, fn func(*teamAcc)) {
	if t != nil {
		fn(t)
	}
}

// rosterNames flattens every roster in the season into one id→name map.
func rosterNames(season *league.Season) map[int64]string {
	names := make(map[int64]string)
	for _, t := range season.Teams {
		for _, b := range t.Roster {
			names[b.ID] = b.Name
		}
	}
	for _, m := range season.Matches {
		for _, t := range []league.Team{m.HomeTeam, m.AwayTeam} {
			for _, b := range t.Roster {
				names[b.ID] = b.Name
			}
		}
	}
	return names
}

// resolveName falls back from roster lookup to the external directory for
// substitutes the season's rosters know nothing about.
func resolveName(ctx context.Context, id int64, names map[int64]string, dir Directory) string {
	if name, ok := names[id]; ok {
		return name
	}
	if dir != nil {
		if name, err := dir.BowlerName(ctx, id); err == nil && name != "" {
			return name
		}
	}
	return "Unknown"
}

func (a *bowlerAcc) row() BowlerRow {
	return BowlerRow{
		ID:          a.id,
		Name:        a.name,
		GamesPlayed: a.games,
		PinsPerGame: perGame(a.pins, a.games),
		StrikesPG:   perGame(a.strikes, a.games),
		SparesPG:    perGame(a.spares, a.games),
		GuttersPG:   perGame(a.gutters, a.games),
	}
}

func (a *teamAcc) row() TeamRow {
	return TeamRow{
		ID:          a.team.ID,
		Name:        a.team.Name,
		MatchWins:   a.matchW,
		MatchLosses: a.matchL,
		MatchTies:   a.matchT,
		GameWins:    a.gameW,
		GameLosses:  a.gameL,
		GameTies:    a.gameT,
		GamesPlayed: a.games,
		PinsPerGame: perGame(a.pins, a.games),
		PinsAgainst: perGame(a.pinsAgainst, a.games),
		StrikesPG:   perGame(a.strikes, a.games),
		SparesPG:    perGame(a.spares, a.games),
		GuttersPG:   perGame(a.gutters, a.games),
	}
}

// perGame divides a raw total by games played, rounded to two decimals.
// Zero games divides by one so an empty line reads 0.00 instead of failing.
func perGame(total, games int) float64 {
	if games == 0 {
		games = 1
	}
	return math.Round(float64(total)/float64(games)*100) / 100
}
