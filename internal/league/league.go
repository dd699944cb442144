// Package league defines the core bowling league domain model shared by the
// scoring, settlement, schedule, and stats engines, plus the validation
// rules applied to every score submission before it reaches them.
package league

// --------------------------------------------------------------------------
// Entities
// --------------------------------------------------------------------------

// Bowler is a league participant. Bowlers may appear on several rosters or
// none at all (substitutes pulled in for a single match).
type Bowler struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Team is a named roster of bowlers.
type Team struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Roster []Bowler `json:"roster"`
}

// Season groups teams and their scheduled matches. At most one season is
// expected to be active at a time; the store enforces that on activation.
type Season struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	IsActive bool    `json:"isActive"`
	Teams    []Team  `json:"teams"`
	Matches  []Match `json:"matches"`
}

// Match is one scheduled meeting of two teams in a given week. Aggregate
// point fields are nil until the first game is settled; WinnerTeamID stays
// nil while the match is undecided or tied.
type Match struct {
	ID            int64          `json:"id"`
	SeasonID      int64          `json:"seasonId"`
	Week          int            `json:"week"`
	HomeTeam      Team           `json:"homeTeam"`
	AwayTeam      Team           `json:"awayTeam"`
	Substitutions []Substitution `json:"substitutions"`
	Games         []Game         `json:"games"`
	HomePoints    *int           `json:"homeTeamPoints"`
	AwayPoints    *int           `json:"awayTeamPoints"`
	WinnerTeamID  *int64         `json:"winningTeamId"`
}

// Substitution maps a rostered bowler to a stand-in for a single match.
// The substitute's frames count toward the original bowler's team.
type Substitution struct {
	ID                 int64 `json:"id"`
	MatchID            int64 `json:"matchId"`
	TeamID             int64 `json:"teamId"`
	OriginalBowlerID   int64 `json:"originalBowlerId"`
	SubstituteBowlerID int64 `json:"substituteBowlerId"`
}

// Game is one of up to three games in a match. The computed fields are nil
// until settlement runs; a Game row may exist with no frames at all (it is
// created lazily on first submission for its number).
type Game struct {
	ID          int64   `json:"id"`
	MatchID     int64   `json:"matchId"`
	Number      int     `json:"gameNumber"`
	HomeScore   *int    `json:"homeTeamScore"`
	AwayScore   *int    `json:"awayTeamScore"`
	HomeStrikes *int    `json:"homeTeamStrikes"`
	AwayStrikes *int    `json:"awayTeamStrikes"`
	HomePoints  *int    `json:"homeTeamPoints"`
	AwayPoints  *int    `json:"awayTeamPoints"`
	Frames      []Frame `json:"frames"`
}

// Frame records one bowler's turn in one game: up to two balls, or three in
// the tenth frame. Ball1 is always present; Ball2/Ball3 are nil when not
// (yet) bowled. Exactly one frame exists per (game, bowler, frameNumber);
// resubmission overwrites in place.
type Frame struct {
	ID         int64 `json:"id"`
	GameID     int64 `json:"gameId"`
	BowlerID   int64 `json:"bowlerId"`
	Number     int   `json:"frameNumber"`
	Ball1      int   `json:"ball1Score"`
	Ball2      *int  `json:"ball2Score"`
	Ball3      *int  `json:"ball3Score"`
	Ball1Split bool  `json:"isBall1Split"`
}

// IsStrike reports whether all ten pins fell on the first ball.
func (f Frame) IsStrike() bool { return f.Ball1 == 10 }

// IsSpare reports whether the first two balls together took all ten pins
// (but not the first alone).
func (f Frame) IsSpare() bool {
	return f.Ball1 < 10 && f.Ball2 != nil && f.Ball1+*f.Ball2 == 10
}

// GamesPerMatch is the fixed number of games bowled per league match.
const GamesPerMatch = 3

// FramesPerGame is the fixed number of frames per game.
const FramesPerGame = 10

// RosterIDs returns the set of bowler IDs on the team's roster.
func (t Team) RosterIDs() map[int64]bool {
	ids := make(map[int64]bool, len(t.Roster))
	for _, b := range t.Roster {
		ids[b.ID] = true
	}
	return ids
}

// GameByNumber returns the match's game with the given number, or nil.
func (m *Match) GameByNumber(n int) *Game {
	for i := range m.Games {
		if m.Games[i].Number == n {
			return &m.Games[i]
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Score submission — the one shape every score source produces, whether a
// league admin typed it in or the scorecard reader proposed it.
// --------------------------------------------------------------------------

// ScoreSubmission is one game's worth of frame data for a match.
type ScoreSubmission struct {
	GameNumber int           `json:"gameNumber"`
	Bowlers    []BowlerScore `json:"bowlers"`
}

// BowlerScore is one bowler's frames within a submission.
type BowlerScore struct {
	BowlerID int64        `json:"bowlerId"`
	Frames   []FrameScore `json:"frames"`
}

// FrameScore is the wire form of a single frame.
type FrameScore struct {
	Number     int  `json:"frameNumber"`
	Ball1      int  `json:"ball1Score"`
	Ball2      *int `json:"ball2Score"`
	Ball3      *int `json:"ball3Score"`
	Ball1Split bool `json:"isBall1Split"`
}
