// Package settlement turns one game's submitted frames into team scores,
// per-game points, and match-level aggregates. Everything here is pure
// computation over in-memory league types; the store applies the outcome
// atomically alongside the frame upserts.
package settlement

import (
	"sort"

	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/scoring"
)

// Points awarded per game: the higher-scoring team takes the win bonus plus
// its strike count, the loser keeps just its strikes, and a dead tie splits
// the bonus. Strikes pay even in a loss.
const (
	winPoints = 10
	tiePoints = 5
)

// Membership is the substitution-extended bowler→side mapping for one
// match. Built fresh at computation time from whatever substitutions exist
// (see the temporal caveat on CheckSubstitution).
type Membership struct {
	Home map[int64]bool
	Away map[int64]bool
}

// Side reports which team a bowler counts for: "home", "away", or "" when
// the bowler belongs to neither (the unattributed gap).
func (m Membership) Side(bowlerID int64) string {
	switch {
	case m.Home[bowlerID]:
		return "home"
	case m.Away[bowlerID]:
		return "away"
	default:
		return ""
	}
}

// BuildMembership collects each side's roster, then extends it with each
// substitution's stand-in on whichever side already holds the original
// bowler. That is the whole mechanism by which a non-roster substitute's
// score counts for the right team.
func BuildMembership(m *league.Match) Membership {
	mem := Membership{
		Home: m.HomeTeam.RosterIDs(),
		Away: m.AwayTeam.RosterIDs(),
	}
	for _, sub := range m.Substitutions {
		switch {
		case mem.Home[sub.OriginalBowlerID]:
			mem.Home[sub.SubstituteBowlerID] = true
		case mem.Away[sub.OriginalBowlerID]:
			mem.Away[sub.SubstituteBowlerID] = true
		}
	}
	return mem
}

// GameOutcome is the computed state of one game after a submission.
type GameOutcome struct {
	Number      int
	HomeScore   int
	AwayScore   int
	HomeStrikes int
	AwayStrikes int
	HomePoints  int
	AwayPoints  int

	// Frames is the merged per-bowler frame state the outcome was computed
	// from: existing frames with the submission's frames overwritten in
	// place, keyed by bowler.
	Frames map[int64][]league.Frame

	// Unattributed lists submitted bowlers found on neither side. Their
	// pins are silently dropped from the team totals — an integrity gap
	// the caller may want to reject on.
	Unattributed []int64
}

// MatchOutcome is the recomputed match-level aggregate.
type MatchOutcome struct {
	HomePoints   int
	AwayPoints   int
	WinnerTeamID *int64
}

// SettleGame computes a game's team scores, strikes, and points from the
// match state plus one submission. Only the frames named in the submission
// overwrite existing data; every other persisted frame still counts, so
// resubmission is idempotent.
func SettleGame(m *league.Match, sub league.ScoreSubmission) GameOutcome {
	mem := BuildMembership(m)

	frames := make(map[int64][]league.Frame)
	if g := m.GameByNumber(sub.GameNumber); g != nil {
		for _, f := range g.Frames {
			frames[f.BowlerID] = append(frames[f.BowlerID], f)
		}
	}
	for _, bs := range sub.Bowlers {
		frames[bs.BowlerID] = mergeFrames(frames[bs.BowlerID], bs)
	}

	out := GameOutcome{Number: sub.GameNumber, Frames: frames}

	for _, bowlerID := range sortedKeys(frames) {
		// ModeRunning: games are settled as data arrives; a partial
		// frame set yields a best-effort total. ModeRunning never errors.
		res, _ := scoring.Score(frames[bowlerID], scoring.ModeRunning)

		switch mem.Side(bowlerID) {
		case "home":
			out.HomeScore += res.Pins
			out.HomeStrikes += res.Strikes
		case "away":
			out.AwayScore += res.Pins
			out.AwayStrikes += res.Strikes
		default:
			out.Unattributed = append(out.Unattributed, bowlerID)
		}
	}

	out.HomePoints, out.AwayPoints = awardPoints(out.HomeScore, out.AwayScore, out.HomeStrikes, out.AwayStrikes)
	return out
}

// awardPoints applies the per-game point rule.
func awardPoints(homeScore, awayScore, homeStrikes, awayStrikes int) (home, away int) {
	switch {
	case homeScore > awayScore:
		return winPoints + homeStrikes, awayStrikes
	case awayScore > homeScore:
		return homeStrikes, winPoints + awayStrikes
	default:
		return tiePoints + homeStrikes, tiePoints + awayStrikes
	}
}

// AggregateMatch recomputes the match totals from every game's point
// fields, never incrementally. Unset points count 0, so games settled out
// of order or resubmitted always produce a consistent aggregate, and the
// computation is safe to retry after a crash mid-write.
func AggregateMatch(m *league.Match) MatchOutcome {
	var out MatchOutcome
	for _, g := range m.Games {
		out.HomePoints += intOrZero(g.HomePoints)
		out.AwayPoints += intOrZero(g.AwayPoints)
	}
	switch {
	case out.HomePoints > out.AwayPoints:
		id := m.HomeTeam.ID
		out.WinnerTeamID = &id
	case out.AwayPoints > out.HomePoints:
		id := m.AwayTeam.ID
		out.WinnerTeamID = &id
	}
	return out
}

// ApplyGame folds a settled outcome back into the in-memory match so that
// AggregateMatch sees it; the store mirrors the same write in SQL.
func ApplyGame(m *league.Match, out GameOutcome) {
	g := m.GameByNumber(out.Number)
	if g == nil {
		m.Games = append(m.Games, league.Game{MatchID: m.ID, Number: out.Number})
		g = &m.Games[len(m.Games)-1]
	}
	g.HomeScore = intPtr(out.HomeScore)
	g.AwayScore = intPtr(out.AwayScore)
	g.HomeStrikes = intPtr(out.HomeStrikes)
	g.AwayStrikes = intPtr(out.AwayStrikes)
	g.HomePoints = intPtr(out.HomePoints)
	g.AwayPoints = intPtr(out.AwayPoints)

	var frames []league.Frame
	for _, bowlerID := range sortedKeys(out.Frames) {
		frames = append(frames, out.Frames[bowlerID]...)
	}
	g.Frames = frames
}

// CheckSubstitution enforces the substitution guards: the stated team must
// be one of the match's two sides, the original bowler must be on its
// roster, and the stand-in must not be rostered on either side. Note that
// deleting a substitution later does not rescore settled games — team
// membership is rebuilt from current substitutions at computation time.
func CheckSubstitution(m *league.Match, sub league.Substitution) error {
	var team *league.Team
	switch sub.TeamID {
	case m.HomeTeam.ID:
		team = &m.HomeTeam
	case m.AwayTeam.ID:
		team = &m.AwayTeam
	default:
		return league.InvalidRequestf("team %d is not part of match %d", sub.TeamID, m.ID)
	}
	if !team.RosterIDs()[sub.OriginalBowlerID] {
		return league.InvalidRequestf("bowler %d is not on team %d's roster", sub.OriginalBowlerID, sub.TeamID)
	}
	if m.HomeTeam.RosterIDs()[sub.SubstituteBowlerID] || m.AwayTeam.RosterIDs()[sub.SubstituteBowlerID] {
		return league.InvalidRequestf("substitute %d is already rostered on this match", sub.SubstituteBowlerID)
	}
	return nil
}

// mergeFrames overwrites the existing frames named in the submission and
// appends the rest. Frames absent from the submission are untouched.
func mergeFrames(existing []league.Frame, bs league.BowlerScore) []league.Frame {
	byNumber := make(map[int]league.Frame, len(existing))
	for _, f := range existing {
		byNumber[f.Number] = f
	}
	for _, fs := range bs.Frames {
		prev := byNumber[fs.Number]
		byNumber[fs.Number] = league.Frame{
			ID:         prev.ID,
			GameID:     prev.GameID,
			BowlerID:   bs.BowlerID,
			Number:     fs.Number,
			Ball1:      fs.Ball1,
			Ball2:      fs.Ball2,
			Ball3:      fs.Ball3,
			Ball1Split: fs.Ball1Split,
		}
	}
	merged := make([]league.Frame, 0, len(byNumber))
	for _, f := range byNumber {
		merged = append(merged, f)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Number < merged[j].Number })
	return merged
}

func sortedKeys(m map[int64][]league.Frame) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func intPtr(n int) *int { return &n }
