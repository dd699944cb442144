// Package scoring implements standard ten-pin game scoring with look-ahead
// bonuses. It is a pure computation over one bowler's frames for one game.
//
// The calculator trusts its input: ball values must already satisfy the
// pins-standing invariant (see league.ValidateSubmission). Out-of-range
// values are never clamped here — they produce a wrong but non-crashing
// result, which is why every score source is validated upstream.
package scoring

import (
	"sort"

	"github.com/strikebook/strikebook/internal/league"
)

// Mode selects how incomplete frame sets are treated.
type Mode int

const (
	// ModeRunning produces a best-effort running total: missing future
	// frames contribute 0 bonus and partial games score with the data
	// present. Safe for mid-game display, never for a settled result.
	ModeRunning Mode = iota

	// ModeFinal requires a complete game — all ten frames, with every
	// earned bonus ball bowled — and fails otherwise. Use this before
	// persisting a score as final.
	ModeFinal
)

// Result carries a game total and the derived counts statistics run on.
type Result struct {
	// Pins is the game total including strike/spare bonuses.
	Pins int
	// Strikes counts first-ball strikes in every frame, plus tenth-frame
	// second and third balls that are themselves strikes.
	Strikes int
	// Spares counts frames converted on the second ball. The tenth frame
	// can contribute two: its first pair, and — after an opening strike —
	// a ball2+ball3 conversion.
	Spares int
	// Gutters counts every ball bowled that took zero pins.
	Gutters int
}

// Score computes the total and derived counts for one bowler's frames,
// ordered by frame number (the input is sorted defensively). Frames need
// not be contiguous or complete in ModeRunning.
func Score(frames []league.Frame, mode Mode) (Result, error) {
	ordered := make([]league.Frame, len(frames))
	copy(ordered, frames)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	byNumber := make(map[int]league.Frame, len(ordered))
	for _, f := range ordered {
		byNumber[f.Number] = f
	}

	if mode == ModeFinal {
		if err := checkComplete(byNumber); err != nil {
			return Result{}, err
		}
	}

	var res Result
	for _, f := range ordered {
		res.Pins += frameScore(f, byNumber)
		tallyCounts(&res, f)
	}
	return res, nil
}

// frameScore returns one frame's contribution to the game total, reading
// bonus balls from later frames. Missing bonus balls count 0.
func frameScore(f league.Frame, byNumber map[int]league.Frame) int {
	if f.Number == league.FramesPerGame {
		// Terminal: no look-ahead, the bonus balls live in the frame.
		return f.Ball1 + intOrZero(f.Ball2) + intOrZero(f.Ball3)
	}

	switch {
	case f.IsStrike():
		return 10 + strikeBonus(f.Number, byNumber)
	case f.IsSpare():
		next, ok := byNumber[f.Number+1]
		if !ok {
			return 10
		}
		return 10 + next.Ball1
	default:
		return f.Ball1 + intOrZero(f.Ball2)
	}
}

// strikeBonus finds the next two balls bowled after a strike in frame n.
func strikeBonus(n int, byNumber map[int]league.Frame) int {
	next, ok := byNumber[n+1]
	if !ok {
		return 0
	}
	if next.IsStrike() && next.Number < league.FramesPerGame {
		// Consecutive strikes: the second bonus ball is the first ball
		// of the frame after next.
		after, ok := byNumber[n+2]
		if !ok {
			return 10
		}
		return 10 + after.Ball1
	}
	return next.Ball1 + intOrZero(next.Ball2)
}

func tallyCounts(res *Result, f league.Frame) {
	if f.IsStrike() {
		res.Strikes++
	}
	if f.IsSpare() {
		res.Spares++
	}
	if f.Ball1 == 0 {
		res.Gutters++
	}
	if f.Ball2 != nil && *f.Ball2 == 0 {
		res.Gutters++
	}
	if f.Ball3 != nil && *f.Ball3 == 0 {
		res.Gutters++
	}

	if f.Number == league.FramesPerGame {
		// The tenth frame can hold up to three strikes, or a second
		// spare on its bonus balls after an opening strike.
		if f.Ball2 != nil && *f.Ball2 == 10 {
			res.Strikes++
		}
		if f.Ball3 != nil && *f.Ball3 == 10 {
			res.Strikes++
		}
		if f.IsStrike() && f.Ball2 != nil && *f.Ball2 < 10 &&
			f.Ball3 != nil && *f.Ball2+*f.Ball3 == 10 {
			res.Spares++
		}
	}
}

// checkComplete verifies all ten frames exist and every earned ball was
// bowled, so a final score can never silently under-count.
func checkComplete(byNumber map[int]league.Frame) error {
	for n := 1; n <= league.FramesPerGame; n++ {
		f, ok := byNumber[n]
		if !ok {
			return league.InvalidRequestf("final score requires frame %d", n)
		}
		if n < league.FramesPerGame {
			if !f.IsStrike() && f.Ball2 == nil {
				return league.InvalidRequestf("final score requires ball2 in frame %d", n)
			}
			continue
		}
		if f.Ball2 == nil {
			return league.InvalidRequestf("final score requires ball2 in frame %d", n)
		}
		if (f.IsStrike() || f.Ball1+*f.Ball2 == 10) && f.Ball3 == nil {
			return league.InvalidRequestf("final score requires bonus ball in frame %d", n)
		}
	}
	return nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
