package league

// ValidateSubmission checks a score submission against the frame invariants
// before anything is written. The scoring engine itself trusts its input:
// values that slip past validation produce a wrong but non-crashing score,
// so every score source — including the scorecard reader — must pass
// through here first.
func ValidateSubmission(sub ScoreSubmission) error {
	if sub.GameNumber < 1 || sub.GameNumber > GamesPerMatch {
		return InvalidRequestf("gameNumber %d out of range 1..%d", sub.GameNumber, GamesPerMatch)
	}
	if len(sub.Bowlers) == 0 {
		return InvalidRequestf("submission has no bowlers")
	}

	for _, bs := range sub.Bowlers {
		seen := make(map[int]bool, len(bs.Frames))
		if len(bs.Frames) == 0 {
			return InvalidRequestf("bowler %d: no frames", bs.BowlerID)
		}
		for _, f := range bs.Frames {
			if err := validateFrame(bs.BowlerID, f); err != nil {
				return err
			}
			if seen[f.Number] {
				return InvalidRequestf("bowler %d: duplicate frame %d", bs.BowlerID, f.Number)
			}
			seen[f.Number] = true
		}
	}
	return nil
}

func validateFrame(bowlerID int64, f FrameScore) error {
	if f.Number < 1 || f.Number > FramesPerGame {
		return InvalidRequestf("bowler %d: frameNumber %d out of range 1..%d", bowlerID, f.Number, FramesPerGame)
	}
	if f.Ball1 < 0 || f.Ball1 > 10 {
		return InvalidRequestf("bowler %d frame %d: ball1 %d out of range 0..10", bowlerID, f.Number, f.Ball1)
	}
	for _, b := range []struct {
		name string
		val  *int
	}{{"ball2", f.Ball2}, {"ball3", f.Ball3}} {
		if b.val != nil && (*b.val < 0 || *b.val > 10) {
			return InvalidRequestf("bowler %d frame %d: %s %d out of range 0..10", bowlerID, f.Number, b.name, *b.val)
		}
	}

	if f.Number < FramesPerGame {
		// Pins standing: outside the tenth, the two balls share ten pins
		// and a strike ends the frame.
		if f.Ball3 != nil {
			return InvalidRequestf("bowler %d frame %d: ball3 only allowed in frame %d", bowlerID, f.Number, FramesPerGame)
		}
		if f.Ball1 == 10 {
			if f.Ball2 != nil {
				return InvalidRequestf("bowler %d frame %d: ball2 not allowed after a strike", bowlerID, f.Number)
			}
		} else if f.Ball2 != nil && f.Ball1+*f.Ball2 > 10 {
			return InvalidRequestf("bowler %d frame %d: ball1+ball2 = %d exceeds 10", bowlerID, f.Number, f.Ball1+*f.Ball2)
		}
		return nil
	}

	// Tenth frame: a third ball is earned by a strike or a spare.
	if f.Ball3 != nil {
		if f.Ball2 == nil {
			return InvalidRequestf("bowler %d frame %d: ball3 without ball2", bowlerID, f.Number)
		}
		earned := f.Ball1 == 10 || f.Ball1+*f.Ball2 == 10
		if !earned {
			return InvalidRequestf("bowler %d frame %d: ball3 requires a strike or spare", bowlerID, f.Number)
		}
	}
	// Fresh rack after a strike; otherwise the first two balls share pins.
	if f.Ball1 < 10 && f.Ball2 != nil && f.Ball1+*f.Ball2 > 10 {
		return InvalidRequestf("bowler %d frame %d: ball1+ball2 = %d exceeds 10", bowlerID, f.Number, f.Ball1+*f.Ball2)
	}
	return nil
}
