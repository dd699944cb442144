package league

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ip(n int) *int { return &n }

// sub wraps a set of frames for one bowler into a game-1 submission.
func sub(frames ...FrameScore) ScoreSubmission {
	return ScoreSubmission{
		GameNumber: 1,
		Bowlers:    []BowlerScore{{BowlerID: 101, Frames: frames}},
	}
}

func TestValidateSubmission_Shape(t *testing.T) {
	open := FrameScore{Number: 1, Ball1: 4, Ball2: ip(4)}

	tests := []struct {
		name    string
		sub     ScoreSubmission
		wantErr bool
	}{
		{"valid single frame", sub(open), false},
		{"game number zero", ScoreSubmission{GameNumber: 0, Bowlers: []BowlerScore{{BowlerID: 101, Frames: []FrameScore{open}}}}, true},
		{"game number four", ScoreSubmission{GameNumber: 4, Bowlers: []BowlerScore{{BowlerID: 101, Frames: []FrameScore{open}}}}, true},
		{"no bowlers", ScoreSubmission{GameNumber: 1}, true},
		{"bowler with no frames", ScoreSubmission{GameNumber: 1, Bowlers: []BowlerScore{{BowlerID: 101}}}, true},
		{"duplicate frame number", sub(open, FrameScore{Number: 1, Ball1: 2, Ball2: ip(3)}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.sub)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSubmission_FrameRules(t *testing.T) {
	tests := []struct {
		name    string
		frame   FrameScore
		wantErr bool
	}{
		{"open frame", FrameScore{Number: 3, Ball1: 4, Ball2: ip(5)}, false},
		{"strike no second ball", FrameScore{Number: 3, Ball1: 10}, false},
		{"first ball only", FrameScore{Number: 3, Ball1: 7}, false},
		{"frame number zero", FrameScore{Number: 0, Ball1: 4}, true},
		{"frame number eleven", FrameScore{Number: 11, Ball1: 4}, true},
		{"ball1 negative", FrameScore{Number: 3, Ball1: -1}, true},
		{"ball1 over ten", FrameScore{Number: 3, Ball1: 11}, true},
		{"ball2 over ten", FrameScore{Number: 3, Ball1: 0, Ball2: ip(11)}, true},
		{"ball2 after strike", FrameScore{Number: 3, Ball1: 10, Ball2: ip(0)}, true},
		{"pins exceed rack", FrameScore{Number: 3, Ball1: 6, Ball2: ip(5)}, true},
		{"ball3 outside tenth", FrameScore{Number: 9, Ball1: 10, Ball3: ip(10)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(sub(tt.frame))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSubmission_TenthFrame(t *testing.T) {
	tests := []struct {
		name    string
		frame   FrameScore
		wantErr bool
	}{
		{"three strikes", FrameScore{Number: 10, Ball1: 10, Ball2: ip(10), Ball3: ip(10)}, false},
		{"spare then bonus", FrameScore{Number: 10, Ball1: 6, Ball2: ip(4), Ball3: ip(7)}, false},
		{"strike then open pair", FrameScore{Number: 10, Ball1: 10, Ball2: ip(3), Ball3: ip(4)}, false},
		{"open no third ball", FrameScore{Number: 10, Ball1: 6, Ball2: ip(3)}, false},
		{"ball3 without ball2", FrameScore{Number: 10, Ball1: 10, Ball3: ip(10)}, true},
		{"ball3 unearned", FrameScore{Number: 10, Ball1: 6, Ball2: ip(3), Ball3: ip(1)}, true},
		{"open pair exceeds rack", FrameScore{Number: 10, Ball1: 6, Ball2: ip(5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(sub(tt.frame))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
