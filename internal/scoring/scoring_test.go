package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strikebook/strikebook/internal/league"
)

func ip(n int) *int { return &n }

// frame builds a test frame. Pass -1 for a ball that was not bowled.
func frame(number, b1, b2, b3 int) league.Frame {
	f := league.Frame{Number: number, Ball1: b1}
	if b2 >= 0 {
		f.Ball2 = ip(b2)
	}
	if b3 >= 0 {
		f.Ball3 = ip(b3)
	}
	return f
}

// game builds ten identical two-ball frames plus a custom tenth.
func uniformGame(b1, b2 int, tenth league.Frame) []league.Frame {
	frames := make([]league.Frame, 0, 10)
	for n := 1; n <= 9; n++ {
		frames = append(frames, frame(n, b1, b2, -1))
	}
	return append(frames, tenth)
}

func TestScore_CompleteGames(t *testing.T) {
	tests := []struct {
		name    string
		frames  []league.Frame
		pins    int
		strikes int
		spares  int
		gutters int
	}{
		{
			name: "perfect game",
			frames: func() []league.Frame {
				var fs []league.Frame
				for n := 1; n <= 9; n++ {
					fs = append(fs, frame(n, 10, -1, -1))
				}
				return append(fs, frame(10, 10, 10, 10))
			}(),
			pins:    300,
			strikes: 12,
		},
		{
			name:    "all nine and a miss",
			frames:  uniformGame(9, 0, frame(10, 9, 0, -1)),
			pins:    90,
			gutters: 10,
		},
		{
			name:    "all spares with a five bonus",
			frames:  uniformGame(5, 5, frame(10, 5, 5, 5)),
			pins:    150,
			spares:  10,
		},
		{
			name: "tenth frame strike then spare on bonus balls",
			frames: func() []league.Frame {
				fs := uniformGame(0, 0, frame(10, 10, 4, 6))
				return fs
			}(),
			pins:    20,
			strikes: 1,
			spares:  1,
			gutters: 18,
		},
		{
			name:    "tenth frame spare with a gutter and a bonus strike",
			frames:  uniformGame(9, 0, frame(10, 0, 10, 10)),
			pins:    101, // frame 9 spare? no: 9,0 open frames ×9 = 81, tenth 0+10+10 = 20
			strikes: 2,   // tenth ball2 and ball3
			spares:  1,   // 0+10 converts
			gutters: 10,  // nine second-ball misses plus tenth ball1
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(tt.frames, ModeFinal)
			require.NoError(t, err)
			require.Equal(t, tt.pins, res.Pins, "pins")
			require.Equal(t, tt.strikes, res.Strikes, "strikes")
			require.Equal(t, tt.spares, res.Spares, "spares")
			require.Equal(t, tt.gutters, res.Gutters, "gutters")
		})
	}
}

func TestScore_BonusLookahead(t *testing.T) {
	tests := []struct {
		name   string
		frames []league.Frame
		pins   int
	}{
		{
			name:   "spare then three",
			frames: []league.Frame{frame(1, 5, 5, -1), frame(2, 3, -1, -1)},
			pins:   16, // frame 1: 10+3, frame 2: 3 so far
		},
		{
			name:   "strike in nine then strike in ten",
			frames: []league.Frame{frame(9, 10, -1, -1), frame(10, 10, 7, -1)},
			pins:   10 + 10 + 7 + 17, // frame 9 bonus reads the tenth's first two balls
		},
		{
			name:   "double then open",
			frames: []league.Frame{frame(1, 10, -1, -1), frame(2, 10, -1, -1), frame(3, 4, 2, -1)},
			pins:   24 + 16 + 6,
		},
		{
			name:   "strike bonus reads both balls of next frame",
			frames: []league.Frame{frame(1, 10, -1, -1), frame(2, 3, 6, -1)},
			pins:   19 + 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(tt.frames, ModeRunning)
			require.NoError(t, err)
			require.Equal(t, tt.pins, res.Pins)
		})
	}
}

func TestScore_RunningPartials(t *testing.T) {
	tests := []struct {
		name   string
		frames []league.Frame
		pins   int
	}{
		{name: "lone strike waits for bonus", frames: []league.Frame{frame(1, 10, -1, -1)}, pins: 10},
		{name: "lone spare waits for bonus", frames: []league.Frame{frame(3, 6, 4, -1)}, pins: 10},
		{name: "open frame needs no future", frames: []league.Frame{frame(5, 7, 1, -1)}, pins: 8},
		{name: "no frames at all", frames: nil, pins: 0},
		{
			name:   "unsorted input is sorted before look-ahead",
			frames: []league.Frame{frame(2, 3, 4, -1), frame(1, 5, 5, -1)},
			pins:   13 + 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(tt.frames, ModeRunning)
			require.NoError(t, err)
			require.Equal(t, tt.pins, res.Pins)
		})
	}
}

func TestScore_FinalRequiresCompleteGame(t *testing.T) {
	tests := []struct {
		name   string
		frames []league.Frame
	}{
		{name: "missing frames", frames: []league.Frame{frame(1, 10, -1, -1)}},
		{
			name:   "open frame missing second ball",
			frames: uniformGame(9, 0, frame(10, 9, 0, -1))[0:9:9], // drop the tenth
		},
		{
			name:   "tenth frame spare missing bonus ball",
			frames: uniformGame(9, 0, frame(10, 9, 1, -1)),
		},
		{
			name:   "tenth frame strike missing bonus ball",
			frames: uniformGame(9, 0, frame(10, 10, 5, -1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(tt.frames, ModeFinal)
			require.ErrorIs(t, err, league.ErrInvalidRequest)
		})
	}

	t.Run("complete open tenth passes", func(t *testing.T) {
		_, err := Score(uniformGame(9, 0, frame(10, 9, 0, -1)), ModeFinal)
		require.NoError(t, err)
	})
}
