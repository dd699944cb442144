// Package schedule generates a season's round-robin fixture list. It runs
// once, before any games exist, and is otherwise independent of the
// scoring path.
package schedule

import (
	"github.com/strikebook/strikebook/internal/league"
)

// byeID is the synthetic placeholder padded in for odd team counts. A
// pairing against the bye is that team's week off and is never emitted.
const byeID int64 = 0

// Pairing is one generated match slot. Home/away assignment is whatever
// the rotation yields — it is not balanced for home/away fairness.
type Pairing struct {
	Week       int
	HomeTeamID int64
	AwayTeamID int64
}

// RoundRobin produces the classic circle-method schedule for the given
// team IDs: fix the first team, rotate the rest one position per week.
// With n teams (after bye padding) there are n-1 weeks of n/2 pairings.
// Fewer than two teams is rejected.
func RoundRobin(teamIDs []int64) ([]Pairing, error) {
	if len(teamIDs) < 2 {
		return nil, league.InvalidRequestf("round-robin needs at least 2 teams, got %d", len(teamIDs))
	}

	ring := make([]int64, len(teamIDs))
	copy(ring, teamIDs)
	if len(ring)%2 != 0 {
		ring = append(ring, byeID)
	}

	n := len(ring)
	weeks := n - 1
	pairings := make([]Pairing, 0, weeks*(n/2))

	for week := 1; week <= weeks; week++ {
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == byeID || away == byeID {
				continue
			}
			pairings = append(pairings, Pairing{Week: week, HomeTeamID: home, AwayTeamID: away})
		}

		// Rotate everything but the fixed first position.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	return pairings, nil
}
