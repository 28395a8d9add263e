/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"math/rand"
	"time"
)

// RandSource is the randomness used to shuffle the round 1 seating;
// *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

func NewRandSource(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}

// SeedFirstRound shuffles the active roster uniformly and fills the ladder
// from the top: 2v2 while four players remain, then 1v1, and whoever is
// left over sits on the bench. Stats and handicaps play no part.
func SeedFirstRound(roster []Player, boardCount int,
	rng RandSource) (*RoundAssignment, error) {

	if err := validateBoardCount(boardCount); err != nil {
		return nil, err
	}
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}
	players := ActivePlayers(roster)
	if err := requirePlayers(players); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandSource(time.Now().UnixNano())
	}

	// Fisher-Yates
	for i := len(players) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		players[i], players[j] = players[j], players[i]
	}

	ra := &RoundAssignment{Round: 1}
	for rank, seats := range boardSeats(len(players), boardCount) {
		if seats == 0 {
			break
		}
		b := Board{
			ID:    BoardIDForRank(rank),
			Team1: append([]Player(nil), players[:seats]...),
			Team2: append([]Player(nil), players[seats:2*seats]...),
		}
		ra.Boards = append(ra.Boards, b)
		players = players[2*seats:]
	}
	ra.Bench = append([]Player(nil), players...)

	return ra, nil
}

// matchesRoster reports whether a cached assignment seats exactly the active
// roster on a ladder of boardCount boards, with every board shaped as a fresh
// seeding would shape it.
func (ra *RoundAssignment) matchesRoster(roster []Player,
	boardCount int) bool {

	if ra == nil || ra.Round != 1 || validateBoardCount(boardCount) != nil {
		return false
	}
	active := ActivePlayers(roster)
	var seats []int
	for _, n := range boardSeats(len(active), boardCount) {
		if n > 0 {
			seats = append(seats, n)
		}
	}
	if len(ra.Boards) != len(seats) {
		return false
	}
	for rank, b := range ra.Boards {
		if b.ID != BoardIDForRank(rank) || len(b.Team1) != seats[rank] ||
			len(b.Team2) != seats[rank] {
			return false
		}
	}
	want := make(map[PlayerID]bool, len(active))
	for _, p := range active {
		want[p.ID] = true
	}
	seen := 0
	check := func(p Player) bool {
		if !want[p.ID] {
			return false
		}
		delete(want, p.ID)
		seen++
		return true
	}
	for _, b := range ra.Boards {
		for _, p := range b.Players() {
			if !check(p) {
				return false
			}
		}
	}
	for _, p := range ra.Bench {
		if !check(p) {
			return false
		}
	}

	return seen == len(active)
}
