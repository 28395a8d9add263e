/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"sort"
	"strings"
)

// ActivePlayers returns the active roster entries in roster order.
func ActivePlayers(roster []Player) []Player {
	var ret []Player
	for _, p := range roster {
		if p.Active {
			ret = append(ret, p)
		}
	}
	return ret
}

// ValidateRoster rejects empty or duplicate ids and blank names.
func ValidateRoster(roster []Player) error {
	seen := make(map[PlayerID]bool, len(roster))
	for _, p := range roster {
		if strings.TrimSpace(string(p.ID)) == "" {
			return &RosterError{ID: p.ID, Reason: "empty id"}
		}
		if seen[p.ID] {
			return &RosterError{ID: p.ID, Reason: "duplicate id"}
		}
		if strings.TrimSpace(p.Name) == "" {
			return &RosterError{ID: p.ID, Reason: "empty name"}
		}
		seen[p.ID] = true
	}
	return nil
}

func validateBoardCount(n int) error {
	if n < MinBoards || n > MaxBoards {
		return &BoardCountError{Count: n}
	}
	return nil
}

func requirePlayers(active []Player) error {
	const need = 2
	if len(active) < need {
		return &InsufficientPlayersError{Have: len(active), Need: need}
	}
	return nil
}

// boardSeats returns the team size of each ladder rung for n players: a
// board is 2v2 while at least 4 players remain, 1v1 with 2 or 3 left, and
// unfilled below that. Rungs are planned top down so filled boards always
// form a prefix of the ladder.
func boardSeats(n int, boardCount int) []int {
	seats := make([]int, boardCount)
	remaining := n
	for i := range seats {
		switch {
		case remaining >= 4:
			seats[i] = 2
			remaining -= 4
		case remaining >= 2:
			seats[i] = 1
			remaining -= 2
		}
	}
	return seats
}

// FindPlayer returns the index of id in players or -1
func FindPlayer(players []Player, id PlayerID) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// SortPlayersByName orders a copy of players alphabetically.
func SortPlayersByName(players []Player) []Player {
	ret := append([]Player(nil), players...)
	sort.SliceStable(ret, func(i, j int) bool {
		return strings.ToLower(ret[i].Name) < strings.ToLower(ret[j].Name)
	})
	return ret
}

// LookupPlayer finds a player by id, then by case-insensitive name or
// nickname. It returns -1 when nothing matches.
func LookupPlayer(players []Player, key string) int {
	key = strings.TrimSpace(key)
	if idx := FindPlayer(players, PlayerID(key)); idx >= 0 {
		return idx
	}
	for i, p := range players {
		if strings.EqualFold(p.Name, key) ||
			(p.Nickname != "" && strings.EqualFold(p.Nickname, key)) {
			return i
		}
	}
	return -1
}

// RemovePlayer returns a copy of players without id.
func RemovePlayer(players []Player, id PlayerID) []Player {
	var ret []Player
	for _, p := range players {
		if p.ID != id {
			ret = append(ret, p)
		}
	}
	return ret
}
